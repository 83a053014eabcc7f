package server

import (
	"encoding/json"
	"errors"
	"net/http"

	goShield "github.com/MrEthical07/goShield"
	"github.com/MrEthical07/goShield/middleware"
)

type loginRequest struct {
	AccessToken string `json:"access_token"`
}

type loginResponse struct {
	CSRFToken string               `json:"csrf_token"`
	User      goShield.UserSummary `json:"user"`
}

type csrfResponse struct {
	CSRFToken string `json:"csrf_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccessToken == "" {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, user, err := s.gate.Login(r.Context(), req.AccessToken)
	if err != nil {
		switch {
		case errors.Is(err, goShield.ErrTokenExpired):
			middleware.WriteError(w, http.StatusUnauthorized, "token expired")
		case errors.Is(err, goShield.ErrTokenInvalid):
			middleware.WriteError(w, http.StatusUnauthorized, "invalid token")
		default:
			middleware.WriteError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	// Both artifacts are already constructed; the cookie pair and the body
	// are written from the same Session value.
	s.gate.Cookies().Write(w, session)
	writeJSON(w, http.StatusOK, loginResponse{
		CSRFToken: session.CSRFToken,
		User:      user,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// CSRF has already passed; logout cannot fail from here. Session
	// validation is deliberately skipped so expired sessions can still be
	// cleared.
	claims, _ := middleware.ClaimsFromContext(r.Context())
	s.gate.Logout(r.Context(), claims)

	s.gate.Cookies().Clear(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logout successful"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, goShield.ErrUnauthenticated.Error())
		return
	}

	provider := s.gate.Profiles()
	if provider == nil {
		writeJSON(w, http.StatusOK, goShield.Profile{
			ID:    claims.Subject,
			Email: claims.Email,
			Role:  claims.Role,
		})
		return
	}

	profile, err := provider.GetProfile(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, goShield.ErrProfileNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "profile not found")
			return
		}
		middleware.WriteError(w, http.StatusServiceUnavailable, "profile backend unavailable")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := s.gate.IssueCSRFToken()
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "csrf token generation failed")
		return
	}

	s.gate.Cookies().WriteCSRF(w, token, s.gate.CSRFBootstrapTTL())
	writeJSON(w, http.StatusOK, csrfResponse{CSRFToken: token})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
