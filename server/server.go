package server

import (
	"fmt"
	"net/http"

	goShield "github.com/MrEthical07/goShield"
	"github.com/MrEthical07/goShield/middleware"
)

// Server mounts the auth surface and arbitrary downstream handlers behind
// the interceptor chain. Build it once at startup; Handle is not safe for
// concurrent use with request serving.
type Server struct {
	gate  *goShield.Gate
	chain *middleware.Chain
	mux   *http.ServeMux
}

// Option customizes a Server at construction.
type Option func(*Server)

// WithMetricsHandler mounts h on GET /metrics, outside the interceptor
// chain. Callers typically pass a metrics/export/prometheus handler.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.mux.Handle("GET /metrics", h)
	}
}

// WithChain replaces the default interceptor chain, for callers that need
// a custom interceptor order.
func WithChain(chain *middleware.Chain) Option {
	return func(s *Server) {
		s.chain = chain
	}
}

// New builds a Server with the built-in auth routes registered.
func New(gate *goShield.Gate, opts ...Option) *Server {
	s := &Server{
		gate:  gate,
		chain: middleware.NewChain(gate),
		mux:   http.NewServeMux(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.mustHandle(goShield.PolicyLogin, http.HandlerFunc(s.handleLogin))
	s.mustHandle(goShield.PolicyLogout, http.HandlerFunc(s.handleLogout))
	s.mustHandle(goShield.PolicyMe, http.HandlerFunc(s.handleMe))
	s.mustHandle(goShield.PolicyCSRFToken, http.HandlerFunc(s.handleCSRFToken))
	s.mustHandle(goShield.PolicyHealth, http.HandlerFunc(s.handleHealth))

	return s
}

// Handle registers a downstream handler behind the full chain under its
// static route policy. The downstream LMS mounts uploads, forum writes,
// and the rest of its surface here; they all inherit rate limiting, CSRF,
// and session validation without further wiring.
func (s *Server) Handle(policy goShield.RoutePolicy, h http.Handler) error {
	if err := policy.Validate(); err != nil {
		return err
	}

	s.mux.Handle(policy.Method+" "+policy.Pattern, s.chain.Then(policy, h))
	return nil
}

func (s *Server) mustHandle(policy goShield.RoutePolicy, h http.Handler) {
	if err := s.Handle(policy, h); err != nil {
		panic(fmt.Sprintf("builtin route %s: %v", policy.Pattern, err))
	}
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
