package goShield

import (
	"context"
	"time"
)

// Claims is the verified identity attached to a request after the access
// token (or a legacy bearer token) has been validated. Consumed read-only
// by downstream handlers.
type Claims struct {
	Subject   string
	Email     string
	Role      string
	SessionID string
	ExpiresAt time.Time
}

// Session is the pair of client-stored artifacts minted by [Gate.Login].
// Both artifacts are constructed before either is transmitted; a session is
// never issued with only one of the two set.
type Session struct {
	AccessToken string
	CSRFToken   string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// UserSummary is the minimal user representation returned in the login
// response body alongside the CSRF token.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Profile is the downstream profile record returned by [ProfileProvider].
type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name,omitempty"`
}

// ProfileProvider is the optional interface callers implement to back
// GET /auth/me with a real profile store. Implementations return
// [ErrProfileNotFound] (wrapped or bare) when no record exists for the
// subject; any other error is treated as a backend failure.
type ProfileProvider interface {
	GetProfile(ctx context.Context, subject string) (Profile, error)
}

// Decision is the outcome of a rate-limit check. RetryAfter is only
// meaningful when Allowed is false; it always satisfies 0 < RetryAfter ≤
// the route class window.
type Decision struct {
	Allowed    bool
	Limit      int
	RetryAfter time.Duration
}
