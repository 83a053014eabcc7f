package goShield

import (
	"errors"
	"net/http"
	"time"
)

// Access tags a route as reachable without a session (Public) or requiring
// a validated session (Protected). Resolved once at registration time;
// interceptors never re-match paths at request time.
type Access uint8

const (
	// Public routes skip the auth interceptor entirely.
	Public Access = iota
	// Protected routes require a valid session (or legacy bearer token) and
	// enforce the CSRF double-submit check on unsafe methods.
	Protected
)

// LimitPolicy is the fixed-window budget of a route class. Max <= 0 means
// unlimited (the limiter is bypassed for the class).
type LimitPolicy struct {
	Max    int
	Window time.Duration
}

// RoutePolicy is static, registration-time metadata for one route. Policies
// are values; they are never mutated after the server mux is built.
//
// Name doubles as the rate-limit route class: distinct names maintain
// independent counters, so exhausting one class never blocks another for
// the same client.
type RoutePolicy struct {
	Name    string
	Method  string
	Pattern string
	Access  Access

	// CSRFExempt bypasses the CSRF guard even on unsafe methods. Login and
	// the CSRF bootstrap endpoint set it; arbitrary handlers should not.
	CSRFExempt bool

	// AuthExempt skips session validation while keeping the CSRF guard.
	// Logout sets it: clearing cookies must succeed once CSRF has passed,
	// even if the session itself has already expired.
	AuthExempt bool

	Limit LimitPolicy
}

// UnsafeMethod reports whether the policy's method is state-changing and
// therefore subject to the CSRF guard.
func (p RoutePolicy) UnsafeMethod() bool {
	switch p.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// CSRFEnforced reports whether the double-submit check applies to this
// route: unsafe method, Protected access, not exempt.
func (p RoutePolicy) CSRFEnforced() bool {
	return p.Access == Protected && p.UnsafeMethod() && !p.CSRFExempt
}

// Validate rejects policies that cannot be enforced deterministically.
func (p RoutePolicy) Validate() error {
	if p.Name == "" {
		return errors.New("route policy requires a name")
	}
	if p.Method == "" || p.Pattern == "" {
		return errors.New("route policy requires method and pattern")
	}
	if p.Limit.Max > 0 && p.Limit.Window <= 0 {
		return errors.New("route policy with a limit requires a positive window")
	}
	return nil
}

// Built-in policies for the auth surface. The window values follow the
// platform defaults: login 5/60s, logout 20/60s, reads 60/60s.
var (
	// PolicyLogin covers POST /auth/login. Public and CSRF-exempt: the
	// session (and its CSRF artifact) does not exist yet.
	PolicyLogin = RoutePolicy{
		Name:       "login",
		Method:     http.MethodPost,
		Pattern:    "/auth/login",
		Access:     Public,
		CSRFExempt: true,
		Limit:      LimitPolicy{Max: 5, Window: time.Minute},
	}

	// PolicyLogout covers POST /auth/logout. CSRF is enforced; session
	// validation is not, so clearing already-expired cookies still succeeds.
	PolicyLogout = RoutePolicy{
		Name:       "logout",
		Method:     http.MethodPost,
		Pattern:    "/auth/logout",
		Access:     Protected,
		AuthExempt: true,
		Limit:      LimitPolicy{Max: 20, Window: time.Minute},
	}

	// PolicyMe covers GET /auth/me. Safe method, so the CSRF guard never
	// applies regardless of header presence.
	PolicyMe = RoutePolicy{
		Name:    "read",
		Method:  http.MethodGet,
		Pattern: "/auth/me",
		Access:  Protected,
		Limit:   LimitPolicy{Max: 60, Window: time.Minute},
	}

	// PolicyCSRFToken covers GET /auth/csrf-token, the pre-login bootstrap
	// fetch for the double-submit pattern.
	PolicyCSRFToken = RoutePolicy{
		Name:       "read",
		Method:     http.MethodGet,
		Pattern:    "/auth/csrf-token",
		Access:     Public,
		CSRFExempt: true,
		Limit:      LimitPolicy{Max: 60, Window: time.Minute},
	}

	// PolicyHealth covers GET /healthz. Exempt from every interceptor.
	PolicyHealth = RoutePolicy{
		Name:       "health",
		Method:     http.MethodGet,
		Pattern:    "/healthz",
		Access:     Public,
		CSRFExempt: true,
	}
)
