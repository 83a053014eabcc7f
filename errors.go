package goShield

import "errors"

var (
	// ErrTokenInvalid is returned when an identity or session token fails
	// signature verification, is malformed, or is empty.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned when a token's signature verifies but its
	// expiry instant is strictly before the current time.
	ErrTokenExpired = errors.New("token expired")
	// ErrCSRFMissing is returned when the CSRF cookie or the CSRF header is
	// absent on an unsafe-method protected request.
	ErrCSRFMissing = errors.New("csrf token missing")
	// ErrCSRFMismatch is returned when both CSRF values are present but are
	// not exactly equal.
	ErrCSRFMismatch = errors.New("csrf token mismatch")
	// ErrRateLimited is returned when a client key has exhausted the request
	// budget of a route class for the current window.
	ErrRateLimited = errors.New("rate limited")
	// ErrUnauthenticated is returned when a request presents neither a
	// session cookie nor a bearer token.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrProfileNotFound is returned by ProfileProvider implementations when
	// no profile record exists for an authenticated subject.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrStoreUnavailable is returned when the rate-limit counter store
	// cannot be reached.
	ErrStoreUnavailable = errors.New("counter store unavailable")
	// ErrGateNotReady is returned when a Gate method is called on a nil or
	// unbuilt Gate.
	ErrGateNotReady = errors.New("gate not initialized")
)
