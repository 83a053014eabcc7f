package goShield

import (
	"crypto/subtle"

	"github.com/MrEthical07/goShield/internal"
)

// NewCSRFToken mints a fresh random CSRF artifact. Every call produces an
// independent value; tokens are never reused across logins and never
// derived from the access token.
func NewCSRFToken(size int) (string, error) {
	return internal.NewToken(size)
}

// VerifyDoubleSubmit enforces the double-submit invariant: the value from
// the CSRF cookie and the value from the request header must both be
// present and exactly equal. The comparison is constant-time; missing and
// mismatching values surface as distinct sentinels but map to the same
// externally visible status.
//
// The check is a pure gate: it mutates nothing.
func VerifyDoubleSubmit(cookieValue, headerValue string) error {
	if cookieValue == "" || headerValue == "" {
		return ErrCSRFMissing
	}
	if subtle.ConstantTimeCompare([]byte(cookieValue), []byte(headerValue)) != 1 {
		return ErrCSRFMismatch
	}
	return nil
}
