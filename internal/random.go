package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

const minTokenBytes = 16

// NewToken returns size cryptographically random bytes encoded as compact
// base64url (no padding). size below 16 bytes (128 bits) is rejected:
// CSRF tokens must never be shorter than that.
func NewToken(size int) (string, error) {
	if size < minTokenBytes {
		return "", errors.New("token size below 128 bits")
	}

	raw := make([]byte, size)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}
