package goShield

import (
	"errors"
	"net/http"
	"time"
)

// Config is the full configuration tree consumed by [Builder.Build]. Config
// values are copied during Build and treated as immutable afterwards.
type Config struct {
	JWT       JWTConfig
	Cookie    CookieConfig
	CSRF      CSRFConfig
	RateLimit RateLimitConfig
	Security  SecurityConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig configures both halves of the token layer: verification of the
// externally issued identity token and signing of the local session access
// token. The two may use different keys; when SessionPrivateKey is empty,
// the identity key signs session tokens as well (hs256 only).
type JWTConfig struct {
	SigningMethod string // "hs256" (default) or "ed25519"

	// IdentityKey verifies externally issued identity tokens: the shared
	// secret for hs256, the public key for ed25519.
	IdentityKey []byte

	// SessionPrivateKey signs the local session access token. For ed25519
	// a SessionPublicKey is required alongside it.
	SessionPrivateKey []byte
	SessionPublicKey  []byte

	// IdentityIssuer, when non-empty, is required to match the identity
	// token's iss claim.
	IdentityIssuer string
	Audience       string

	// SessionTTL bounds the lifetime of an issued session.
	SessionTTL time.Duration

	// Leeway is the explicit clock-skew tolerance. Zero by default; never
	// more than two minutes.
	Leeway time.Duration
}

/*
====================================
COOKIE CONFIG
====================================
*/

// CookieConfig controls the transport-level encoding of the two session
// artifacts. The access cookie is always HttpOnly; the CSRF cookie is
// always script-readable so a client script can echo it into the header.
type CookieConfig struct {
	AccessName string
	CSRFName   string
	Path       string
	Domain     string
	Secure     bool
	SameSite   http.SameSite
}

/*
====================================
CSRF CONFIG
====================================
*/

// CSRFConfig controls the double-submit guard.
type CSRFConfig struct {
	HeaderName string
	// TokenBytes is the random size of a minted CSRF token. Minimum 16
	// (128 bits).
	TokenBytes int
	// BootstrapTTL is the cookie lifetime of a pre-login CSRF token fetched
	// from the bootstrap endpoint.
	BootstrapTTL time.Duration
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig controls the fixed-window counter store. When Enabled is
// false, every Allow call passes without touching Redis.
type RateLimitConfig struct {
	Enabled     bool
	RedisPrefix string
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig holds request-attribution settings.
type SecurityConfig struct {
	// TrustForwardedFor makes client-key resolution use the first hop of
	// X-Forwarded-For. Enable only behind a proxy that strips the header
	// from client traffic.
	TrustForwardedFor bool
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull makes Emit non-blocking; dropped events are counted and
	// exposed through Gate.AuditDropped.
	DropIfFull bool
}

// MetricsConfig controls the atomic counter set.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration used by the demo server and the
// test suite. Callers must still supply keys via JWTConfig.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			SigningMethod: "hs256",
			SessionTTL:    time.Hour,
		},
		Cookie: CookieConfig{
			AccessName: "access_token",
			CSRFName:   "csrf_token",
			Path:       "/",
			Secure:     true,
			SameSite:   http.SameSiteLaxMode,
		},
		CSRF: CSRFConfig{
			HeaderName:   "X-CSRF-Token",
			TokenBytes:   32,
			BootstrapTTL: 30 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:     true,
			RedisPrefix: "gs:rl:",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for contradictions before Build wires
// any dependency.
func (c Config) Validate() error {
	switch c.JWT.SigningMethod {
	case "hs256":
		if len(c.JWT.IdentityKey) == 0 {
			return errors.New("hs256 requires an identity key")
		}
	case "ed25519":
		if len(c.JWT.IdentityKey) == 0 {
			return errors.New("ed25519 requires an identity public key")
		}
		if len(c.JWT.SessionPrivateKey) == 0 || len(c.JWT.SessionPublicKey) == 0 {
			return errors.New("ed25519 requires a session key pair")
		}
	default:
		return errors.New("unsupported signing method")
	}

	if c.JWT.SessionTTL <= 0 {
		return errors.New("invalid session TTL")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("invalid leeway configuration")
	}

	if c.Cookie.AccessName == "" || c.Cookie.CSRFName == "" {
		return errors.New("cookie names must be set")
	}
	if c.Cookie.AccessName == c.Cookie.CSRFName {
		return errors.New("access and csrf cookies must use distinct names")
	}
	if c.Cookie.Path == "" {
		return errors.New("cookie path must be set")
	}

	if c.CSRF.HeaderName == "" {
		return errors.New("csrf header name must be set")
	}
	if c.CSRF.TokenBytes < 16 {
		return errors.New("csrf token must be at least 128 bits")
	}
	if c.CSRF.BootstrapTTL <= 0 {
		return errors.New("csrf bootstrap TTL must be positive")
	}

	if c.RateLimit.Enabled && c.RateLimit.RedisPrefix == "" {
		return errors.New("rate limit prefix must be set")
	}

	return nil
}

func cloneConfig(c Config) Config {
	out := c
	out.JWT.IdentityKey = cloneBytes(c.JWT.IdentityKey)
	out.JWT.SessionPrivateKey = cloneBytes(c.JWT.SessionPrivateKey)
	out.JWT.SessionPublicKey = cloneBytes(c.JWT.SessionPublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
