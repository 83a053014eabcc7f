package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the signature algorithm for both identity
// verification and session minting.
type SigningMethod string

const (
	// MethodHS256 verifies and signs with a shared secret.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 verifies with public keys and signs with a private key.
	MethodEd25519 SigningMethod = "ed25519"
)

// Config holds the key material and claim constraints for a [Manager].
// Instances are validated by [NewManager] and immutable afterwards.
type Config struct {
	SigningMethod SigningMethod

	// IdentityKey verifies externally issued identity tokens: the shared
	// secret for hs256, the raw or PEM ed25519 public key otherwise.
	IdentityKey []byte

	// SessionPrivateKey signs session access tokens. Empty with hs256 means
	// the identity secret signs sessions too.
	SessionPrivateKey []byte
	SessionPublicKey  []byte

	// IdentityIssuer, when non-empty, must match the identity token's iss.
	IdentityIssuer string
	Audience       string

	SessionTTL time.Duration

	// Leeway is the explicit clock-skew window. Zero means none; values
	// above two minutes are rejected.
	Leeway time.Duration
}

// IdentityClaims are the verified fields of an externally issued identity
// token.
type IdentityClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// SessionClaims are carried by the local session access token. The identity
// claims round-trip through it, which is what makes the session stateless.
type SessionClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	SID   string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager verifies identity tokens and mints session tokens.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a ready Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.IdentityKey) == 0 {
			return nil, errors.New("hs256 requires an identity key")
		}
	case MethodEd25519:
		if _, err := parseEdPublicKey(cfg.IdentityKey); err != nil {
			return nil, fmt.Errorf("identity key: %w", err)
		}
		if _, err := parseEdPrivateKey(cfg.SessionPrivateKey); err != nil {
			return nil, fmt.Errorf("session private key: %w", err)
		}
		if _, err := parseEdPublicKey(cfg.SessionPublicKey); err != nil {
			return nil, fmt.Errorf("session public key: %w", err)
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Manager{config: cfg}, nil
}

// ParseIdentity verifies an externally issued identity token and extracts
// its claims. Expired tokens fail with an error matching
// [jwt.ErrTokenExpired]; every other failure mode (malformed input, wrong
// key, wrong algorithm, issuer or audience mismatch) is a generic parse
// error. Already-expired tokens are rejected even at login.
func (m *Manager) ParseIdentity(tokenStr string) (*IdentityClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method().Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.IdentityIssuer != "" {
		options = append(options, jwt.WithIssuer(m.config.IdentityIssuer))
	}
	if m.config.Audience != "" {
		options = append(options, jwt.WithAudience(m.config.Audience))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &IdentityClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.identityVerifyKey()
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return nil, errors.New("identity token missing subject")
	}

	return claims, nil
}

// MintSession signs a session access token for verified identity claims.
// The returned expiry is now + SessionTTL.
func (m *Manager) MintSession(identity *IdentityClaims, sessionID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.config.SessionTTL)

	claims := SessionClaims{
		Email: identity.Email,
		Role:  identity.Role,
		SID:   sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(m.method(), claims)

	signKey, err := m.sessionSignKey()
	if err != nil {
		return "", time.Time{}, err
	}

	signed, err := token.SignedString(signKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// ParseSession verifies a session access token minted by [MintSession].
// Same error contract as [ParseIdentity].
func (m *Manager) ParseSession(tokenStr string) (*SessionClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method().Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.sessionVerifyKey()
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" || claims.SID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

func (m *Manager) method() jwt.SigningMethod {
	switch m.config.SigningMethod {
	case MethodEd25519:
		return jwt.SigningMethodEdDSA
	default:
		return jwt.SigningMethodHS256
	}
}

func (m *Manager) identityVerifyKey() (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodEd25519:
		return parseEdPublicKey(m.config.IdentityKey)
	default:
		return m.config.IdentityKey, nil
	}
}

func (m *Manager) sessionSignKey() (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodEd25519:
		return parseEdPrivateKey(m.config.SessionPrivateKey)
	default:
		if len(m.config.SessionPrivateKey) > 0 {
			return m.config.SessionPrivateKey, nil
		}
		return m.config.IdentityKey, nil
	}
}

func (m *Manager) sessionVerifyKey() (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodEd25519:
		return parseEdPublicKey(m.config.SessionPublicKey)
	default:
		if len(m.config.SessionPrivateKey) > 0 {
			return m.config.SessionPrivateKey, nil
		}
		return m.config.IdentityKey, nil
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
