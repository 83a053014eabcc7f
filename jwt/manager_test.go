package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-identity-secret"

func testConfig() Config {
	return Config{
		SigningMethod: MethodHS256,
		IdentityKey:   []byte(testSecret),
		SessionTTL:    time.Hour,
	}
}

func newTestManager(t *testing.T, cfg Config) *Manager {
	t.Helper()

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func signIdentity(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing test token failed: %v", err)
	}
	return token
}

func validIdentityClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "user-1",
		"email": "alice@example.com",
		"role":  "student",
		"exp":   time.Now().Add(10 * time.Minute).Unix(),
		"iat":   time.Now().Unix(),
	}
}

func TestNewManagerRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero ttl", Config{SigningMethod: MethodHS256, IdentityKey: []byte("k")}},
		{"negative leeway", Config{SigningMethod: MethodHS256, IdentityKey: []byte("k"), SessionTTL: time.Hour, Leeway: -time.Second}},
		{"excessive leeway", Config{SigningMethod: MethodHS256, IdentityKey: []byte("k"), SessionTTL: time.Hour, Leeway: 3 * time.Minute}},
		{"missing identity key", Config{SigningMethod: MethodHS256, SessionTTL: time.Hour}},
		{"unknown method", Config{SigningMethod: "rs256", IdentityKey: []byte("k"), SessionTTL: time.Hour}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewManager(tc.cfg); err == nil {
				t.Fatal("expected config rejection")
			}
		})
	}
}

func TestParseIdentitySuccess(t *testing.T) {
	m := newTestManager(t, testConfig())

	token := signIdentity(t, testSecret, validIdentityClaims())

	claims, err := m.ParseIdentity(token)
	if err != nil {
		t.Fatalf("ParseIdentity failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %s", claims.Subject)
	}
	if claims.Email != "alice@example.com" || claims.Role != "student" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseIdentityRejectsWrongKey(t *testing.T) {
	m := newTestManager(t, testConfig())

	token := signIdentity(t, "other-secret", validIdentityClaims())

	if _, err := m.ParseIdentity(token); err == nil {
		t.Fatal("expected signature rejection")
	}
}

func TestParseIdentityRejectsMalformed(t *testing.T) {
	m := newTestManager(t, testConfig())

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := m.ParseIdentity(token); err == nil {
			t.Fatalf("expected rejection of %q", token)
		}
	}
}

func TestParseIdentityRejectsExpired(t *testing.T) {
	m := newTestManager(t, testConfig())

	claims := validIdentityClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := signIdentity(t, testSecret, claims)

	_, err := m.ParseIdentity(token)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestParseIdentityRejectsMissingExpiry(t *testing.T) {
	m := newTestManager(t, testConfig())

	claims := validIdentityClaims()
	delete(claims, "exp")
	token := signIdentity(t, testSecret, claims)

	if _, err := m.ParseIdentity(token); err == nil {
		t.Fatal("expected rejection of token without exp")
	}
}

func TestParseIdentityRejectsMissingSubject(t *testing.T) {
	m := newTestManager(t, testConfig())

	claims := validIdentityClaims()
	delete(claims, "sub")
	token := signIdentity(t, testSecret, claims)

	if _, err := m.ParseIdentity(token); err == nil {
		t.Fatal("expected rejection of token without subject")
	}
}

func TestParseIdentityEnforcesIssuer(t *testing.T) {
	cfg := testConfig()
	cfg.IdentityIssuer = "platform-idp"
	m := newTestManager(t, cfg)

	claims := validIdentityClaims()
	claims["iss"] = "someone-else"
	token := signIdentity(t, testSecret, claims)

	if _, err := m.ParseIdentity(token); err == nil {
		t.Fatal("expected issuer mismatch rejection")
	}

	claims["iss"] = "platform-idp"
	token = signIdentity(t, testSecret, claims)
	if _, err := m.ParseIdentity(token); err != nil {
		t.Fatalf("expected issuer match to pass, got %v", err)
	}
}

func TestParseIdentityLeewayAcceptsRecentExpiry(t *testing.T) {
	cfg := testConfig()
	cfg.Leeway = time.Minute
	m := newTestManager(t, cfg)

	claims := validIdentityClaims()
	claims["exp"] = time.Now().Add(-10 * time.Second).Unix()
	token := signIdentity(t, testSecret, claims)

	if _, err := m.ParseIdentity(token); err != nil {
		t.Fatalf("expected leeway to accept recent expiry, got %v", err)
	}
}

func TestMintAndParseSessionRoundTrip(t *testing.T) {
	m := newTestManager(t, testConfig())

	identity, err := m.ParseIdentity(signIdentity(t, testSecret, validIdentityClaims()))
	if err != nil {
		t.Fatalf("ParseIdentity failed: %v", err)
	}

	token, expiresAt, err := m.MintSession(identity, "sid-1")
	if err != nil {
		t.Fatalf("MintSession failed: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("expected future session expiry")
	}

	session, err := m.ParseSession(token)
	if err != nil {
		t.Fatalf("ParseSession failed: %v", err)
	}
	if session.Subject != "user-1" || session.SID != "sid-1" {
		t.Fatalf("unexpected session claims: %+v", session)
	}
	if session.Email != "alice@example.com" || session.Role != "student" {
		t.Fatalf("identity claims did not round-trip: %+v", session)
	}
}

func TestParseSessionRejectsIdentityTokenWithoutSID(t *testing.T) {
	m := newTestManager(t, testConfig())

	// An identity token verifies under the same hs256 secret but carries no
	// sid claim; it must not pass as a session token.
	token := signIdentity(t, testSecret, validIdentityClaims())

	if _, err := m.ParseSession(token); err == nil {
		t.Fatal("expected rejection of token without sid")
	}
}

func TestEd25519RoundTrip(t *testing.T) {
	identityPub, identityPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generating identity key failed: %v", err)
	}
	sessionPub, sessionPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generating session key failed: %v", err)
	}

	m := newTestManager(t, Config{
		SigningMethod:     MethodEd25519,
		IdentityKey:       identityPub,
		SessionPrivateKey: sessionPriv,
		SessionPublicKey:  sessionPub,
		SessionTTL:        time.Hour,
	})

	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.MapClaims{
		"sub":   "user-1",
		"email": "alice@example.com",
		"role":  "student",
		"exp":   time.Now().Add(10 * time.Minute).Unix(),
	}).SignedString(identityPriv)
	if err != nil {
		t.Fatalf("signing test token failed: %v", err)
	}

	identity, err := m.ParseIdentity(token)
	if err != nil {
		t.Fatalf("ParseIdentity failed: %v", err)
	}

	minted, _, err := m.MintSession(identity, "sid-1")
	if err != nil {
		t.Fatalf("MintSession failed: %v", err)
	}
	session, err := m.ParseSession(minted)
	if err != nil {
		t.Fatalf("ParseSession failed: %v", err)
	}
	if session.Subject != "user-1" || session.SID != "sid-1" {
		t.Fatalf("unexpected session claims: %+v", session)
	}

	// An hs256 identity token must not verify under ed25519.
	hsToken := signIdentity(t, testSecret, validIdentityClaims())
	if _, err := m.ParseIdentity(hsToken); err == nil {
		t.Fatal("expected algorithm rejection")
	}
}

func TestSessionKeysIndependentFromIdentityKey(t *testing.T) {
	cfg := testConfig()
	cfg.SessionPrivateKey = []byte("session-only-secret")
	m := newTestManager(t, cfg)

	identity, err := m.ParseIdentity(signIdentity(t, testSecret, validIdentityClaims()))
	if err != nil {
		t.Fatalf("ParseIdentity failed: %v", err)
	}

	token, _, err := m.MintSession(identity, "sid-1")
	if err != nil {
		t.Fatalf("MintSession failed: %v", err)
	}
	if _, err := m.ParseSession(token); err != nil {
		t.Fatalf("ParseSession failed: %v", err)
	}

	// The identity secret must not verify a session token signed with the
	// dedicated session key.
	other := newTestManager(t, testConfig())
	if _, err := other.ParseSession(token); err == nil {
		t.Fatal("expected session token to fail under identity key")
	}
}
