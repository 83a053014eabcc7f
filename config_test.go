package goShield

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.JWT.IdentityKey = []byte("secret")
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing identity key", func(c *Config) { c.JWT.IdentityKey = nil }},
		{"unknown signing method", func(c *Config) { c.JWT.SigningMethod = "rs256" }},
		{"ed25519 without session keys", func(c *Config) { c.JWT.SigningMethod = "ed25519" }},
		{"zero session TTL", func(c *Config) { c.JWT.SessionTTL = 0 }},
		{"negative leeway", func(c *Config) { c.JWT.Leeway = -time.Second }},
		{"excessive leeway", func(c *Config) { c.JWT.Leeway = 3 * time.Minute }},
		{"missing access cookie name", func(c *Config) { c.Cookie.AccessName = "" }},
		{"colliding cookie names", func(c *Config) { c.Cookie.CSRFName = c.Cookie.AccessName }},
		{"missing cookie path", func(c *Config) { c.Cookie.Path = "" }},
		{"missing csrf header", func(c *Config) { c.CSRF.HeaderName = "" }},
		{"undersized csrf token", func(c *Config) { c.CSRF.TokenBytes = 8 }},
		{"zero bootstrap TTL", func(c *Config) { c.CSRF.BootstrapTTL = 0 }},
		{"rate limit without prefix", func(c *Config) { c.RateLimit.RedisPrefix = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation failure")
			}
		})
	}
}

func TestCloneConfigDetachesKeyMaterial(t *testing.T) {
	original := DefaultConfig()
	original.JWT.IdentityKey = []byte("secret")

	clone := cloneConfig(original)
	clone.JWT.IdentityKey[0] = 'X'

	if original.JWT.IdentityKey[0] == 'X' {
		t.Fatal("clone must not alias the original key material")
	}
}

func TestRoutePolicyCSRFEnforcement(t *testing.T) {
	if PolicyLogin.CSRFEnforced() {
		t.Fatal("login must be exempt from the CSRF guard")
	}
	if !PolicyLogout.CSRFEnforced() {
		t.Fatal("logout must enforce the CSRF guard")
	}
	if PolicyMe.CSRFEnforced() {
		t.Fatal("safe methods must never enforce the CSRF guard")
	}
	if PolicyCSRFToken.CSRFEnforced() {
		t.Fatal("the bootstrap endpoint must be exempt")
	}
}

func TestRoutePolicyValidate(t *testing.T) {
	for _, p := range []RoutePolicy{PolicyLogin, PolicyLogout, PolicyMe, PolicyCSRFToken, PolicyHealth} {
		if err := p.Validate(); err != nil {
			t.Fatalf("built-in policy %q rejected: %v", p.Name, err)
		}
	}

	bad := RoutePolicy{Method: "POST", Pattern: "/x"}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected rejection of unnamed policy")
	}

	bad = RoutePolicy{Name: "x", Method: "POST", Pattern: "/x", Limit: LimitPolicy{Max: 5}}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected rejection of limit without window")
	}
}
