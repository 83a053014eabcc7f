package goShield

import (
	"errors"

	"github.com/MrEthical07/goShield/internal/rate"
	jwtmanager "github.com/MrEthical07/goShield/jwt"
	"github.com/redis/go-redis/v9"
)

// Builder assembles a [Gate]. Construction is allocation-only; no I/O
// happens until the Gate serves requests.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	profiles  ProfileProvider
	auditSink AuditSink

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the entire configuration tree.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the rate-limit counter store. Required whenever
// RateLimitConfig.Enabled is true. Tests inject a miniredis-backed client
// here so every test runs against an isolated store.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithProfileProvider wires the downstream profile store consulted by
// GET /auth/me. Optional; without it, profiles derive from claims.
func (b *Builder) WithProfileProvider(p ProfileProvider) *Builder {
	b.profiles = p
	return b
}

// WithAuditSink sets the destination for audit events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the counter set.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the validate-path latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the Gate. A Builder is
// single-use.
func (b *Builder) Build() (*Gate, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.RateLimit.Enabled && b.redis == nil {
		return nil, errors.New("rate limiting requires a redis client")
	}

	jm, err := jwtmanager.NewManager(jwtmanager.Config{
		SigningMethod:     jwtmanager.SigningMethod(cfg.JWT.SigningMethod),
		IdentityKey:       cloneBytes(cfg.JWT.IdentityKey),
		SessionPrivateKey: cloneBytes(cfg.JWT.SessionPrivateKey),
		SessionPublicKey:  cloneBytes(cfg.JWT.SessionPublicKey),
		IdentityIssuer:    cfg.JWT.IdentityIssuer,
		Audience:          cfg.JWT.Audience,
		SessionTTL:        cfg.JWT.SessionTTL,
		Leeway:            cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	gate := &Gate{
		config:     cfg,
		jwtManager: jm,
		cookies:    NewCookieWriter(cfg.Cookie),
		audit:      newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:    NewMetrics(cfg.Metrics),
		profiles:   b.profiles,
	}

	if cfg.RateLimit.Enabled {
		gate.limiter = rate.New(b.redis, cfg.RateLimit.RedisPrefix)
	}

	b.built = true

	return gate, nil
}
