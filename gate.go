package goShield

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MrEthical07/goShield/internal/rate"
	jwtmanager "github.com/MrEthical07/goShield/jwt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Gate is the assembled pipeline: token validator, session issuer, CSRF
// guard support, and rate limiter. Construct through [Builder.Build]; all
// methods are then safe for concurrent use.
type Gate struct {
	config     Config
	jwtManager *jwtmanager.Manager
	limiter    *rate.Limiter
	cookies    *CookieWriter
	audit      *auditDispatcher
	metrics    *Metrics
	profiles   ProfileProvider
}

// Close drains and stops the audit dispatcher.
func (g *Gate) Close() {
	if g == nil {
		return
	}
	if g.audit != nil {
		g.audit.Close()
	}
}

// Cookies returns the transport writer for the two session artifacts.
func (g *Gate) Cookies() *CookieWriter {
	return g.cookies
}

// CSRFHeader returns the configured CSRF header name.
func (g *Gate) CSRFHeader() string {
	return g.config.CSRF.HeaderName
}

// CSRFBootstrapTTL returns the cookie lifetime for pre-login CSRF tokens.
func (g *Gate) CSRFBootstrapTTL() time.Duration {
	return g.config.CSRF.BootstrapTTL
}

// Profiles returns the configured profile provider, or nil.
func (g *Gate) Profiles() ProfileProvider {
	return g.profiles
}

// MetricsSnapshot copies the current counter values.
func (g *Gate) MetricsSnapshot() MetricsSnapshot {
	if g == nil || g.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return g.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded under
// backpressure.
func (g *Gate) AuditDropped() uint64 {
	if g == nil || g.audit == nil {
		return 0
	}
	return g.audit.Dropped()
}

// Login validates an externally issued identity token and, on success,
// mints a fresh session: a signed access token carrying the identity
// claims plus an independent random CSRF token. Both artifacts are fully
// constructed before Login returns; nothing is transmitted here, so the
// caller observes all-or-nothing.
//
// Expired identity tokens are rejected ([ErrTokenExpired]); there is no
// implicit skew tolerance beyond the configured leeway.
func (g *Gate) Login(ctx context.Context, identityToken string) (*Session, UserSummary, error) {
	if g == nil || g.jwtManager == nil {
		return nil, UserSummary{}, ErrGateNotReady
	}

	identity, err := g.jwtManager.ParseIdentity(identityToken)
	if err != nil {
		mapped := mapTokenError(err)
		g.metricInc(MetricLoginFailure)
		g.auditEmit(ctx, AuditEvent{
			EventType:  AuditLoginFailure,
			RouteClass: PolicyLogin.Name,
			Error:      mapped.Error(),
		})
		return nil, UserSummary{}, mapped
	}

	csrfToken, err := NewCSRFToken(g.config.CSRF.TokenBytes)
	if err != nil {
		return nil, UserSummary{}, err
	}

	sessionID := uuid.NewString()
	accessToken, expiresAt, err := g.jwtManager.MintSession(identity, sessionID)
	if err != nil {
		return nil, UserSummary{}, err
	}

	session := &Session{
		AccessToken: accessToken,
		CSRFToken:   csrfToken,
		IssuedAt:    time.Now(),
		ExpiresAt:   expiresAt,
	}

	summary := UserSummary{
		ID:    identity.Subject,
		Email: identity.Email,
		Role:  identity.Role,
	}

	g.metricInc(MetricLoginSuccess)
	g.auditEmit(ctx, AuditEvent{
		EventType:  AuditLoginSuccess,
		Subject:    identity.Subject,
		SessionID:  sessionID,
		RouteClass: PolicyLogin.Name,
		Success:    true,
	})

	return session, summary, nil
}

// Validate re-validates the session access token presented with a request.
// CPU-only; no store round-trip.
func (g *Gate) Validate(ctx context.Context, accessToken string) (*Claims, error) {
	if g == nil || g.jwtManager == nil {
		return nil, ErrGateNotReady
	}

	start := time.Now()
	session, err := g.jwtManager.ParseSession(accessToken)
	g.metricObserve(MetricValidateLatency, time.Since(start))

	if err != nil {
		mapped := mapTokenError(err)
		g.metricInc(MetricValidateFailure)
		if errors.Is(mapped, ErrTokenExpired) {
			g.metricInc(MetricTokenExpired)
		}
		g.auditEmit(ctx, AuditEvent{
			EventType: AuditTokenRejected,
			Error:     mapped.Error(),
		})
		return nil, mapped
	}

	g.metricInc(MetricValidateSuccess)

	return &Claims{
		Subject:   session.Subject,
		Email:     session.Email,
		Role:      session.Role,
		SessionID: session.SID,
		ExpiresAt: session.ExpiresAt.Time,
	}, nil
}

// ValidateBearer validates a legacy Authorization bearer value as an
// identity token. It yields Claims without a session id; callers that need
// CSRF protection must go through Login.
func (g *Gate) ValidateBearer(ctx context.Context, identityToken string) (*Claims, error) {
	if g == nil || g.jwtManager == nil {
		return nil, ErrGateNotReady
	}

	identity, err := g.jwtManager.ParseIdentity(identityToken)
	if err != nil {
		mapped := mapTokenError(err)
		g.metricInc(MetricValidateFailure)
		g.auditEmit(ctx, AuditEvent{
			EventType: AuditTokenRejected,
			Error:     mapped.Error(),
		})
		return nil, mapped
	}

	g.metricInc(MetricValidateSuccess)

	return &Claims{
		Subject:   identity.Subject,
		Email:     identity.Email,
		Role:      identity.Role,
		ExpiresAt: identity.ExpiresAt.Time,
	}, nil
}

// Authenticate resolves a request's credentials in priority order: the
// session access cookie first, then a legacy Authorization bearer value
// carrying an identity token. Neither present fails with
// [ErrUnauthenticated].
func (g *Gate) Authenticate(ctx context.Context, accessToken, bearerToken string) (*Claims, error) {
	if g == nil {
		return nil, ErrGateNotReady
	}

	switch {
	case accessToken != "":
		return g.Validate(ctx, accessToken)
	case bearerToken != "":
		return g.ValidateBearer(ctx, bearerToken)
	}

	g.metricInc(MetricUnauthenticated)
	g.auditEmit(ctx, AuditEvent{
		EventType: AuditTokenRejected,
		Error:     ErrUnauthenticated.Error(),
	})
	return nil, ErrUnauthenticated
}

// Logout records the end of a session. The session is stateless, so there
// is nothing to revoke server-side; the caller clears the cookies through
// [CookieWriter.Clear]. Never fails.
func (g *Gate) Logout(ctx context.Context, claims *Claims) {
	if g == nil {
		return
	}

	event := AuditEvent{
		EventType:  AuditLogout,
		RouteClass: PolicyLogout.Name,
		Success:    true,
	}
	if claims != nil {
		event.Subject = claims.Subject
		event.SessionID = claims.SessionID
	}

	g.metricInc(MetricLogout)
	g.auditEmit(ctx, event)
}

// IssueCSRFToken mints a bootstrap CSRF token for pre-login flows.
func (g *Gate) IssueCSRFToken() (string, error) {
	if g == nil {
		return "", ErrGateNotReady
	}
	return NewCSRFToken(g.config.CSRF.TokenBytes)
}

// CheckCSRF applies the double-submit gate for one request under the given
// policy. Safe methods and exempt routes pass unconditionally.
func (g *Gate) CheckCSRF(ctx context.Context, policy RoutePolicy, cookieValue, headerValue string) error {
	if !policy.CSRFEnforced() {
		return nil
	}

	err := VerifyDoubleSubmit(cookieValue, headerValue)
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrCSRFMissing) {
		g.metricInc(MetricCSRFMissing)
	} else {
		g.metricInc(MetricCSRFMismatch)
	}
	g.auditEmit(ctx, AuditEvent{
		EventType:  AuditCSRFRejected,
		IP:         ClientIPFromContext(ctx),
		RouteClass: policy.Name,
		Error:      err.Error(),
	})

	return err
}

// Allow performs the rate-limit check for one request. The decision comes
// from the atomic increment's return value; concurrent requests in the same
// window can never jointly exceed the budget. Denied requests carry a
// RetryAfter in (0, window].
//
// Counter-store failures are returned as [ErrStoreUnavailable]; the caller
// chooses the failure mode (the bundled server fails closed).
func (g *Gate) Allow(ctx context.Context, policy RoutePolicy, clientKey string) (Decision, error) {
	if g == nil {
		return Decision{}, ErrGateNotReady
	}
	if !g.config.RateLimit.Enabled || policy.Limit.Max <= 0 || g.limiter == nil {
		return Decision{Allowed: true, Limit: policy.Limit.Max}, nil
	}

	decision, err := g.limiter.Allow(ctx, policy.Name, clientKey, rate.Policy{
		Max:    policy.Limit.Max,
		Window: policy.Limit.Window,
	})
	if err != nil {
		return Decision{}, ErrStoreUnavailable
	}

	if !decision.Allowed {
		g.metricInc(MetricRateLimited)
		g.auditEmit(ctx, AuditEvent{
			EventType:  AuditRateLimited,
			IP:         ClientIPFromContext(ctx),
			RouteClass: policy.Name,
			Error:      ErrRateLimited.Error(),
		})
	}

	return Decision{
		Allowed:    decision.Allowed,
		Limit:      policy.Limit.Max,
		RetryAfter: decision.RetryAfter,
	}, nil
}

// ClientKey builds the rate-limit bucket key for a request. Public route
// classes key on network origin only. Protected classes additionally fold
// in the authenticated subject when a valid session cookie accompanies the
// request, so shared-origin clients behind NAT are not conflated; an
// invalid or absent session falls back to origin-only keying.
func (g *Gate) ClientKey(r *http.Request, policy RoutePolicy) string {
	ip := ClientIPFromContext(r.Context())
	if ip == "" {
		ip = g.ClientIP(r)
	}

	if policy.Access != Protected {
		return ip
	}

	access := g.cookies.ReadAccess(r)
	if access == "" {
		return ip
	}
	session, err := g.jwtManager.ParseSession(access)
	if err != nil {
		return ip
	}
	return ip + ":" + session.Subject
}

// ClientIP resolves the request's network origin. X-Forwarded-For is only
// honoured when SecurityConfig.TrustForwardedFor is set.
func (g *Gate) ClientIP(r *http.Request) string {
	if g.config.Security.TrustForwardedFor {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			if idx := strings.IndexByte(fwd, ','); idx >= 0 {
				fwd = fwd[:idx]
			}
			return strings.TrimSpace(fwd)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (g *Gate) metricInc(id MetricID) {
	if g == nil || g.metrics == nil {
		return
	}
	g.metrics.Inc(id)
}

func (g *Gate) metricObserve(id MetricID, d time.Duration) {
	if g == nil || g.metrics == nil {
		return
	}
	g.metrics.Observe(id, d)
}

func (g *Gate) auditEmit(ctx context.Context, event AuditEvent) {
	if g == nil || g.audit == nil {
		return
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.IP == "" {
		event.IP = ClientIPFromContext(ctx)
	}
	g.audit.Emit(ctx, event)
}

// mapTokenError folds golang-jwt failure modes into the pipeline taxonomy:
// expiry is distinguished, everything else is invalid.
func mapTokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return ErrTokenInvalid
}
