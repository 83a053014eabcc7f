package middleware

import (
	"context"
	"net/http"
	"strings"

	goShield "github.com/MrEthical07/goShield"
)

type claimsContextKey struct{}

// ClaimsFromContext returns the claims injected by the auth interceptor.
func ClaimsFromContext(ctx context.Context) (*goShield.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*goShield.Claims)
	return claims, ok
}

// Interceptor is one gate in the chain. A false verdict means the
// interceptor rejected the request and has already written the response.
// The returned request carries any context the interceptor added.
type Interceptor interface {
	Intercept(w http.ResponseWriter, r *http.Request, policy goShield.RoutePolicy) (*http.Request, bool)
}

// Chain evaluates interceptors in slice order before handler dispatch,
// short-circuiting on the first rejection.
type Chain struct {
	gate         *goShield.Gate
	interceptors []Interceptor
}

// NewChain builds the standard pipeline order: rate limiting first (an
// unauthenticated abusive client must still be throttled), then CSRF, then
// auth.
func NewChain(gate *goShield.Gate) *Chain {
	return NewChainWith(gate,
		&RateLimitInterceptor{Gate: gate},
		&CSRFInterceptor{Gate: gate},
		&AuthInterceptor{Gate: gate},
	)
}

// NewChainWith builds a chain with an explicit interceptor order.
func NewChainWith(gate *goShield.Gate, interceptors ...Interceptor) *Chain {
	return &Chain{
		gate:         gate,
		interceptors: interceptors,
	}
}

// Then wraps next behind the chain under a fixed route policy. The client
// IP is resolved once here and attached to the request context for every
// interceptor and the handler.
func (c *Chain) Then(policy goShield.RoutePolicy, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := goShield.WithClientIP(r.Context(), c.gate.ClientIP(r))
		r = r.WithContext(ctx)

		for _, interceptor := range c.interceptors {
			var ok bool
			r, ok = interceptor.Intercept(w, r, policy)
			if !ok {
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// RateLimitInterceptor enforces the route class's fixed-window budget. A
// counter-store outage fails closed with 503: an unlimited window during an
// outage would defeat the limiter's purpose.
type RateLimitInterceptor struct {
	Gate *goShield.Gate
}

func (i *RateLimitInterceptor) Intercept(w http.ResponseWriter, r *http.Request, policy goShield.RoutePolicy) (*http.Request, bool) {
	if policy.Limit.Max <= 0 {
		return r, true
	}

	clientKey := i.Gate.ClientKey(r, policy)
	decision, err := i.Gate.Allow(r.Context(), policy, clientKey)
	if err != nil {
		WriteError(w, http.StatusServiceUnavailable, "rate limiter unavailable")
		return r, false
	}

	if !decision.Allowed {
		w.Header().Set("Retry-After", retryAfterSeconds(decision))
		WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return r, false
	}

	return r, true
}

// CSRFInterceptor applies the double-submit gate on unsafe-method protected
// routes. Missing and mismatching values map to the same status and both
// carry the csrf keyword in the detail.
type CSRFInterceptor struct {
	Gate *goShield.Gate
}

func (i *CSRFInterceptor) Intercept(w http.ResponseWriter, r *http.Request, policy goShield.RoutePolicy) (*http.Request, bool) {
	if !policy.CSRFEnforced() {
		return r, true
	}

	cookieValue := i.Gate.Cookies().ReadCSRF(r)
	headerValue := r.Header.Get(i.Gate.CSRFHeader())

	if err := i.Gate.CheckCSRF(r.Context(), policy, cookieValue, headerValue); err != nil {
		WriteError(w, http.StatusForbidden, err.Error())
		return r, false
	}

	return r, true
}

// AuthInterceptor re-validates the session on every protected request and
// injects the claims into the request context. Routes marked AuthExempt
// (logout) skip validation but still ran the CSRF gate.
type AuthInterceptor struct {
	Gate *goShield.Gate
}

func (i *AuthInterceptor) Intercept(w http.ResponseWriter, r *http.Request, policy goShield.RoutePolicy) (*http.Request, bool) {
	if policy.Access != goShield.Protected || policy.AuthExempt {
		return r, true
	}

	accessToken := i.Gate.Cookies().ReadAccess(r)
	bearer, _ := bearerToken(r.Header.Get("Authorization"))

	claims, err := i.Gate.Authenticate(r.Context(), accessToken, bearer)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return r, false
	}

	ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
	return r.WithContext(ctx), true
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
