package goShield

import "context"

type clientIPContextKey struct{}

// WithClientIP attaches the caller's network address to ctx. The Gate uses
// it to build rate-limit client keys and to stamp audit events. The server
// package sets it once per request from RemoteAddr (or X-Forwarded-For when
// SecurityConfig.TrustForwardedFor is enabled).
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// ClientIPFromContext returns the address set by [WithClientIP], or "".
func ClientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
