// Package rate provides the Redis-backed fixed-window rate limiter used by
// the goShield pipeline.
//
// # Window semantics
//
// One counter per (route class, client key, window id) where
// window id = unixNow / windowSeconds. The counter key embeds the window id,
// so roll-over is deterministic: a new window is simply a new key. INCR is
// the atomic operation; the over-limit decision is made from its return
// value, never from a separate prior read. EXPIRE is set on the first hit
// only, as garbage collection — window identity comes from the key.
//
// Retry-After is windowSeconds - (unixNow mod windowSeconds), always in
// (0, window].
//
// # Deployment-dependent guarantee
//
// Counters live in the injected Redis client. With a Redis shared by all
// instances the limits are global; with a per-instance Redis (or miniredis)
// they are per instance.
//
// # What this package must NOT do
//
//   - Implement route classification (that is static metadata in goShield).
//   - Be imported outside the goShield module.
package rate
