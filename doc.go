// Package goShield provides the request-boundary security pipeline for a
// learning-platform backend: cookie-based session issuance bound to an
// externally verified identity token, double-submit CSRF protection for
// state-changing requests, and per-client fixed-window rate limiting with
// Redis-backed counters.
//
// The package is designed for concurrent server workloads: Gate methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. Sessions are stateless — the signed access cookie
// round-trips the identity claims, so no server-side session store exists.
//
// # Architecture boundaries
//
// goShield is the public surface. It exposes [Gate], [Builder], [Config],
// route policies, and value types (Session, Claims, UserSummary,
// MetricsSnapshot). Counter-store plumbing lives under internal/ and is
// never exported. HTTP adapters live in the middleware and server
// subpackages.
//
// # What this package must NOT do
//
//   - Expose Redis clients, counter keys, or token encoding details in its
//     public API.
//   - Perform I/O outside of Gate methods (construction via Builder is
//     allocation-only until Build).
//   - Import any sub-package that re-imports goShield (no import cycles).
//
// # Performance contract
//
// Validate is the hot path. It is CPU-only: signature verification plus
// claim checks, no Redis round-trip. Allow performs exactly one Redis
// round-trip per request (INCR, plus EXPIRE on the first hit in a window).
package goShield
