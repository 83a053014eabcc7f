// Package middleware adapts the goShield pipeline to net/http as an
// explicit, ordered interceptor chain: RateLimit → CSRF → Auth, evaluated
// before handler dispatch with a short-circuit on the first rejection.
//
// The chain replaces decorator stacking: interceptor order is a visible
// slice, not a nesting of closures, and each interceptor returns a verdict.
// Route policies are resolved at registration time; no interceptor matches
// paths at request time.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Gate calls and writes the
// JSON error responses for rejected requests. It does NOT implement
// security decisions itself — those are delegated to [goShield.Gate].
//
// # What this package must NOT do
//
//   - Parse or mint tokens directly (delegates to the Gate).
//   - Touch Redis (the Gate mediates all I/O).
//   - Mutate route policies after registration.
package middleware
