// Package jwt implements both halves of the goShield token layer: verifying
// externally issued identity tokens and minting/parsing the local session
// access token.
//
// Identity tokens and session tokens may be signed with different keys; the
// [Manager] holds both and validates its configuration up front in
// [NewManager].
//
// # Architecture boundaries
//
// This package is pure CPU work: no I/O, no shared mutable state. A Manager
// is safe for unbounded concurrent use after construction.
//
// # What this package must NOT do
//
//   - Touch Redis or any store (the session is stateless).
//   - Map parse failures to HTTP semantics (goShield owns the taxonomy).
//   - Generate CSRF artifacts (they must never be derived from tokens).
package jwt
