// Package server exposes the goShield pipeline over HTTP: the auth surface
// (/auth/login, /auth/logout, /auth/me, /auth/csrf-token), a health probe,
// and a registration API for mounting downstream handlers behind the same
// interceptor chain.
//
// Route policies are resolved once when a handler is registered; method and
// pattern dispatch is handled by net/http's method-qualified ServeMux
// patterns.
//
// # What this package must NOT do
//
//   - Implement security decisions (the Gate and middleware own them).
//   - Let downstream business errors leak through the pipeline's error
//     taxonomy.
package server
