// Package internal holds primitives shared by goShield internals: random
// token minting for CSRF artifacts.
//
// # What this package must NOT do
//
//   - Be imported outside the goShield module.
//   - Depend on net/http or Redis.
package internal
