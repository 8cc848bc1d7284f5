// Package middleware exposes net/http adapters for the shopAuth
// authorization gate.
//
// # Guards
//
//   - [Authenticate] resolves the caller from the role access cookie or the
//     bearer header and attaches a *shopAuth.Principal to the context.
//   - [RequireRole] (and [RequireSeller], [RequireUser]) reject principals
//     of the other role with 403.
//
// Failures are written as {"message": "..."} JSON with the status from
// shopAuth.StatusCode.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Touch the cache or the account store.
package middleware
