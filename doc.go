// Package shopAuth runs the credential and session lifecycle of a two-sided
// marketplace: buyers ("user") and sellers ("seller") register with an
// emailed one-time code, log in with a password, and carry an
// access/refresh JWT pair in role-scoped cookies.
//
// Engine methods are safe to call from multiple goroutines after
// [Builder.Build].
//
// # Architecture boundaries
//
// shopAuth is the public surface. It exposes [Engine], [Builder], [Config],
// the account types and the [AccountStore] and [MessageSender] collaborator
// interfaces. OTP policy, the cache ledger, shape checks and flow
// orchestration live under internal/ and are never exported.
//
// # Errors
//
// Every operation returns a *[Error] whose Kind is validation, auth or
// database. errors.Is matches both the kind sentinel ([ErrValidation],
// [ErrAuth], [ErrDatabase]) and the cause ([ErrOTPCooldown],
// [ErrAccountExists], ...). [Error.StatusCode] gives the HTTP status.
//
// # What this package must NOT do
//
//   - Keep server-side session state. Logout only clears cookies.
//   - Create an account before its registration code verifies.
//   - Accept a token for one role as a session for the other.
package shopAuth
