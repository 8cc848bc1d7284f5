// Package ledger names and manipulates the cache-resident counters and locks
// used by the OTP engine.
//
// # Key layout
//
//   - otp:{email}: live code
//   - otp_cooldown:{email}: re-send cooldown sentinel
//   - otp_request_count:{email}: sends within the request window
//   - otp_spam_lock:{email}: set when sends exceed the window budget
//   - otp_attempts:{email}: failed verifications for the live code
//   - otp_lock:{email}: set when failed verifications exceed the budget
//
// An optional prefix is prepended as "{prefix}:" to every key.
//
// # What this package must NOT do
//
//   - Decide thresholds or consequences; internal/otp owns policy.
//   - Be imported outside the shopAuth module.
package ledger
