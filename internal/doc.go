// Package internal contains helper utilities that are intentionally private to shopAuth,
// currently secure numeric code generation.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - credentials: registration shape checks and password policy
//   - flows: refresh and authenticate orchestration for the Engine
//   - ledger: cache-resident OTP counters and locks
//   - otp: OTP issuance, delivery gating and verification policy
//   - security: deployment posture report
//
// # What this package must NOT do
//
//   - Export types that appear in the public shopAuth API.
//   - Be imported by any package outside the shopAuth module.
package internal
