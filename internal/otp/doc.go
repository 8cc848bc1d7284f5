// Package otp issues, delivers and verifies one-time passcodes and enforces
// the layered abuse policy around them.
//
// # Send ordering
//
// account lock -> spam lock -> cooldown -> request counter -> generate and
// deliver -> store code and cooldown. Each step gates the next; a delivery
// failure aborts before anything is written.
//
// # Verify policy
//
// A wrong code bumps the attempt counter. Once MaxFailedAttempts wrong codes
// have been recorded, the next wrong code sets the account lock and deletes
// both the code and the counter in a single cache call.
//
// # What this package must NOT do
//
//   - Hold OTP state in process memory.
//   - Render message bodies; the Sender receives a template id and data.
package otp
