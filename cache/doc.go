// Package cache defines the key-value store with per-key expiry that backs
// OTP state and rate-limit counters, plus its Redis implementation.
//
// # Semantics
//
// Every write carries a TTL and overwrites any previous TTL on the key.
// Incr bumps a counter and refreshes its expiry in one MULTI/EXEC round
// trip, so a counter never outlives its window without being touched.
//
// # What this package must NOT do
//
//   - Encode business rules (thresholds and lock policy live in internal/otp).
//   - Keep any in-process copy of cached values; all state is external so
//     it survives restarts and is shared across instances.
package cache
