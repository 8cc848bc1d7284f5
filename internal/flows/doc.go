// Package flows contains pure-function orchestrators for the token paths of
// the Engine.
//
// Each flow function (RunRefresh, RunAuthenticate) accepts a typed
// dependency struct and returns a result with a classified failure kind. The
// root package maps failure kinds to its public errors, audit events and
// metrics.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import shopAuth (to avoid import cycles).
//   - Perform I/O directly. All I/O is mediated through dependency functions.
package flows
