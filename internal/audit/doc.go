// Package audit implements async event dispatching for credential and
// session operations.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, fan-out, func, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full or block-if-full semantics.
//   - [Event]: structured record with id, timestamp, type, role, account, email, IP and metadata.
//
// This package owns buffering and sink delivery only. The Engine decides
// which events to emit.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import shopAuth or any sibling internal package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package audit
