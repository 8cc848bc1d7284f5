package flows

import "errors"

// ErrNotFound is returned by lookup dependencies to signal a missing account.
var ErrNotFound = errors.New("flows: not found")

// Deps groups flow dependency sets. Root engine builds this once and delegates
// request methods to the matching flow implementation.
type Deps struct {
	Refresh      RefreshDeps
	Authenticate AuthenticateDeps
}
