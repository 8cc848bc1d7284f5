package otp

import (
	"errors"
	"strconv"
)

var (
	ErrLocked           = errors.New("otp verification locked")
	ErrSpamLocked       = errors.New("otp requests locked")
	ErrCooldown         = errors.New("otp cooldown active")
	ErrNotFound         = errors.New("otp not found or expired")
	ErrMismatch         = errors.New("otp mismatch")
	ErrAttemptsExceeded = errors.New("otp attempts exceeded")
	ErrDelivery         = errors.New("otp delivery failed")
	ErrUnavailable      = errors.New("otp backend unavailable")
)

// AttemptError is returned for a wrong code that did not trigger the lock.
type AttemptError struct {
	Remaining int
}

func (e *AttemptError) Error() string {
	return "otp mismatch: " + strconv.Itoa(e.Remaining) + " attempts left"
}

func (e *AttemptError) Unwrap() error { return ErrMismatch }
