package shopAuth

import (
	"errors"
	"net/http"
	"time"
)

// ErrorKind classifies an [Error] for transport mapping.
type ErrorKind uint8

const (
	KindValidation ErrorKind = iota + 1
	KindAuth
	KindDatabase
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindDatabase:
		return "database"
	default:
		return "unknown"
	}
}

// Kind sentinels. errors.Is(err, ErrValidation) matches any validation-kind Error.
var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("authentication error")
	ErrDatabase   = errors.New("database error")
)

// Cause sentinels carried in Error.Err.
var (
	ErrMissingFields       = errors.New("missing required fields")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrInvalidRole         = errors.New("invalid account role")
	ErrPasswordPolicy      = errors.New("password policy violation")
	ErrPasswordReuse       = errors.New("new password must differ from current password")
	ErrPasswordTooLong     = errors.New("password too long")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrRoleDenied          = errors.New("role denied")
	ErrOTPLocked           = errors.New("otp verification locked")
	ErrOTPSpamLocked       = errors.New("otp requests locked")
	ErrOTPCooldown         = errors.New("otp cooldown active")
	ErrOTPInvalid          = errors.New("otp invalid or expired")
	ErrOTPMismatch         = errors.New("otp mismatch")
	ErrOTPAttemptsExceeded = errors.New("otp attempts exceeded")
	ErrOTPDelivery         = errors.New("otp delivery failed")
	ErrCacheUnavailable    = errors.New("cache backend unavailable")
	ErrEngineNotReady      = errors.New("engine not initialized")
)

// Store sentinels. AccountStore implementations return these (optionally
// wrapped) so the engine can map them to stable messages.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrShopExists      = errors.New("shop already exists")
)

// Error is the typed failure returned by every Engine operation.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error

	// Remaining is set on OTP mismatches.
	Remaining int
	// RetryAfter is set when a lock or cooldown blocked the request.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, 0, 2)
	switch e.Kind {
	case KindValidation:
		errs = append(errs, ErrValidation)
	case KindAuth:
		errs = append(errs, ErrAuth)
	case KindDatabase:
		errs = append(errs, ErrDatabase)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// StatusCode maps the error to an HTTP status.
func (e *Error) StatusCode() int {
	if e == nil {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		if errors.Is(e.Err, ErrRoleDenied) {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// StatusCode returns the HTTP status for any error. Non-Error values map to 500.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode()
	}
	return http.StatusInternalServerError
}

func validationError(msg string, cause error) *Error {
	return &Error{Kind: KindValidation, Message: msg, Err: cause}
}

func authError(msg string, cause error) *Error {
	return &Error{Kind: KindAuth, Message: msg, Err: cause}
}

func databaseError(msg string, cause error) *Error {
	return &Error{Kind: KindDatabase, Message: msg, Err: cause}
}
