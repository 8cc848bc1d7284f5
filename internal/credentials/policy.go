package credentials

import (
	"strconv"
	"strings"
	"unicode"
)

// PolicyError names the first password rule that failed.
type PolicyError struct {
	Message string
}

func (e *PolicyError) Error() string { return e.Message }

const specialChars = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"

var weakPasswords = map[string]struct{}{
	"password123": {},
	"12345678":    {},
	"qwerty123":   {},
	"abc12345":    {},
	"password1":   {},
}

// Policy is the optional password strength rule set.
type Policy struct {
	MinLength int
	MaxLength int
}

// DefaultPolicy returns the 8..128 rule set.
func DefaultPolicy() *Policy {
	return &Policy{MinLength: 8, MaxLength: 128}
}

// Check returns a *PolicyError for the first failing rule.
func (p *Policy) Check(password string) error {
	if strings.TrimSpace(password) == "" {
		return &PolicyError{Message: "Password is required"}
	}
	n := len([]rune(password))
	if n < p.MinLength {
		return &PolicyError{Message: "Password must be at least " + strconv.Itoa(p.MinLength) + " characters"}
	}
	if p.MaxLength > 0 && n > p.MaxLength {
		return &PolicyError{Message: "Password is too long (max " + strconv.Itoa(p.MaxLength) + " characters)"}
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}
	switch {
	case !upper:
		return &PolicyError{Message: "Password must contain at least one uppercase letter"}
	case !lower:
		return &PolicyError{Message: "Password must contain at least one lowercase letter"}
	case !digit:
		return &PolicyError{Message: "Password must contain at least one number"}
	case !special:
		return &PolicyError{Message: "Password must contain at least one special character"}
	}

	if _, weak := weakPasswords[strings.ToLower(password)]; weak {
		return &PolicyError{Message: "This password is too common. Please choose a stronger password"}
	}
	return nil
}
