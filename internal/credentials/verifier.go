package credentials

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidEmail  = errors.New("invalid email format")
	// ErrPasswordTooLong marks input the password hasher cannot take.
	ErrPasswordTooLong = errors.New("password exceeds hasher input limit")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Registration is the payload shared by buyer and seller sign-up.
type Registration struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Country     string
}

type buyerShape struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,account_email"`
	Password string `validate:"required"`
}

type sellerShape struct {
	Name        string `validate:"required"`
	Email       string `validate:"required,account_email"`
	Password    string `validate:"required"`
	PhoneNumber string `validate:"required"`
	Country     string `validate:"required"`
}

// Verifier runs shape checks. Safe for concurrent use.
type Verifier struct {
	validate *validator.Validate
	policy   *Policy
	maxBytes int
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithMaxPasswordBytes rejects passwords longer than n bytes. Zero means no
// limit.
func WithMaxPasswordBytes(n int) Option {
	return func(v *Verifier) { v.maxBytes = n }
}

// New returns a Verifier. A nil policy disables password policy checks.
func New(policy *Policy, opts ...Option) *Verifier {
	v := &Verifier{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		policy:   policy,
	}
	_ = v.validate.RegisterValidation("account_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateRegistration checks required fields for the role, then email format,
// then CheckPassword.
func (v *Verifier) ValidateRegistration(r Registration, seller bool) error {
	var shape any = buyerShape{Name: r.Name, Email: r.Email, Password: r.Password}
	if seller {
		shape = sellerShape{
			Name:        r.Name,
			Email:       r.Email,
			Password:    r.Password,
			PhoneNumber: r.PhoneNumber,
			Country:     r.Country,
		}
	}
	if err := v.Struct(shape); err != nil {
		return err
	}
	return v.CheckPassword(r.Password)
}

// CheckPassword rejects passwords over the byte limit, then applies the
// policy.
func (v *Verifier) CheckPassword(password string) error {
	if v.maxBytes > 0 && len(password) > v.maxBytes {
		return ErrPasswordTooLong
	}
	return v.CheckPolicy(password)
}

// ValidateEmail checks a single address against the account email format.
func (v *Verifier) ValidateEmail(email string) error {
	if email == "" {
		return ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// CheckPolicy applies the configured password policy, if any.
func (v *Verifier) CheckPolicy(password string) error {
	if v.policy == nil {
		return nil
	}
	return v.policy.Check(password)
}

// Struct validates s against its validate tags. Any required-field failure
// wins over format failures.
func (v *Verifier) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	invalidEmail := false
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			return ErrMissingFields
		case "account_email":
			invalidEmail = true
		}
	}
	if invalidEmail {
		return ErrInvalidEmail
	}
	return ErrMissingFields
}
