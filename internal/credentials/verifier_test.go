package credentials

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateRegistration(t *testing.T) {
	v := New(nil)

	cases := []struct {
		name   string
		in     Registration
		seller bool
		want   error
	}{
		{"buyer ok", Registration{Name: "Alice", Email: "a@x.io", Password: "hunter2"}, false, nil},
		{"buyer missing name", Registration{Email: "a@x.io", Password: "hunter2"}, false, ErrMissingFields},
		{"buyer missing password", Registration{Name: "Alice", Email: "a@x.io"}, false, ErrMissingFields},
		{"buyer bad email", Registration{Name: "Alice", Email: "not-an-email", Password: "hunter2"}, false, ErrInvalidEmail},
		{"buyer short tld", Registration{Name: "Alice", Email: "a@x.i", Password: "hunter2"}, false, ErrInvalidEmail},
		{"missing wins over format", Registration{Email: "not-an-email", Password: "hunter2"}, false, ErrMissingFields},
		{"seller ok", Registration{Name: "Bob", Email: "b@x.io", Password: "hunter2", PhoneNumber: "+15550100", Country: "US"}, true, nil},
		{"seller missing phone", Registration{Name: "Bob", Email: "b@x.io", Password: "hunter2", Country: "US"}, true, ErrMissingFields},
		{"seller missing country", Registration{Name: "Bob", Email: "b@x.io", Password: "hunter2", PhoneNumber: "+15550100"}, true, ErrMissingFields},
		{"buyer ignores seller fields", Registration{Name: "Alice", Email: "a@x.io", Password: "hunter2"}, false, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateRegistration(tc.in, tc.seller)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	v := New(nil)

	if err := v.ValidateEmail(""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if err := v.ValidateEmail("a b@x.io"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if err := v.ValidateEmail("first.last+tag@mail.example.com"); err != nil {
		t.Fatalf("expected valid address, got %v", err)
	}
}

func TestStructRequiredTags(t *testing.T) {
	type shop struct {
		Name     string `validate:"required"`
		Category string `validate:"required"`
		Website  string
	}
	v := New(nil)

	if err := v.Struct(shop{Name: "Corner", Category: "books"}); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := v.Struct(shop{Name: "Corner"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestRegistrationAppliesPolicyWhenEnabled(t *testing.T) {
	v := New(DefaultPolicy())

	err := v.ValidateRegistration(Registration{Name: "Alice", Email: "a@x.io", Password: "hunter2"}, false)
	var policyErr *PolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected PolicyError, got %v", err)
	}

	if err := v.ValidateRegistration(Registration{Name: "Alice", Email: "a@x.io", Password: "Hunter2!secure"}, false); err != nil {
		t.Fatalf("expected strong password to pass, got %v", err)
	}
}

func TestMaxPasswordBytes(t *testing.T) {
	v := New(nil, WithMaxPasswordBytes(72))

	long := Registration{Name: "Alice", Email: "a@x.io", Password: strings.Repeat("x", 73)}
	if err := v.ValidateRegistration(long, false); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	// The limit is in bytes: 24 three-byte runes are 72 bytes.
	if err := v.CheckPassword(strings.Repeat("€", 24)); err != nil {
		t.Fatalf("expected 72-byte password to pass, got %v", err)
	}
	if err := v.CheckPassword(strings.Repeat("€", 25)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected 75-byte password to fail, got %v", err)
	}

	if err := New(nil).CheckPassword(strings.Repeat("x", 4096)); err != nil {
		t.Fatalf("expected no limit by default, got %v", err)
	}
}
