package security

import "time"

type PasswordReport struct {
	Algorithm      string
	BcryptCost     int
	Memory         uint32
	Time           uint32
	Parallelism    uint8
	UpgradeOnLogin bool
	PolicyEnforced bool
}

type OTPReport struct {
	CodeTTL           time.Duration
	CooldownTTL       time.Duration
	MaxRequests       int
	MaxFailedAttempts int
	LockTTL           time.Duration
}

type Report struct {
	ProductionMode   bool
	SigningAlgorithm string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	SecureCookies    bool
	SameSite         string
	Password         PasswordReport
	OTP              OTPReport
	AuditEnabled     bool

	// Warnings lists settings that are acceptable in development but weak
	// for a deployment.
	Warnings []string
}

type ReportInput struct {
	ProductionMode   bool
	SigningAlgorithm string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	SecureCookies    bool
	SameSite         string
	Password         PasswordReport
	OTP              OTPReport
	AuditEnabled     bool
}

const (
	minBcryptCost     = 10
	maxOTPRequests    = 10
	maxFailedAttempts = 5
)

func BuildReport(input ReportInput) Report {
	r := Report{
		ProductionMode:   input.ProductionMode,
		SigningAlgorithm: input.SigningAlgorithm,
		AccessTTL:        input.AccessTTL,
		RefreshTTL:       input.RefreshTTL,
		SecureCookies:    input.SecureCookies,
		SameSite:         input.SameSite,
		Password:         input.Password,
		OTP:              input.OTP,
		AuditEnabled:     input.AuditEnabled,
	}

	if !input.SecureCookies {
		r.Warnings = append(r.Warnings, "session cookies are sent over plain HTTP")
	}
	if input.Password.Algorithm == "bcrypt" && input.Password.BcryptCost < minBcryptCost {
		r.Warnings = append(r.Warnings, "bcrypt cost below 10")
	}
	if input.OTP.MaxRequests > maxOTPRequests {
		r.Warnings = append(r.Warnings, "more than 10 passcode requests allowed per window")
	}
	if input.OTP.MaxFailedAttempts > maxFailedAttempts {
		r.Warnings = append(r.Warnings, "more than 5 passcode attempts allowed before lockout")
	}
	if !input.Password.PolicyEnforced {
		r.Warnings = append(r.Warnings, "password policy not enforced")
	}
	return r
}
