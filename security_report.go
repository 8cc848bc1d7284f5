package shopAuth

import (
	"net/http"

	"github.com/MrEthical07/shopAuth/internal/security"
)

// SecurityReport summarizes the effective hardening settings of the Engine.
type SecurityReport = security.Report

// SecurityReport returns the posture of the built configuration, with
// warnings for settings that are weak outside development.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}
	cfg := e.config
	return security.BuildReport(security.ReportInput{
		ProductionMode:   cfg.Security.ProductionMode,
		SigningAlgorithm: cfg.JWT.SigningMethod,
		AccessTTL:        cfg.JWT.AccessTTL,
		RefreshTTL:       cfg.JWT.RefreshTTL,
		SecureCookies:    cfg.Cookie.Secure,
		SameSite:         sameSiteName(cfg.Cookie.SameSite),
		Password: security.PasswordReport{
			Algorithm:      cfg.Password.Algorithm,
			BcryptCost:     cfg.Password.BcryptCost,
			Memory:         cfg.Password.Memory,
			Time:           cfg.Password.Time,
			Parallelism:    cfg.Password.Parallelism,
			UpgradeOnLogin: cfg.Password.UpgradeOnLogin,
			PolicyEnforced: cfg.Password.EnforcePolicy,
		},
		OTP: security.OTPReport{
			CodeTTL:           cfg.OTP.CodeTTL,
			CooldownTTL:       cfg.OTP.CooldownTTL,
			MaxRequests:       cfg.OTP.MaxRequests,
			MaxFailedAttempts: cfg.OTP.MaxFailedAttempts,
			LockTTL:           cfg.OTP.LockTTL,
		},
		AuditEnabled: cfg.Audit.Enabled,
	})
}

func sameSiteName(s http.SameSite) string {
	switch s {
	case http.SameSiteStrictMode:
		return "strict"
	case http.SameSiteNoneMode:
		return "none"
	case http.SameSiteLaxMode, http.SameSiteDefaultMode:
		return "lax"
	default:
		return "unset"
	}
}
