package shopAuth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MrEthical07/shopAuth/internal"
	"golang.org/x/crypto/bcrypt"
)

// Config holds every tunable of the Engine. Obtain one from DefaultConfig,
// adjust it, and hand it to Builder.WithConfig.
type Config struct {
	JWT      JWTConfig
	OTP      OTPConfig
	Password PasswordConfig
	Cookie   CookieConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
	Security SecurityConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig configures the session token pair.
type JWTConfig struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"

	// hs256
	AccessSecret  []byte
	RefreshSecret []byte

	// ed25519
	AccessPrivateKey  []byte
	AccessPublicKey   []byte
	RefreshPrivateKey []byte
	RefreshPublicKey  []byte

	Issuer   string
	Audience string
	Leeway   time.Duration
}

/*
====================================
OTP CONFIG
====================================
*/

// OTPConfig configures passcode lifetimes and abuse thresholds.
type OTPConfig struct {
	Digits            int
	CodeTTL           time.Duration
	CooldownTTL       time.Duration
	RequestWindow     time.Duration
	MaxRequests       int
	SpamLockTTL       time.Duration
	MaxFailedAttempts int
	AttemptsTTL       time.Duration
	LockTTL           time.Duration
	KeyPrefix         string
	Subject           string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig selects the hashing algorithm and the optional policy.
type PasswordConfig struct {
	Algorithm  string // "bcrypt" (default) or "argon2id"
	BcryptCost int

	// argon2id
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32

	UpgradeOnLogin bool
	EnforcePolicy  bool
}

/*
====================================
COOKIE CONFIG
====================================
*/

// CookieConfig controls session cookie attributes.
type CookieConfig struct {
	Secure   bool
	SameSite http.SameSite
	Domain   string
	Path     string
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// SecurityConfig holds deployment hardening switches.
type SecurityConfig struct {
	ProductionMode bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the baseline configuration. Signing secrets must
// still be supplied.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
			SigningMethod: "hs256",
		},
		OTP: OTPConfig{
			Digits:            4,
			CodeTTL:           300 * time.Second,
			CooldownTTL:       60 * time.Second,
			RequestWindow:     time.Hour,
			MaxRequests:       3,
			SpamLockTTL:       time.Hour,
			MaxFailedAttempts: 3,
			AttemptsTTL:       300 * time.Second,
			LockTTL:           600 * time.Second,
			Subject:           "Verify your email",
		},
		Password: PasswordConfig{
			Algorithm:      "bcrypt",
			BcryptCost:     10,
			Memory:         65536,
			Time:           3,
			Parallelism:    2,
			SaltLength:     16,
			KeyLength:      32,
			UpgradeOnLogin: false,
			EnforcePolicy:  false,
		},
		Cookie: CookieConfig{
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
			Path:     "/",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.AccessSecret = cloneBytes(cfg.JWT.AccessSecret)
	out.JWT.RefreshSecret = cloneBytes(cfg.JWT.RefreshSecret)
	out.JWT.AccessPrivateKey = cloneBytes(cfg.JWT.AccessPrivateKey)
	out.JWT.AccessPublicKey = cloneBytes(cfg.JWT.AccessPublicKey)
	out.JWT.RefreshPrivateKey = cloneBytes(cfg.JWT.RefreshPrivateKey)
	out.JWT.RefreshPublicKey = cloneBytes(cfg.JWT.RefreshPublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	// JWT
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT AccessTTL must be > 0")
	}
	if c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT RefreshTTL must be > 0")
	}
	if c.JWT.RefreshTTL < c.JWT.AccessTTL {
		return errors.New("JWT RefreshTTL must be >= AccessTTL")
	}

	switch c.JWT.SigningMethod {
	case "hs256":
		if len(c.JWT.AccessSecret) == 0 || len(c.JWT.RefreshSecret) == 0 {
			return errors.New("hs256 requires AccessSecret and RefreshSecret")
		}
	case "ed25519":
		if len(c.JWT.AccessPrivateKey) == 0 || len(c.JWT.RefreshPrivateKey) == 0 {
			return errors.New("ed25519 requires AccessPrivateKey and RefreshPrivateKey")
		}
	default:
		return errors.New("unsupported JWT signing method")
	}
	if c.JWT.Audience != "" && strings.TrimSpace(c.JWT.Audience) == "" {
		return errors.New("JWT Audience must not be blank")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT Leeway must be between 0 and 2m")
	}

	// OTP
	if c.OTP.Digits < internal.MinOTPDigits || c.OTP.Digits > internal.MaxOTPDigits {
		return errors.New("OTP Digits must be between 4 and 8")
	}
	if c.OTP.CodeTTL <= 0 ||
		c.OTP.CooldownTTL <= 0 ||
		c.OTP.RequestWindow <= 0 ||
		c.OTP.SpamLockTTL <= 0 ||
		c.OTP.AttemptsTTL <= 0 ||
		c.OTP.LockTTL <= 0 {
		return errors.New("OTP TTLs must be > 0")
	}
	if c.OTP.MaxRequests < 1 {
		return errors.New("OTP MaxRequests must be >= 1")
	}
	if c.OTP.MaxFailedAttempts < 1 {
		return errors.New("OTP MaxFailedAttempts must be >= 1")
	}

	// Password
	switch c.Password.Algorithm {
	case "bcrypt":
		if c.Password.BcryptCost < bcrypt.MinCost || c.Password.BcryptCost > bcrypt.MaxCost {
			return errors.New("Password BcryptCost must be between 4 and 31")
		}
	case "argon2id":
		if c.Password.Memory < 8*1024 {
			return errors.New("Password Memory must be >= 8192 KB")
		}
		if c.Password.Time < 1 {
			return errors.New("Password Time must be >= 1")
		}
		if c.Password.Parallelism < 1 {
			return errors.New("Password Parallelism must be >= 1")
		}
		if c.Password.SaltLength < 16 {
			return errors.New("Password SaltLength must be >= 16")
		}
		if c.Password.KeyLength < 16 {
			return errors.New("Password KeyLength must be >= 16")
		}
	default:
		return errors.New("Password Algorithm must be 'bcrypt' or 'argon2id'")
	}

	// Cookie
	if c.Cookie.SameSite == http.SameSiteNoneMode && !c.Cookie.Secure {
		return errors.New("Cookie SameSite None requires Secure")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	if c.Security.ProductionMode {
		if c.JWT.AccessTTL > 15*time.Minute {
			return errors.New("ProductionMode requires JWT AccessTTL <= 15m")
		}
		if c.JWT.RefreshTTL > 30*24*time.Hour {
			return errors.New("ProductionMode requires JWT RefreshTTL <= 30d")
		}
		if c.JWT.SigningMethod == "hs256" {
			if len(c.JWT.AccessSecret) < 32 || len(c.JWT.RefreshSecret) < 32 {
				return errors.New("ProductionMode requires hs256 secrets >= 256 bits")
			}
			if string(c.JWT.AccessSecret) == string(c.JWT.RefreshSecret) {
				return errors.New("ProductionMode requires distinct access and refresh secrets")
			}
		}
		if !c.Cookie.Secure {
			return errors.New("ProductionMode requires Secure cookies")
		}
		if c.Password.Algorithm == "bcrypt" && c.Password.BcryptCost < 10 {
			return errors.New("ProductionMode requires BcryptCost >= 10")
		}
	}

	return nil
}
