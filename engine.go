package shopAuth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MrEthical07/shopAuth/cache"
	"github.com/MrEthical07/shopAuth/internal/audit"
	"github.com/MrEthical07/shopAuth/internal/credentials"
	"github.com/MrEthical07/shopAuth/internal/flows"
	"github.com/MrEthical07/shopAuth/internal/otp"
	"github.com/MrEthical07/shopAuth/jwt"
	"github.com/MrEthical07/shopAuth/password"
)

// Engine runs the credential and session lifecycle for buyers and sellers.
//
// Engine instances are built once with a Builder and are safe for
// concurrent use afterwards.
type Engine struct {
	config   Config
	store    AccountStore
	cache    cache.Cache
	otp      *otp.Engine
	verifier *credentials.Verifier
	hasher   *password.Multi
	tokens   *jwt.Manager
	cookies  CookiePolicy
	audit    *audit.Dispatcher
	metrics  *Metrics
	flows    flows.Deps
}

// Close flushes and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Cookies returns the cookie plan matching the engine's token lifetimes.
func (e *Engine) Cookies() CookiePolicy {
	return e.cookies
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}

func (e *Engine) ready() error {
	if e == nil || e.store == nil || e.otp == nil || e.tokens == nil || e.hasher == nil {
		return ErrEngineNotReady
	}
	return nil
}

func requireRole(role Role) error {
	if !role.Valid() {
		return validationError("Invalid role!", ErrInvalidRole)
	}
	return nil
}

// roleLabel is the capitalized namespace name used in user-facing messages.
func roleLabel(role Role) string {
	if role == RoleSeller {
		return "Seller"
	}
	return "User"
}

func storeError(err error) *Error {
	return databaseError("Database error", err)
}

// otpError translates an internal/otp outcome into the public error.
func (e *Engine) otpError(err error) error {
	if err == nil {
		return nil
	}

	var attempt *otp.AttemptError
	cfg := e.config.OTP

	switch {
	case errors.Is(err, otp.ErrLocked):
		out := validationError(
			"Account locked due to multiple failed attempts! Try again after "+durationText(cfg.LockTTL),
			ErrOTPLocked,
		)
		out.RetryAfter = cfg.LockTTL
		return out
	case errors.Is(err, otp.ErrSpamLocked):
		e.metricInc(MetricOTPSpamLock)
		out := validationError(
			"Too many OTP requests! Please wait "+durationText(cfg.SpamLockTTL)+" before requesting again.",
			ErrOTPSpamLocked,
		)
		out.RetryAfter = cfg.SpamLockTTL
		return out
	case errors.Is(err, otp.ErrCooldown):
		e.metricInc(MetricOTPCooldownHit)
		out := validationError(
			"Please wait "+durationText(cfg.CooldownTTL)+" before requesting a new OTP!",
			ErrOTPCooldown,
		)
		out.RetryAfter = cfg.CooldownTTL
		return out
	case errors.Is(err, otp.ErrNotFound):
		e.metricInc(MetricOTPVerifyFailure)
		return validationError("Invalid or expired OTP", ErrOTPInvalid)
	case errors.As(err, &attempt):
		e.metricInc(MetricOTPVerifyFailure)
		out := validationError(
			"Incorrect OTP. "+strconv.Itoa(attempt.Remaining)+" attempts left.",
			ErrOTPMismatch,
		)
		out.Remaining = attempt.Remaining
		return out
	case errors.Is(err, otp.ErrAttemptsExceeded):
		e.metricInc(MetricOTPVerifyFailure)
		e.metricInc(MetricOTPLockout)
		out := validationError(
			"Too many failed attempts. Your account is locked for "+durationText(cfg.LockTTL)+"!",
			ErrOTPAttemptsExceeded,
		)
		out.RetryAfter = cfg.LockTTL
		return out
	case errors.Is(err, otp.ErrDelivery):
		e.metricInc(MetricOTPDeliveryFailure)
		return databaseError("Failed to send OTP email", fmt.Errorf("%w: %w", ErrOTPDelivery, err))
	default:
		return databaseError("Cache unavailable", fmt.Errorf("%w: %w", ErrCacheUnavailable, err))
	}
}

// sendOTP runs the gated send and records its outcome.
func (e *Engine) sendOTP(ctx context.Context, role Role, name, email, templateID string) error {
	err := e.otp.Send(ctx, name, email, templateID)
	mapped := e.otpError(err)

	switch {
	case err == nil:
		e.metricInc(MetricOTPSent)
	case errors.Is(err, otp.ErrSpamLocked):
		e.emitAudit(ctx, auditRecord{eventType: auditEventOTPSpamLock, role: role, email: email, err: mapped})
	}
	e.emitAudit(ctx, auditRecord{
		eventType: auditEventOTPSend,
		role:      role,
		email:     email,
		err:       mapped,
		metadata: func() map[string]string {
			return map[string]string{"template": templateID}
		},
	})
	return mapped
}

// verifyOTP checks a submitted code and records its outcome.
func (e *Engine) verifyOTP(ctx context.Context, role Role, email, code string) error {
	err := e.otp.Verify(ctx, email, code)
	mapped := e.otpError(err)

	switch {
	case err == nil:
		e.metricInc(MetricOTPVerifySuccess)
	case errors.Is(err, otp.ErrAttemptsExceeded):
		e.emitAudit(ctx, auditRecord{eventType: auditEventOTPLockout, role: role, email: email, err: mapped})
	}
	e.emitAudit(ctx, auditRecord{eventType: auditEventOTPVerify, role: role, email: email, err: mapped})
	return mapped
}

// durationText renders a lock lifetime for messages: "1 minute",
// "10 minutes", "an hour".
func durationText(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "an hour"
	case d >= time.Hour && d%time.Hour == 0:
		return strconv.Itoa(int(d/time.Hour)) + " hours"
	case d == time.Minute:
		return "1 minute"
	case d >= time.Minute && d%time.Minute == 0:
		return strconv.Itoa(int(d/time.Minute)) + " minutes"
	default:
		return strconv.Itoa(int(d.Round(time.Second)/time.Second)) + " seconds"
	}
}
