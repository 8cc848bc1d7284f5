package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/shopAuth/internal"
	"github.com/MrEthical07/shopAuth/internal/ledger"
)

// Config holds OTP policy thresholds and lifetimes.
type Config struct {
	Digits            int
	CodeTTL           time.Duration
	CooldownTTL       time.Duration
	RequestWindow     time.Duration
	MaxRequests       int
	SpamLockTTL       time.Duration
	MaxFailedAttempts int
	AttemptsTTL       time.Duration
	LockTTL           time.Duration
	Subject           string
}

// Sender delivers a templated message. Implemented by mail.SMTPSender.
type Sender interface {
	Send(ctx context.Context, to, subject, templateID string, data map[string]any) error
}

// Engine applies the OTP policy on top of a [ledger.Ledger].
type Engine struct {
	ledger  *ledger.Ledger
	sender  Sender
	config  Config
	newCode func(int) (string, error)
}

// New creates an OTP engine.
func New(l *ledger.Ledger, sender Sender, cfg Config) *Engine {
	if cfg.Subject == "" {
		cfg.Subject = "Verify your email"
	}
	return &Engine{
		ledger:  l,
		sender:  sender,
		config:  cfg,
		newCode: internal.NewOTP,
	}
}

// Send runs the full gated send: CheckSendAllowed, RecordSendAttempt,
// IssueAndSend.
func (e *Engine) Send(ctx context.Context, name, email, templateID string) error {
	if err := e.CheckSendAllowed(ctx, email); err != nil {
		return err
	}
	if err := e.RecordSendAttempt(ctx, email); err != nil {
		return err
	}
	return e.IssueAndSend(ctx, name, email, templateID)
}

// CheckSendAllowed fails with the most severe active gate: account lock,
// then spam lock, then cooldown.
func (e *Engine) CheckSendAllowed(ctx context.Context, email string) error {
	gates := [...]struct {
		kind ledger.Kind
		err  error
	}{
		{ledger.AccountLock, ErrLocked},
		{ledger.SpamLock, ErrSpamLocked},
		{ledger.Cooldown, ErrCooldown},
	}

	for _, g := range gates {
		active, err := e.ledger.IsLocked(ctx, g.kind, email)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if active {
			return g.err
		}
	}
	return nil
}

// RecordSendAttempt counts a send against the hourly budget. The call that
// pushes the count past MaxRequests sets the spam lock and fails.
func (e *Engine) RecordSendAttempt(ctx context.Context, email string) error {
	count, err := e.ledger.Bump(ctx, ledger.RequestCount, email, e.config.RequestWindow)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count <= int64(e.config.MaxRequests) {
		return nil
	}

	if err := e.ledger.SetLock(ctx, ledger.SpamLock, email, e.config.SpamLockTTL); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ErrSpamLocked
}

// IssueAndSend generates a code, delivers it, and only then stores the code
// and starts the cooldown.
func (e *Engine) IssueAndSend(ctx context.Context, name, email, templateID string) error {
	code, err := e.newCode(e.config.Digits)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	data := map[string]any{
		"name": name,
		"otp":  code,
	}
	if err := e.sender.Send(ctx, email, e.config.Subject, templateID, data); err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	if err := e.ledger.Put(ctx, ledger.Code, email, code, e.config.CodeTTL); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := e.ledger.SetLock(ctx, ledger.Cooldown, email, e.config.CooldownTTL); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Verify checks submitted against the live code for email.
//
// Returns nil on match, ErrNotFound when no code is live, *AttemptError on a
// counted miss, and ErrAttemptsExceeded when the miss triggers the lock.
func (e *Engine) Verify(ctx context.Context, email, submitted string) error {
	stored, ok, err := e.ledger.Value(ctx, ledger.Code, email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !ok {
		return ErrNotFound
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1 {
		if err := e.ledger.Clear(ctx, email, ledger.Code, ledger.Attempts); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil
	}

	prior, err := e.ledger.Counter(ctx, ledger.Attempts, email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if prior >= int64(e.config.MaxFailedAttempts) {
		if err := e.ledger.SetLock(ctx, ledger.AccountLock, email, e.config.LockTTL); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if err := e.ledger.Clear(ctx, email, ledger.Code, ledger.Attempts); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return ErrAttemptsExceeded
	}

	if _, err := e.ledger.Bump(ctx, ledger.Attempts, email, e.config.AttemptsTTL); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &AttemptError{Remaining: e.config.MaxFailedAttempts - 1 - int(prior)}
}

// IsPolicyError reports whether err is a caller-correctable OTP outcome
// rather than a backend failure.
func IsPolicyError(err error) bool {
	switch {
	case errors.Is(err, ErrLocked),
		errors.Is(err, ErrSpamLocked),
		errors.Is(err, ErrCooldown),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrMismatch),
		errors.Is(err, ErrAttemptsExceeded):
		return true
	}
	return false
}
