package shopAuth

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/MrEthical07/shopAuth/internal/audit"
	"github.com/google/uuid"
)

// AuditEvent is one emitted security event.
type AuditEvent = audit.Event

// AuditSink receives audit events from the async dispatcher.
type AuditSink = audit.Sink

// NoOpSink discards events.
type NoOpSink = audit.NoOpSink

// ChannelSink buffers events in a channel.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink = audit.JSONWriterSink

// MultiAuditSink forwards each event to every listed sink.
type MultiAuditSink = audit.MultiSink

// AuditSinkFunc adapts a function to AuditSink.
type AuditSinkFunc = audit.SinkFunc

// NewChannelSink returns a ChannelSink with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a sink writing newline-delimited JSON to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

const (
	auditEventOTPSend              = "otp_send"
	auditEventOTPVerify            = "otp_verify"
	auditEventOTPLockout           = "otp_lockout"
	auditEventOTPSpamLock          = "otp_spam_lock"
	auditEventRegisterRequest      = "register_request"
	auditEventRegisterVerify       = "register_verify"
	auditEventLoginSuccess         = "login_success"
	auditEventLoginFailure         = "login_failure"
	auditEventRefreshSuccess       = "refresh_success"
	auditEventRefreshFailure       = "refresh_failure"
	auditEventLogout               = "logout"
	auditEventPasswordResetRequest = "password_reset_request"
	auditEventPasswordResetConfirm = "password_reset_confirm"
	auditEventShopCreate           = "shop_create"
	auditEventPaymentLink          = "payment_link"
)

// AuditErrorCode is the stable error label recorded on failed events.
type AuditErrorCode string

const (
	auditErrMissingFields       AuditErrorCode = "missing_fields"
	auditErrInvalidEmail        AuditErrorCode = "invalid_email"
	auditErrInvalidRole         AuditErrorCode = "invalid_role"
	auditErrPasswordPolicy      AuditErrorCode = "password_policy"
	auditErrPasswordReuse       AuditErrorCode = "password_reuse"
	auditErrInvalidCredentials  AuditErrorCode = "invalid_credentials"
	auditErrUserNotFound        AuditErrorCode = "user_not_found"
	auditErrDuplicate           AuditErrorCode = "duplicate"
	auditErrUnauthorized        AuditErrorCode = "unauthorized"
	auditErrRoleDenied          AuditErrorCode = "role_denied"
	auditErrOTPLocked           AuditErrorCode = "otp_locked"
	auditErrOTPSpamLocked       AuditErrorCode = "otp_spam_locked"
	auditErrOTPCooldown         AuditErrorCode = "otp_cooldown"
	auditErrOTPInvalid          AuditErrorCode = "otp_invalid"
	auditErrOTPAttemptsExceeded AuditErrorCode = "otp_attempts_exceeded"
	auditErrDelivery            AuditErrorCode = "delivery_failed"
	auditErrUnavailable         AuditErrorCode = "backend_unavailable"
	auditErrInternal            AuditErrorCode = "internal_error"
)

type auditRecord struct {
	eventType string
	role      Role
	accountID string
	email     string
	err       error
	metadata  func() map[string]string
}

func (e *Engine) emitAudit(ctx context.Context, rec auditRecord) {
	if e == nil || e.audit == nil {
		return
	}

	meta := metaFrom(ctx)
	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: rec.eventType,
		Role:      string(rec.role),
		AccountID: rec.accountID,
		Email:     rec.email,
		IP:        meta.ip,
		UserAgent: meta.userAgent,
		Success:   rec.err == nil,
	}
	if rec.metadata != nil {
		event.Metadata = rec.metadata()
	}
	if code := auditErrorCode(rec.err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrMissingFields):
		return auditErrMissingFields
	case errors.Is(err, ErrInvalidEmail):
		return auditErrInvalidEmail
	case errors.Is(err, ErrInvalidRole):
		return auditErrInvalidRole
	case errors.Is(err, ErrPasswordPolicy),
		errors.Is(err, ErrPasswordTooLong):
		return auditErrPasswordPolicy
	case errors.Is(err, ErrPasswordReuse):
		return auditErrPasswordReuse
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrAccountNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrAccountExists),
		errors.Is(err, ErrShopExists):
		return auditErrDuplicate
	case errors.Is(err, ErrRoleDenied):
		return auditErrRoleDenied
	case errors.Is(err, ErrUnauthorized):
		return auditErrUnauthorized
	case errors.Is(err, ErrOTPLocked):
		return auditErrOTPLocked
	case errors.Is(err, ErrOTPSpamLocked):
		return auditErrOTPSpamLocked
	case errors.Is(err, ErrOTPCooldown):
		return auditErrOTPCooldown
	case errors.Is(err, ErrOTPInvalid),
		errors.Is(err, ErrOTPMismatch):
		return auditErrOTPInvalid
	case errors.Is(err, ErrOTPAttemptsExceeded):
		return auditErrOTPAttemptsExceeded
	case errors.Is(err, ErrOTPDelivery):
		return auditErrDelivery
	case errors.Is(err, ErrCacheUnavailable),
		errors.Is(err, ErrDatabase):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
