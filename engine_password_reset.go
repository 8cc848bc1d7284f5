package shopAuth

import (
	"context"
	"errors"
	"log"
)

const (
	templateForgotPasswordUser   = "forgot-password-user-mail"
	templateForgotPasswordSeller = "forgot-password-seller-mail"
)

func forgotPasswordTemplate(role Role) string {
	if role == RoleSeller {
		return templateForgotPasswordSeller
	}
	return templateForgotPasswordUser
}

// ForgotPassword emails a reset code to an existing account in role's
// namespace.
func (e *Engine) ForgotPassword(ctx context.Context, role Role, email string) error {
	if err := e.ready(); err != nil {
		return err
	}
	e.metricInc(MetricPasswordResetRequest)

	err := e.forgotPassword(ctx, role, email)
	e.emitAudit(ctx, auditRecord{eventType: auditEventPasswordResetRequest, role: role, email: email, err: err})
	return err
}

func (e *Engine) forgotPassword(ctx context.Context, role Role, email string) error {
	if err := requireRole(role); err != nil {
		return err
	}
	if email == "" {
		return validationError("Email is required!", ErrMissingFields)
	}

	acct, err := e.store.FindByEmail(ctx, role, email)
	if errors.Is(err, ErrAccountNotFound) {
		return validationError(roleLabel(role)+" not found!", ErrAccountNotFound)
	}
	if err != nil {
		return storeError(err)
	}

	return e.sendOTP(ctx, role, acct.AccountName(), email, forgotPasswordTemplate(role))
}

// VerifyForgotPasswordOTP checks a reset code. Codes are keyed by email
// only, so the role is used for audit labelling alone.
func (e *Engine) VerifyForgotPasswordOTP(ctx context.Context, role Role, email, code string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if email == "" || code == "" {
		return validationError("Email and OTP are required!", ErrMissingFields)
	}
	return e.verifyOTP(ctx, role, email, code)
}

// ResetPassword replaces the stored hash. The new password must differ
// from the current one.
func (e *Engine) ResetPassword(ctx context.Context, role Role, email, newPassword string) error {
	if err := e.ready(); err != nil {
		return err
	}

	id, err := e.resetPassword(ctx, role, email, newPassword)
	if err == nil {
		e.metricInc(MetricPasswordResetSuccess)
	}
	e.emitAudit(ctx, auditRecord{
		eventType: auditEventPasswordResetConfirm,
		role:      role,
		accountID: id,
		email:     email,
		err:       err,
	})
	return err
}

func (e *Engine) resetPassword(ctx context.Context, role Role, email, newPassword string) (string, error) {
	if err := requireRole(role); err != nil {
		return "", err
	}
	if email == "" || newPassword == "" {
		return "", validationError("Email and new password are required!!", ErrMissingFields)
	}
	if err := e.verifier.CheckPassword(newPassword); err != nil {
		return "", credentialError(err)
	}

	acct, err := e.store.FindByEmail(ctx, role, email)
	if errors.Is(err, ErrAccountNotFound) {
		return "", validationError(roleLabel(role)+" not found!!", ErrAccountNotFound)
	}
	if err != nil {
		return "", storeError(err)
	}

	same, err := e.hasher.Verify(newPassword, acct.passwordHash())
	if err != nil {
		log.Printf("shopAuth: password reuse check failed for %s account %s: %v", role, acct.AccountID(), err)
	}
	if same {
		e.metricInc(MetricPasswordResetReuseRejected)
		return acct.AccountID(), validationError("New password cannot be the same as the old password!!", ErrPasswordReuse)
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return acct.AccountID(), validationError("Invalid password!", err)
	}
	if err := e.store.Update(ctx, role, acct.AccountID(), AccountUpdate{PasswordHash: &hash}); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return acct.AccountID(), validationError(roleLabel(role)+" not found!!", ErrAccountNotFound)
		}
		return acct.AccountID(), storeError(err)
	}
	return acct.AccountID(), nil
}
