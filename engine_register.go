package shopAuth

import (
	"context"
	"errors"

	"github.com/MrEthical07/shopAuth/internal/credentials"
)

const (
	templateUserActivation   = "user-activation-mail"
	templateSellerActivation = "seller-activation-mail"
)

func activationTemplate(role Role) string {
	if role == RoleSeller {
		return templateSellerActivation
	}
	return templateUserActivation
}

// credentialError maps verifier failures to validation errors.
func credentialError(err error) error {
	var policyErr *credentials.PolicyError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, credentials.ErrMissingFields):
		return validationError("Missing required fields!", ErrMissingFields)
	case errors.Is(err, credentials.ErrInvalidEmail):
		return validationError("Invalid email format!", ErrInvalidEmail)
	case errors.Is(err, credentials.ErrPasswordTooLong):
		return validationError("Password is too long!", ErrPasswordTooLong)
	case errors.As(err, &policyErr):
		return validationError(policyErr.Message, ErrPasswordPolicy)
	default:
		return validationError("Invalid registration data!", err)
	}
}

// accountExists reports whether email is taken in role's namespace.
func (e *Engine) accountExists(ctx context.Context, role Role, email string) (bool, error) {
	_, err := e.store.FindByEmail(ctx, role, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrAccountNotFound):
		return false, nil
	default:
		return false, storeError(err)
	}
}

// validateRegistration runs the shape, email and password checks shared by
// both registration steps.
func (e *Engine) validateRegistration(role Role, in RegisterInput) error {
	reg := credentials.Registration{
		Name:        in.Name,
		Email:       in.Email,
		Password:    in.Password,
		PhoneNumber: in.PhoneNumber,
		Country:     in.Country,
	}
	return credentialError(e.verifier.ValidateRegistration(reg, role == RoleSeller))
}

// Register validates a sign-up, rejects an email already used in role's
// namespace, and emails an activation code. No account is created until
// VerifyRegistration succeeds.
func (e *Engine) Register(ctx context.Context, role Role, in RegisterInput) error {
	if err := e.ready(); err != nil {
		return err
	}
	e.metricInc(MetricRegisterRequest)

	err := e.register(ctx, role, in)
	e.emitAudit(ctx, auditRecord{
		eventType: auditEventRegisterRequest,
		role:      role,
		email:     in.Email,
		err:       err,
	})
	return err
}

func (e *Engine) register(ctx context.Context, role Role, in RegisterInput) error {
	if err := requireRole(role); err != nil {
		return err
	}

	if err := e.validateRegistration(role, in); err != nil {
		return err
	}

	exists, err := e.accountExists(ctx, role, in.Email)
	if err != nil {
		return err
	}
	if exists {
		e.metricInc(MetricRegisterDuplicate)
		return validationError(roleLabel(role)+" already exists with this email!", ErrAccountExists)
	}

	return e.sendOTP(ctx, role, in.Name, in.Email, activationTemplate(role))
}

// VerifyRegistration checks the emailed code and creates the account.
func (e *Engine) VerifyRegistration(ctx context.Context, role Role, in VerifyRegistrationInput) (Account, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	acct, err := e.verifyRegistration(ctx, role, in)
	var id string
	if acct != nil {
		id = acct.AccountID()
		e.metricInc(MetricRegisterSuccess)
	}
	e.emitAudit(ctx, auditRecord{
		eventType: auditEventRegisterVerify,
		role:      role,
		accountID: id,
		email:     in.Email,
		err:       err,
	})
	return acct, err
}

func (e *Engine) verifyRegistration(ctx context.Context, role Role, in VerifyRegistrationInput) (Account, error) {
	if err := requireRole(role); err != nil {
		return nil, err
	}

	missing := in.Name == "" || in.Email == "" || in.Password == "" || in.OTP == ""
	if role == RoleSeller {
		missing = missing || in.PhoneNumber == "" || in.Country == ""
	}
	if missing {
		return nil, validationError("All fields are required!!", ErrMissingFields)
	}
	// The password here is the one stored, so it is checked again; the code
	// must not be spent on input Hash would reject.
	if err := e.validateRegistration(role, in.RegisterInput); err != nil {
		return nil, err
	}

	duplicate := validationError(roleLabel(role)+" already exists with this email account!!", ErrAccountExists)

	exists, err := e.accountExists(ctx, role, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		e.metricInc(MetricRegisterDuplicate)
		return nil, duplicate
	}

	if err := e.verifyOTP(ctx, role, in.Email, in.OTP); err != nil {
		return nil, err
	}

	hash, err := e.hasher.Hash(in.Password)
	if err != nil {
		return nil, validationError("Invalid password!", err)
	}

	acct, err := e.store.Create(ctx, CreateAccountInput{
		Role:         role,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		PhoneNumber:  in.PhoneNumber,
		Country:      in.Country,
	})
	if errors.Is(err, ErrAccountExists) {
		e.metricInc(MetricRegisterDuplicate)
		return nil, duplicate
	}
	if err != nil {
		return nil, storeError(err)
	}
	return acct, nil
}
