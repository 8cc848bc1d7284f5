package shopAuth

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/MrEthical07/shopAuth/internal/flows"
	"github.com/MrEthical07/shopAuth/jwt"
	"github.com/MrEthical07/shopAuth/password"
)

// Login checks email and password in role's namespace and mints a session
// pair.
func (e *Engine) Login(ctx context.Context, role Role, email, plain string) (*SessionPair, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	pair, err := e.login(ctx, role, email, plain)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditRecord{eventType: auditEventLoginFailure, role: role, email: email, err: err})
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditRecord{
		eventType: auditEventLoginSuccess,
		role:      role,
		accountID: pair.Account.AccountID(),
		email:     email,
	})
	return pair, nil
}

func (e *Engine) login(ctx context.Context, role Role, email, plain string) (*SessionPair, error) {
	if err := requireRole(role); err != nil {
		return nil, err
	}
	if email == "" || plain == "" {
		return nil, validationError("Email and Password are required!!", ErrMissingFields)
	}

	acct, err := e.store.FindByEmail(ctx, role, email)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, authError(roleLabel(role)+" doesn't exists!", ErrAccountNotFound)
	}
	if err != nil {
		return nil, storeError(err)
	}

	ok, err := e.hasher.Verify(plain, acct.passwordHash())
	if err != nil && !errors.Is(err, password.ErrPasswordTooLong) {
		log.Printf("shopAuth: password verify failed for %s account %s: %v", role, acct.AccountID(), err)
	}
	if !ok {
		return nil, authError("Password is not correct!!", ErrInvalidCredentials)
	}

	if e.config.Password.UpgradeOnLogin {
		e.upgradeHash(ctx, acct, plain)
	}

	return e.issueSession(acct)
}

// upgradeHash rehashes with the primary algorithm. Failures are logged and
// do not fail the login.
func (e *Engine) upgradeHash(ctx context.Context, acct Account, plain string) {
	stale, err := e.hasher.NeedsUpgrade(acct.passwordHash())
	if err != nil || !stale {
		return
	}
	hash, err := e.hasher.Hash(plain)
	if err != nil {
		log.Printf("shopAuth: password rehash failed: %v", err)
		return
	}
	if err := e.store.Update(ctx, acct.AccountRole(), acct.AccountID(), AccountUpdate{PasswordHash: &hash}); err != nil {
		log.Printf("shopAuth: password rehash store update failed: %v", err)
	}
}

// IssueSession mints an access/refresh pair for an already-resolved account.
func (e *Engine) IssueSession(ctx context.Context, role Role, accountID string) (*SessionPair, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := requireRole(role); err != nil {
		return nil, err
	}

	acct, err := e.store.FindByID(ctx, role, accountID, FindOptions{})
	if errors.Is(err, ErrAccountNotFound) {
		return nil, authError(roleLabel(role)+" not found!!", ErrAccountNotFound)
	}
	if err != nil {
		return nil, storeError(err)
	}
	return e.issueSession(acct)
}

func (e *Engine) issueSession(acct Account) (*SessionPair, error) {
	role := string(acct.AccountRole())
	access, err := e.tokens.Issue(jwt.KindAccess, acct.AccountID(), role)
	if err != nil {
		return nil, databaseError("Failed to issue session", err)
	}
	refresh, err := e.tokens.Issue(jwt.KindRefresh, acct.AccountID(), role)
	if err != nil {
		return nil, databaseError("Failed to issue session", err)
	}
	return &SessionPair{
		AccessToken:  access,
		RefreshToken: refresh,
		Account:      acct,
	}, nil
}

// RefreshSession mints a new access token from a refresh token. The
// refresh token is not rotated.
func (e *Engine) RefreshSession(ctx context.Context, refreshToken string) (string, Role, error) {
	return e.RefreshSessionAs(ctx, "", refreshToken)
}

// RefreshSessionAs is RefreshSession that also rejects a token whose role
// differs from expected. An empty expected accepts either role.
func (e *Engine) RefreshSessionAs(ctx context.Context, expected Role, refreshToken string) (string, Role, error) {
	if err := e.ready(); err != nil {
		return "", "", err
	}

	res := flows.RunRefresh(ctx, refreshToken, string(expected), e.flows.Refresh)
	role := Role(res.Role)

	err := refreshError(res)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditRecord{eventType: auditEventRefreshFailure, role: role, accountID: res.AccountID, err: err})
		return "", "", err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditRecord{eventType: auditEventRefreshSuccess, role: role, accountID: res.AccountID})
	return res.AccessToken, role, nil
}

func refreshError(res flows.RefreshResult) error {
	switch res.Failure {
	case flows.RefreshFailureNone:
		return nil
	case flows.RefreshFailureMissing:
		return authError("Unauthorized! No refresh token provided.", ErrUnauthorized)
	case flows.RefreshFailureDecode, flows.RefreshFailureUnknownRole, flows.RefreshFailureRoleMismatch:
		return authError("Forbidden! Invalid refresh token.", ErrUnauthorized)
	case flows.RefreshFailureAccountNotFound:
		return authError(roleLabel(Role(res.Role))+" not found!!", ErrAccountNotFound)
	case flows.RefreshFailureLookup:
		return storeError(res.Err)
	default:
		return databaseError("Failed to issue session", res.Err)
	}
}

// RefreshRequest reads the refresh cookie from r and refreshes the session
// for the role whose cookie carried it.
func (e *Engine) RefreshRequest(r *http.Request) (string, Role, error) {
	token, role, ok := e.cookies.RefreshTokenFromRequest(r)
	if !ok {
		return e.RefreshSession(r.Context(), "")
	}
	return e.RefreshSessionAs(r.Context(), role, token)
}

// Logout returns the cookies that clear role's session. There is no
// server-side session to revoke.
func (e *Engine) Logout(ctx context.Context, role Role) ([]*http.Cookie, error) {
	if err := requireRole(role); err != nil {
		return nil, err
	}
	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditRecord{eventType: auditEventLogout, role: role})
	return e.cookies.LogoutCookies(role), nil
}
