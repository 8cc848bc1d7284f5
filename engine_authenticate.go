package shopAuth

import (
	"context"
	"net/http"

	"github.com/MrEthical07/shopAuth/internal/flows"
)

// Authenticate verifies an access token and resolves its account in the
// token's role namespace. Sellers are loaded with their shop.
func (e *Engine) Authenticate(ctx context.Context, accessToken string) (*Principal, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	res := flows.RunAuthenticate(ctx, accessToken, e.flows.Authenticate)
	e.metricObserve(MetricAuthenticateLatency, res.Elapsed)

	switch res.Failure {
	case flows.AuthenticateFailureNone:
	case flows.AuthenticateFailureMissing:
		e.metricInc(MetricAuthenticateFailure)
		return nil, authError("Unauthorized! Token missing.", ErrUnauthorized)
	case flows.AuthenticateFailureDecode, flows.AuthenticateFailureUnknownRole:
		e.metricInc(MetricAuthenticateFailure)
		return nil, authError("Unauthorized! Invalid token.", ErrUnauthorized)
	case flows.AuthenticateFailureAccountNotFound:
		e.metricInc(MetricAuthenticateFailure)
		return nil, authError("Unauthorized! "+roleLabel(Role(res.Claims.Role))+" not found.", ErrAccountNotFound)
	default:
		e.metricInc(MetricAuthenticateFailure)
		return nil, storeError(res.Err)
	}

	acct, ok := res.Account.(Account)
	if !ok || acct == nil {
		e.metricInc(MetricAuthenticateFailure)
		return nil, authError("Unauthorized! Invalid token.", ErrUnauthorized)
	}

	e.metricInc(MetricAuthenticateSuccess)
	return &Principal{Role: acct.AccountRole(), Account: acct}, nil
}

// AuthenticateRequest authenticates r using the role access cookie, or the
// bearer header when no cookie is present.
func (e *Engine) AuthenticateRequest(r *http.Request) (*Principal, error) {
	return e.Authenticate(r.Context(), e.cookies.AccessTokenFromRequest(r))
}

// RequireRole fails with a role-denied AuthError when p is not role.
func (e *Engine) RequireRole(p *Principal, role Role) error {
	if p == nil || p.Account == nil {
		return authError("Unauthorized! Token missing.", ErrUnauthorized)
	}
	if p.Role != role {
		e.metricInc(MetricRoleDenied)
		return authError("Access denied. "+roleLabel(role)+" role required.", ErrRoleDenied)
	}
	return nil
}
