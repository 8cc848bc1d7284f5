package flows

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/shopAuth/jwt"
)

// AuthenticateFailureKind classifies access-token resolution failures.
type AuthenticateFailureKind int

const (
	AuthenticateFailureNone AuthenticateFailureKind = iota
	AuthenticateFailureMissing
	AuthenticateFailureDecode
	AuthenticateFailureUnknownRole
	AuthenticateFailureAccountNotFound
	AuthenticateFailureLookup
)

// AuthenticateResult carries the resolved account or failure metadata.
// Account holds the root package's account value.
type AuthenticateResult struct {
	Failure AuthenticateFailureKind
	Err     error
	Claims  *jwt.Claims
	Account any
	Elapsed time.Duration
}

// AuthenticateDeps captures access-token resolution dependencies.
type AuthenticateDeps struct {
	ParseAccess func(string) (*jwt.Claims, error)
	ValidRole   func(string) bool
	// LoadAccount returns ErrNotFound (possibly wrapped) for a missing account.
	LoadAccount func(ctx context.Context, role, id string) (any, error)
	Now         func() time.Time
}

// RunAuthenticate verifies an access token and resolves its account in the
// token's role namespace.
func RunAuthenticate(ctx context.Context, accessToken string, deps AuthenticateDeps) AuthenticateResult {
	start := deps.Now()
	result := runAuthenticate(ctx, accessToken, deps)
	result.Elapsed = deps.Now().Sub(start)
	return result
}

func runAuthenticate(ctx context.Context, accessToken string, deps AuthenticateDeps) AuthenticateResult {
	if accessToken == "" {
		return AuthenticateResult{Failure: AuthenticateFailureMissing}
	}

	claims, err := deps.ParseAccess(accessToken)
	if err != nil {
		return AuthenticateResult{Failure: AuthenticateFailureDecode, Err: err}
	}
	if !deps.ValidRole(claims.Role) {
		return AuthenticateResult{Failure: AuthenticateFailureUnknownRole, Claims: claims}
	}

	account, err := deps.LoadAccount(ctx, claims.Role, claims.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AuthenticateResult{Failure: AuthenticateFailureAccountNotFound, Err: err, Claims: claims}
		}
		return AuthenticateResult{Failure: AuthenticateFailureLookup, Err: err, Claims: claims}
	}

	return AuthenticateResult{Claims: claims, Account: account}
}
