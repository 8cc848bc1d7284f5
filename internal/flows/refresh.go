package flows

import (
	"context"

	"github.com/MrEthical07/shopAuth/jwt"
)

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureMissing
	RefreshFailureDecode
	RefreshFailureUnknownRole
	RefreshFailureRoleMismatch
	RefreshFailureAccountNotFound
	RefreshFailureLookup
	RefreshFailureIssueAccess
)

// RefreshResult carries either the new access token or failure metadata.
type RefreshResult struct {
	Failure     RefreshFailureKind
	Err         error
	AccountID   string
	Role        string
	AccessToken string
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	ParseRefresh func(string) (*jwt.Claims, error)
	IssueAccess  func(id, role string) (string, error)
	ValidRole    func(string) bool
	// AccountExists resolves the account in the role's namespace.
	AccountExists func(ctx context.Context, role, id string) (bool, error)
}

// RunRefresh verifies a refresh token and mints a new access token with the
// same id and role. expectedRole, when non-empty, is the role whose cookie
// carried the token. The refresh token itself is not rotated.
func RunRefresh(ctx context.Context, refreshToken, expectedRole string, deps RefreshDeps) RefreshResult {
	if refreshToken == "" {
		return RefreshResult{Failure: RefreshFailureMissing}
	}

	claims, err := deps.ParseRefresh(refreshToken)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureDecode, Err: err}
	}
	if !deps.ValidRole(claims.Role) {
		return RefreshResult{Failure: RefreshFailureUnknownRole, AccountID: claims.ID, Role: claims.Role}
	}
	if expectedRole != "" && claims.Role != expectedRole {
		return RefreshResult{Failure: RefreshFailureRoleMismatch, AccountID: claims.ID, Role: claims.Role}
	}

	exists, err := deps.AccountExists(ctx, claims.Role, claims.ID)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureLookup, Err: err, AccountID: claims.ID, Role: claims.Role}
	}
	if !exists {
		return RefreshResult{Failure: RefreshFailureAccountNotFound, AccountID: claims.ID, Role: claims.Role}
	}

	access, err := deps.IssueAccess(claims.ID, claims.Role)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureIssueAccess, Err: err, AccountID: claims.ID, Role: claims.Role}
	}

	return RefreshResult{
		AccountID:   claims.ID,
		Role:        claims.Role,
		AccessToken: access,
	}
}
