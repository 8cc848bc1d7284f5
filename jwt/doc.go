// Package jwt issues and verifies the access and refresh tokens of a
// session pair.
//
// Each token kind has its own signing key and TTL. Tokens carry the account
// id, its role and a "typ" claim naming the kind, so an access token is never
// accepted where a refresh token is expected even when both keys are equal.
package jwt
