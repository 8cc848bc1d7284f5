// Package postgres implements shopAuth.AccountStore on PostgreSQL with pgx.
//
// Buyers live in "users", sellers in "sellers" and shops in "shops"; see
// schema.sql. Email uniqueness per namespace and one shop per seller are
// enforced by UNIQUE constraints, and a violation (SQLSTATE 23505) is
// reported as shopAuth.ErrAccountExists or shopAuth.ErrShopExists.
package postgres
