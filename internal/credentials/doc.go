// Package credentials checks the shape of credential payloads before any
// store or cache access happens.
//
// Required-field checks use go-playground/validator struct tags. Email format
// is the registered "account_email" rule. The password policy is optional
// and evaluated rule by rule so the caller receives the first failing rule's
// message.
package credentials
