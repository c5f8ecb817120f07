// Package common defines shared constants, sentinel errors and small helpers
// used across memoria packages. Callers should use errors.Is to match the
// sentinel values.
package common

import "errors"

// Returned by the auth gateway when the provider answers without a user
// and without an error.
var (
	ErrRegisterFailed = errors.New("Registration failed")
	ErrLoginFailed    = errors.New("Login failed")
)
