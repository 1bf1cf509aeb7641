// Package common defines shared constants and sentinel errors used across
// client layers of courtbook. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Request errors.
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrConflict         = errors.New("conflict")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInternal         = errors.New("internal error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
