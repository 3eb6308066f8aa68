// Package common defines shared constants and sentinel errors used across
// client and server layers of the ship agency service. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("already exists")

	// Service-level errors.
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")

	// ErrUnauthorized means the request carries no usable identity
	// (no token, or the token subject no longer exists).
	ErrUnauthorized = errors.New("authentication required")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Outbound mail errors.
	ErrDelivery = errors.New("delivery failed")
)
