// Package common defines shared constants and sentinel errors used across
// the server, the HTTP/gRPC transports and the CLI client. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors. Messages are stable and safe to show to callers.
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorUserAlreadyExists  = errors.New("user already exists")
	ErrorUserNotFound       = errors.New("user not found")
	ErrorInvalidCredentials = errors.New("email or password is incorrect")

	// Field encryption and credential integrity errors. These point at
	// corrupted storage or a key mismatch, never at user input.
	ErrMalformedEnvelope = errors.New("malformed encrypted envelope")
	ErrDecryptionFailure = errors.New("decryption failure")
	ErrInvalidHashFormat = errors.New("invalid password hash format")
	ErrPasswordTooLong   = errors.New("password too long")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Configuration errors.
	ErrMissingSecret = errors.New("secret is not configured")
)
