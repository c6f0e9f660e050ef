package models

import "errors"

// Common errors used throughout the application
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")

	// ErrDownstreamStatus wraps a non-2xx answer from a sibling service.
	ErrDownstreamStatus = errors.New("unexpected downstream status")
	// ErrDownstreamUnavailable wraps transport errors, timeouts and an open breaker.
	ErrDownstreamUnavailable = errors.New("downstream service unavailable")
)
