package model

import "errors"

// Sentinel error kinds shared across layers.
var (
	// ErrInvalidInput marks precondition violations so callers can answer 4xx.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound reports a missing user, session or job.
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a uniqueness violation such as a duplicate email.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized reports missing or rejected credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrBackpressure reports that async work cannot be accepted right now.
	ErrBackpressure = errors.New("backpressure")
	// ErrUnavailable reports a component that is stopped or not configured.
	ErrUnavailable = errors.New("unavailable")
)
