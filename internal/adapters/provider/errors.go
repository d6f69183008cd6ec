package provider

import "errors"

// Sentinel kinds for provider failures. Callers fall back to the offline
// generators on any of them.
var (
	ErrUnavailable   = errors.New("provider unavailable")
	ErrEmptyResponse = errors.New("provider returned no usable content")
	ErrNoMedia       = errors.New("upload has no media bytes")
)
