package config

import "errors"

var (
	// ErrInvalidConfig wraps every Validate failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps failures reading the .env, YAML or environment layers.
	ErrLoadConfig = errors.New("load config failed")
)
