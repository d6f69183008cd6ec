package auth

import (
	"errors"
	"fmt"

	"github.com/okian/interviewcoach/internal/domain/model"
)

// Sentinel error kinds for authentication.
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", model.ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", model.ErrUnauthorized)
	ErrWeakPassword       = errors.New("password too short")
	ErrMissingSecret      = errors.New("jwt secret must not be empty")
)
