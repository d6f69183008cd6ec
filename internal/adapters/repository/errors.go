package repository

import (
	"errors"

	"github.com/okian/interviewcoach/internal/domain/model"
)

// Sentinel kinds for store errors. They alias the domain kinds so callers
// outside the adapters can match them without importing this package.
var (
	ErrNotFound       = model.ErrNotFound
	ErrDuplicateEmail = model.ErrConflict
	ErrUnknownDriver  = errors.New("unknown store driver")
	ErrJobFinished    = errors.New("job already finished")
)
