// Package repository persists practice accounts, session history and async
// analysis jobs. The classifier and scorer never see it.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/interviewcoach/internal/domain/model"
	"github.com/okian/interviewcoach/pkg/metrics"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// UserStore keeps accounts and their practice history.
type UserStore interface {
	// CreateUser returns ErrDuplicateEmail when the email is taken.
	CreateUser(ctx context.Context, u model.User) error
	// FindByEmail returns ErrNotFound for unknown addresses.
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	AppendSession(ctx context.Context, s model.Session) error
	// Sessions returns the user's sessions, newest first. limit <= 0 means all.
	Sessions(ctx context.Context, userID string, limit int) ([]model.Session, error)
}

// JobStore tracks asynchronous analyses.
type JobStore interface {
	CreateJob(ctx context.Context, job model.AnalysisJob) error
	// Job returns ErrNotFound for unknown IDs.
	Job(ctx context.Context, id string) (model.AnalysisJob, error)
	CompleteJob(ctx context.Context, id string, source model.SignalKind, result model.AnalysisResult) error
	FailJob(ctx context.Context, id, reason string) error
	// CountJobs returns job totals by status.
	CountJobs(ctx context.Context) (map[model.JobStatus]int, error)
}

// Store combines every persistence concern behind one handle.
type Store interface {
	UserStore
	JobStore
	Close() error
}

// Open returns the store for driver. path is only used by the sqlite driver.
func Open(driver, path string, opts ...Option) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverMemory:
		return NewMemoryStore(opts...), nil
	case DriverSQLite:
		return NewSQLiteStore(path, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// observe records the latency of a store operation.
func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
}
