package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/interviewcoach/internal/domain/model"
	"github.com/okian/interviewcoach/pkg/logger"
	"github.com/okian/interviewcoach/pkg/metrics"
)

const (
	defaultAttempts   = 2
	defaultRetryDelay = 500 * time.Millisecond
)

// Guard wraps a Backend with rate limiting, retries and metrics.
type Guard struct {
	backend  Backend
	limiter  *Limiter
	attempts int
	delay    time.Duration
	logger   logger.Logger
}

// NewGuard wraps b. A nil backend yields a guard that always reports
// ErrUnavailable.
func NewGuard(b Backend, opts ...Option) *Guard {
	g := &Guard{
		backend:  b,
		limiter:  NewLimiter(0, 0),
		attempts: defaultAttempts,
		delay:    defaultRetryDelay,
		logger:   logger.Get().Named("provider"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the wrapped backend's name.
func (g *Guard) Name() string {
	if g.backend == nil {
		return "none"
	}
	return g.backend.Name()
}

// GenerateQuestions implements QuestionProvider.
func (g *Guard) GenerateQuestions(ctx context.Context, c model.Category, field string, count int) ([]string, error) {
	return call(ctx, g, "questions", func(ctx context.Context) ([]string, error) {
		qs, err := g.backend.GenerateQuestions(ctx, c, field, count)
		if err == nil && len(qs) == 0 {
			err = ErrEmptyResponse
		}
		return qs, err
	})
}

// Transcribe implements Transcriber. Uploads without bytes are refused
// without a call.
func (g *Guard) Transcribe(ctx context.Context, upload model.Upload) (string, error) {
	if len(upload.Data) == 0 {
		return "", ErrNoMedia
	}
	return call(ctx, g, "transcribe", func(ctx context.Context) (string, error) {
		return g.backend.Transcribe(ctx, upload)
	})
}

func call[T any](ctx context.Context, g *Guard, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if g.backend == nil {
		return zero, ErrUnavailable
	}
	start := time.Now()
	out, err := retry(ctx, g.attempts, g.delay, func(ctx context.Context) (T, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return zero, err
		}
		return fn(ctx)
	})
	latency := float64(time.Since(start).Nanoseconds()) / 1e6
	if err != nil {
		metrics.RecordProviderCall(g.Name(), op, "error", latency)
		g.logger.Warn(ctx, "provider call failed",
			logger.String("provider", g.Name()),
			logger.String("operation", op),
			logger.Error(err))
		return zero, err
	}
	metrics.RecordProviderCall(g.Name(), op, "ok", latency)
	return out, nil
}

// retry runs fn up to attempts times, waiting i*delay before attempt i.
// Context errors and ErrNoMedia end the loop early.
func retry[T any](ctx context.Context, attempts int, delay time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	tried := 0
	for i := 0; i < attempts; i++ {
		if i > 0 {
			t := time.NewTimer(time.Duration(i) * delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return zero, ctx.Err()
			case <-t.C:
			}
		}
		tried++
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil || errors.Is(err, ErrNoMedia) {
			break
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", tried, lastErr)
}
