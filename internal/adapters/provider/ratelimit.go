package provider

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultRequestsPerSecond = 2.0
	defaultBurst             = 4
	defaultBackoff           = 30 * time.Second
)

// Limiter throttles outbound provider calls with a token bucket and honours
// a cool-down after the provider reports exhaustion.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewLimiter creates a limiter. Non-positive values select the defaults.
func NewLimiter(rps float64, burst int) *Limiter {
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until a call is allowed or ctx ends.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return l.limiter.Wait(ctx)
}

// Allow reports whether a call may proceed immediately.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()
	if time.Now().Before(retryAt) {
		return false
	}
	return l.limiter.Allow()
}

// Backoff pauses all calls for d (default 30s when d <= 0).
func (l *Limiter) Backoff(d time.Duration) {
	if d <= 0 {
		d = defaultBackoff
	}
	l.mu.Lock()
	l.retryAt = time.Now().Add(d)
	l.mu.Unlock()
}
