package provider

import (
	"time"

	"github.com/okian/interviewcoach/pkg/logger"
)

// Option configures a Guard.
type Option func(*Guard)

// WithLimiter replaces the default limiter.
func WithLimiter(l *Limiter) Option {
	return func(g *Guard) {
		if l != nil {
			g.limiter = l
		}
	}
}

// WithAttempts sets how many times a failing call is tried.
func WithAttempts(n int) Option {
	return func(g *Guard) {
		if n > 0 {
			g.attempts = n
		}
	}
}

// WithRetryDelay sets the base delay between attempts; attempt i waits i*d.
func WithRetryDelay(d time.Duration) Option {
	return func(g *Guard) {
		if d >= 0 {
			g.delay = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}
