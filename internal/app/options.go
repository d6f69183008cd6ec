package service

import (
	"time"

	"github.com/okian/interviewcoach/internal/adapters/provider"
	"github.com/okian/interviewcoach/internal/adapters/repository"
	"github.com/okian/interviewcoach/internal/domain/catalog"
	"github.com/okian/interviewcoach/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of analysis workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the analysis queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize caps the number of remembered idempotency keys.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithJobTimeout bounds one queued analysis.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.jobTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog replaces the built-in catalog.
func WithCatalog(t *catalog.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.catalog = t
		}
	}
}

// WithScoringSeed switches question and critique selection to a seeded RNG.
// Zero keeps the deterministic hash sampler.
func WithScoringSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithQuestionCounts sets the default and maximum question counts.
func WithQuestionCounts(def, max int) Option {
	return func(s *Service) {
		if max >= 1 && max <= 20 {
			s.maxQuestions = max
		}
		if def >= 1 {
			s.defaultQuestions = def
		}
	}
}

// WithProvider enables AI question generation and transcription. Calls are
// bounded by timeout and fall back to the offline generators on failure.
func WithProvider(p provider.Backend, timeout time.Duration) Option {
	return func(s *Service) {
		s.provider = p
		if timeout > 0 {
			s.providerTimeout = timeout
		}
	}
}

// WithStore sets a store owned by the caller; Stop leaves it open.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
			s.ownsStore = false
		}
	}
}

// WithStoreDriver selects the store Start opens when none was given.
func WithStoreDriver(driver, path string) Option {
	return func(s *Service) {
		s.storeDriver = driver
		s.storePath = path
	}
}

// WithAuth configures token signing and password hashing. An empty secret
// is replaced by a random one at Start.
func WithAuth(secret string, ttl time.Duration, bcryptCost int) Option {
	return func(s *Service) {
		s.jwtSecret = secret
		if ttl > 0 {
			s.jwtTTL = ttl
		}
		if bcryptCost > 0 {
			s.bcryptCost = bcryptCost
		}
	}
}

// WithStatsInterval sets how often runtime gauges are refreshed.
func WithStatsInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.statsInterval = d
		}
	}
}
