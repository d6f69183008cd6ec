package scoring

import "github.com/okian/interviewcoach/internal/domain/sampling"

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithSampler replaces the default hash-indexed sampler.
func WithSampler(s sampling.Sampler) Option {
	return func(sc *Scorer) {
		if s != nil {
			sc.sampler = s
		}
	}
}

// WithSeed switches mistake and tip selection to a seeded random sampler.
// Ratings stay deterministic; only which canned entries appear varies.
func WithSeed(seed int64) Option {
	return func(sc *Scorer) {
		sc.sampler = sampling.NewRandSampler(seed)
	}
}
