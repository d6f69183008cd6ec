package questions

import "github.com/okian/interviewcoach/internal/domain/sampling"

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSampler replaces the default hash-indexed sampler.
func WithSampler(s sampling.Sampler) Option {
	return func(g *Generator) {
		if s != nil {
			g.sampler = s
		}
	}
}

// WithSeed switches to a seeded random sampler. Repeated calls then vary,
// reproducibly for the same seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.sampler = sampling.NewRandSampler(seed)
	}
}
