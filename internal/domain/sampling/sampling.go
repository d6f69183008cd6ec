// Package sampling picks distinct indices from a pool. Every selection in the
// scorer and question generator goes through a Sampler so the discipline is
// chosen once, at construction.
package sampling

import (
	"math/rand"
	"sync"
)

// Sampler selects k distinct indices from [0, n).
type Sampler interface {
	// Pick returns min(k, n) distinct indices. key identifies the input being
	// sampled for; implementations may ignore it.
	Pick(key int64, n, k int) []int
}

// RollingHash reduces s with h = h*31 + rune in int32 arithmetic and returns
// the absolute value. The absolute value is taken in int64 so math.MinInt32
// does not overflow.
func RollingHash(s string) int64 {
	var h int32
	for _, r := range s {
		h = h*31 + r
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// HashSampler selects indices purely from the key: a start offset and a
// stride coprime to n. Equal keys always give equal picks.
type HashSampler struct{}

// NewHashSampler returns the default, pure sampler.
func NewHashSampler() HashSampler { return HashSampler{} }

// Pick implements Sampler.
func (HashSampler) Pick(key int64, n, k int) []int {
	k = bound(n, k)
	if k == 0 {
		return []int{}
	}
	if key < 0 {
		key = -(key + 1)
	}
	start := int(key % int64(n))
	stride := 1
	if n > 2 {
		stride = 1 + int((key/int64(n))%int64(n-1))
		for gcd(stride, n) != 1 {
			stride++
			if stride >= n {
				stride = 1
			}
		}
	}
	out := make([]int, k)
	for i := range out {
		out[i] = (start + i*stride) % n
	}
	return out
}

// RandSampler draws from a seeded generator owned by the sampler. Successive
// calls advance the generator, so repeated inputs may give different picks;
// the sequence is reproducible for a given seed.
type RandSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandSampler returns a sampler backed by rand.NewSource(seed).
func NewRandSampler(seed int64) *RandSampler {
	return &RandSampler{rng: rand.New(rand.NewSource(seed))} //nolint:gosec // sampling canned text, not security sensitive
}

// Pick implements Sampler. key is ignored.
func (s *RandSampler) Pick(_ int64, n, k int) []int {
	k = bound(n, k)
	if k == 0 {
		return []int{}
	}
	s.mu.Lock()
	perm := s.rng.Perm(n)
	s.mu.Unlock()
	return perm[:k]
}

func bound(n, k int) int {
	if n <= 0 || k <= 0 {
		return 0
	}
	if k > n {
		return n
	}
	return k
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
