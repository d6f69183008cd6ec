// Package dedupe tracks idempotency keys for submitted analysis jobs.
package dedupe

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 50000

// Tracker maps client idempotency keys to the job created for them so a
// repeated submission returns the original job instead of a new one.
type Tracker interface {
	// Remember records key -> jobID unless key is already tracked. When it is,
	// the existing job ID is returned with seen == true and nothing changes.
	Remember(ctx context.Context, key, jobID string) (existing string, seen bool)

	// Lookup returns the job ID recorded for key.
	Lookup(ctx context.Context, key string) (string, bool)

	// Forget drops key so it can be retried, e.g. after the queue refused
	// the job it pointed at.
	Forget(ctx context.Context, key string)

	Size() int64
}

type entry struct {
	key   string
	jobID string
}

// inMemoryTracker keeps keys in insertion order and evicts the oldest when
// bounded (maxSize > 0). With maxSize <= 0 it never evicts.
type inMemoryTracker struct {
	mu      sync.Mutex
	keys    map[string]*list.Element
	order   *list.List // front is newest
	maxSize int
	size    atomic.Int64
}

// NewTracker creates an in-memory tracker with configuration options.
func NewTracker(opts ...Option) Tracker {
	t := &inMemoryTracker{
		maxSize: defaultMaxSize,
		keys:    make(map[string]*list.Element),
		order:   list.New(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *inMemoryTracker) Remember(_ context.Context, key, jobID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if el, ok := t.keys[key]; ok {
		return el.Value.(*entry).jobID, true
	}
	if t.maxSize > 0 && len(t.keys) >= t.maxSize {
		t.evictOldest()
	}
	t.keys[key] = t.order.PushFront(&entry{key: key, jobID: jobID})
	t.size.Add(1)
	return jobID, false
}

func (t *inMemoryTracker) Lookup(_ context.Context, key string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	el, ok := t.keys[key]
	if !ok {
		return "", false
	}
	return el.Value.(*entry).jobID, true
}

func (t *inMemoryTracker) Forget(_ context.Context, key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if el, ok := t.keys[key]; ok {
		t.order.Remove(el)
		delete(t.keys, key)
		t.size.Add(-1)
	}
}

// evictOldest must be called with t.mu held.
func (t *inMemoryTracker) evictOldest() {
	el := t.order.Back()
	if el == nil {
		return
	}
	t.order.Remove(el)
	delete(t.keys, el.Value.(*entry).key)
	t.size.Add(-1)
}

// Size returns the number of tracked keys.
func (t *inMemoryTracker) Size() int64 {
	return t.size.Load()
}
