// Package queue carries analysis tasks from the HTTP layer to the workers.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/interviewcoach/internal/domain/model"
	"github.com/okian/interviewcoach/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Task is the payload flowing through the queue.
type Task = model.AnalysisTask

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a task without blocking. It returns ErrFull when the
	// queue is at capacity and ErrClosed after Close.
	Enqueue(ctx context.Context, t Task) error

	// Dequeue returns a channel of tasks, closed when the queue is closed
	// and drained. Consumers stop reading on their own ctx.
	Dequeue(ctx context.Context) <-chan Task

	Len(ctx context.Context) int
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel. Tasks hold upload
// bytes, so capacity bounds memory as well as latency.
type InMemoryQueue struct {
	tasks    chan Task
	capacity int

	mu     sync.RWMutex
	closed bool

	// one forwarder per queue, so at most one task is in flight outside
	// the buffer however many consumers there are
	out     chan Task
	outOnce sync.Once
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.tasks = make(chan Task, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	q.observe()
	return q
}

// Enqueue adds a task to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Task) error { //nolint:gocritic // hugeParam: passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordQueueProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return q.refuse("closed", ErrClosed)
	}
	if err := ctx.Err(); err != nil {
		return q.refuse("context_cancelled", fmt.Errorf("enqueue %s: %w", t.JobID, err))
	}

	select {
	case q.tasks <- t:
		metrics.RecordQueueEnqueue()
		q.observe()
		return nil
	default:
		return q.refuse("queue_full", ErrFull)
	}
}

func (q *InMemoryQueue) refuse(reason string, err error) error {
	metrics.RecordQueueEnqueueError()
	metrics.RecordErrorByComponent("queue", reason)
	return err
}

// Dequeue returns the channel every consumer shares. It closes once the
// queue is closed and drained.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Task {
	q.outOnce.Do(func() {
		q.out = make(chan Task)
		go q.forward()
	})
	return q.out
}

func (q *InMemoryQueue) forward() {
	defer close(q.out)
	for t := range q.tasks {
		metrics.RecordQueueDequeue()
		q.observe()
		q.out <- t
	}
}

// Len returns the current number of queued tasks.
func (q *InMemoryQueue) Len(_ context.Context) int {
	q.observe()
	return len(q.tasks)
}

// Capacity returns the configured capacity.
func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

func (q *InMemoryQueue) observe() {
	size := len(q.tasks)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}

// Close stops accepting tasks; queued tasks are still delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.tasks)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
