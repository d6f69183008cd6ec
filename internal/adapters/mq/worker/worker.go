// Package worker runs queued analysis tasks and records their outcome.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/interviewcoach/internal/adapters/mq/queue"
	"github.com/okian/interviewcoach/internal/domain/model"
	"github.com/okian/interviewcoach/pkg/logger"
	"github.com/okian/interviewcoach/pkg/metrics"
)

const (
	defaultJobTimeout     = 2 * time.Minute
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Analyzer produces a result for a request. The signal kind reports which
// scoring path was finally used.
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, model.SignalKind, error)
}

// Recorder persists job outcomes.
type Recorder interface {
	CompleteJob(ctx context.Context, id string, source model.SignalKind, result model.AnalysisResult) error
	FailJob(ctx context.Context, id, reason string) error
}

// Queue defines how workers receive tasks.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Task
}

// InMemoryWorker consumes tasks until its context ends, Shutdown is called,
// or the queue closes.
type InMemoryWorker struct {
	queue      Queue
	analyzer   Analyzer
	recorder   Recorder
	name       string
	jobTimeout time.Duration

	// set by the owning pool
	active *atomic.Int64
	done   chan struct{}
	stop   chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(q Queue, a Analyzer, r Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      q,
		analyzer:   a,
		recorder:   r,
		name:       "worker",
		jobTimeout: defaultJobTimeout,
		active:     &atomic.Int64{},
		done:       make(chan struct{}),
		stop:       make(chan struct{}),
		logger:     logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(logger.String("worker", w.name))
	return w
}

// Run processes tasks until ctx is done, Shutdown is called, or the queue closes.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	tasks := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case t, ok := <-tasks:
			if !ok {
				return
			}
			if err := w.process(ctx, t); err != nil {
				w.logger.Error(ctx, "error processing task", logger.String("job_id", t.JobID), logger.Error(err))
			}
		}
	}
}

// Shutdown signals the worker and waits for the current task to finish.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) process(ctx context.Context, t queue.Task) error { //nolint:gocritic // hugeParam: Task arrives by value
	start := time.Now()
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	result, source, err := w.analyzer.Analyze(jobCtx, t.Request)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "analysis_error")
		metrics.RecordJobFinished(string(model.JobFailed))
		if ferr := w.recorder.FailJob(ctx, t.JobID, err.Error()); ferr != nil {
			return fmt.Errorf("record failure for job %s: %w", t.JobID, ferr)
		}
		return fmt.Errorf("analyze job %s: %w", t.JobID, err)
	}

	if err := w.recorder.CompleteJob(ctx, t.JobID, source, result); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		return fmt.Errorf("record result for job %s: %w", t.JobID, err)
	}
	metrics.RecordJobFinished(string(model.JobCompleted))
	w.logger.Debug(ctx, "job completed",
		logger.String("job_id", t.JobID),
		logger.String("source", string(source)),
		logger.Float64("rating", result.Rating),
	)
	return nil
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	active  atomic.Int64
	logger  logger.Logger
}

// NewPool creates workerCount workers. A count below one uses runtime.NumCPU().
func NewPool(workerCount int, q Queue, a Analyzer, r Recorder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		w := NewInMemoryWorker(q, a, r, wopts...)
		w.active = &p.active
		p.workers[i] = w
	}
	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	return p
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Active returns the number of workers currently processing a task.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Stop signals every worker and waits briefly for each.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer cancel()
	for _, w := range p.workers {
		_ = w.Shutdown(ctx)
	}
}

// Shutdown closes the queue so workers drain what is left, then waits for
// them within poolShutdownTimeout.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut int
	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-shutdownCtx.Done():
			timedOut++
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	if timedOut > 0 {
		return fmt.Errorf("%d workers did not stop: %w", timedOut, shutdownCtx.Err())
	}
	return nil
}
