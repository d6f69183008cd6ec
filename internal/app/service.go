// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/interviewcoach/internal/adapters/mq/queue"
	"github.com/okian/interviewcoach/internal/adapters/mq/worker"
	"github.com/okian/interviewcoach/internal/adapters/provider"
	"github.com/okian/interviewcoach/internal/adapters/repository"
	"github.com/okian/interviewcoach/internal/auth"
	"github.com/okian/interviewcoach/internal/domain/catalog"
	"github.com/okian/interviewcoach/internal/domain/classify"
	"github.com/okian/interviewcoach/internal/domain/dedupe"
	"github.com/okian/interviewcoach/internal/domain/model"
	"github.com/okian/interviewcoach/internal/domain/questions"
	"github.com/okian/interviewcoach/internal/domain/scoring"
	"github.com/okian/interviewcoach/pkg/logger"
	"github.com/okian/interviewcoach/pkg/metrics"
)

const (
	defaultProviderTimeout = 8 * time.Second
	defaultJobTimeout      = 2 * time.Minute
	defaultStatsInterval   = 15 * time.Second
	shutdownTimeout        = 30 * time.Second
)

// Service implements the API dependencies for the interview coach.
type Service struct {
	mu sync.RWMutex
	// serializes idempotency-key claims
	submitMu sync.Mutex

	// Pure core, ready after New
	catalog    *catalog.Table
	classifier *classify.Classifier
	generator  *questions.Generator
	scorer     *scoring.Scorer
	provider   provider.Backend

	// Infrastructure, ready after Start
	store   repository.Store
	auth    *auth.Service
	queue   *queue.InMemoryQueue
	pool    *worker.Pool
	tracker dedupe.Tracker

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	jobTimeout       time.Duration
	providerTimeout  time.Duration
	defaultQuestions int
	maxQuestions     int
	seed             int64
	storeDriver      string
	storePath        string
	ownsStore        bool
	jwtSecret        string
	jwtTTL           time.Duration
	bcryptCost       int
	statsInterval    time.Duration

	// State
	started bool
	stopCh  chan struct{}

	logger logger.Logger
}

// New constructs a Service. Classification, question generation and
// synchronous analysis work immediately; accounts and queued analyses need
// Start.
func New(opts ...Option) *Service {
	s := &Service{
		catalog:          catalog.Default(),
		workerCount:      runtime.NumCPU(),
		queueSize:        1024,
		dedupeSize:       50_000,
		jobTimeout:       defaultJobTimeout,
		providerTimeout:  defaultProviderTimeout,
		defaultQuestions: model.DefaultQuestionCount,
		maxQuestions:     model.MaxQuestionCount,
		storeDriver:      repository.DriverMemory,
		ownsStore:        true,
		jwtTTL:           24 * time.Hour,
		statsInterval:    defaultStatsInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaultQuestions > s.maxQuestions {
		s.defaultQuestions = s.maxQuestions
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.classifier = classify.New(s.catalog)
	if s.seed != 0 {
		s.generator = questions.New(s.catalog, questions.WithSeed(s.seed))
		s.scorer = scoring.New(s.catalog, scoring.WithSeed(s.seed))
	} else {
		s.generator = questions.New(s.catalog)
		s.scorer = scoring.New(s.catalog)
	}
	return s
}

// Start opens the store and launches the analysis workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting interview coach service...")

	if s.store == nil {
		st, err := repository.Open(s.storeDriver, s.storePath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.store = st
		s.ownsStore = true
	}

	secret := s.jwtSecret
	if strings.TrimSpace(secret) == "" {
		secret = uuid.NewString() + uuid.NewString()
		s.logger.Warn(ctx, "no jwt secret configured; tokens will not survive a restart")
	}
	tokens, err := auth.NewTokenService(secret, s.jwtTTL)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	s.auth = auth.NewService(s.store, auth.NewPasswordHasher(s.bcryptCost), tokens)

	s.tracker = dedupe.NewTracker(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, &analyzerAdapter{s: s}, &jobRecorder{s: s},
		worker.WithJobTimeout(s.jobTimeout))
	// Workers outlive the caller's ctx; Stop drains them.
	s.pool.Start(context.WithoutCancel(ctx))

	s.stopCh = make(chan struct{})
	go s.refreshRuntimeStats(s.stopCh)

	s.started = true
	s.logger.Info(ctx, "interview coach service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("provider", s.providerName()),
	)
	return nil
}

// Stop drains queued analyses and releases the store. The lock is released
// while draining because workers read the store through the service.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	pool := s.pool
	close(s.stopCh)
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping interview coach service...")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := pool.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
		pool.Stop()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ownsStore && s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(ctx, "error closing store", logger.Error(err))
		}
		s.store = nil
	}
	s.logger.Info(ctx, "interview coach service stopped")
}

// Classify maps a free-text field to its category.
func (s *Service) Classify(_ context.Context, field string) (model.Category, error) {
	q, err := model.ParseFieldQuery(field)
	if err != nil {
		return "", err
	}
	c := s.classifier.ClassifyQuery(q)
	metrics.RecordClassification(string(c))
	return c, nil
}

// Questions builds a question set for field. With a provider configured the
// provider is asked first; its answer is topped up from templates when
// short and replaced by templates on error or timeout.
func (s *Service) Questions(ctx context.Context, field string, requested *float64) (model.GeneratedQuestions, error) {
	q, err := model.ParseFieldQuery(field)
	if err != nil {
		return model.GeneratedQuestions{}, err
	}
	c := s.classifier.ClassifyQuery(q)
	metrics.RecordClassification(string(c))

	count := s.defaultQuestions
	if requested != nil {
		count = model.ClampCount(*requested, s.maxQuestions)
	}

	out := model.GeneratedQuestions{Field: q.String(), Category: c, Source: model.SourceTemplate}
	if s.provider != nil {
		if qs, ok := s.providerQuestions(ctx, c, q.String(), count); ok {
			out.Questions = s.topUp(qs, c, q.String(), count)
			out.Source = model.SourceProvider
		}
	}
	if out.Questions == nil {
		out.Questions = s.generator.Generate(c, q.String(), count)
	}
	metrics.RecordQuestionSet(out.Source, len(out.Questions))
	return out, nil
}

func (s *Service) providerQuestions(ctx context.Context, c model.Category, field string, count int) ([]string, bool) {
	pctx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()
	qs, err := s.provider.GenerateQuestions(pctx, c, field, count)
	if err != nil || len(qs) == 0 {
		metrics.RecordProviderFallback("questions")
		s.logger.Info(ctx, "falling back to question templates",
			logger.String("category", string(c)), logger.Error(err))
		return nil, false
	}
	return qs, true
}

// topUp keeps the provider's questions first and fills the rest from
// templates, skipping case-insensitive duplicates.
func (s *Service) topUp(qs []string, c model.Category, field string, count int) model.QuestionSet {
	out := make(model.QuestionSet, 0, count)
	seen := make(map[string]struct{}, count)
	add := func(list []string) {
		for _, q := range list {
			if len(out) == count {
				return
			}
			q = strings.TrimSpace(q)
			key := strings.ToLower(q)
			if _, dup := seen[key]; dup || !strings.HasSuffix(q, "?") {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, q)
		}
	}
	add(qs)
	if len(out) < count {
		add(s.generator.Generate(c, field, count))
	}
	return out
}

// Analyze scores a request synchronously. Requests carrying a user ID are
// recorded in that user's practice history.
func (s *Service) Analyze(ctx context.Context, req model.AnalysisRequest) (model.Analysis, error) {
	out, err := s.analyze(ctx, req)
	if err != nil {
		return model.Analysis{}, err
	}
	if req.UserID != "" {
		s.recordSession(ctx, req.UserID, out)
	}
	return out, nil
}

func (s *Service) analyze(ctx context.Context, req model.AnalysisRequest) (model.Analysis, error) {
	q, err := model.ParseFieldQuery(req.Field)
	if err != nil {
		return model.Analysis{}, err
	}
	c := s.classifier.ClassifyQuery(q)
	metrics.RecordClassification(string(c))

	signal := s.resolveSignal(ctx, req)
	result := s.scorer.Score(c, q.String(), signal)
	source := model.KindOf(signal)
	metrics.RecordAnalysis(string(source), string(c), result.Rating)

	return model.Analysis{
		Field:          q.String(),
		Category:       c,
		Source:         source,
		AnalysisResult: result,
	}, nil
}

// resolveSignal picks the scoring input. Uploaded bytes are transcribed
// when a provider is available; a failed transcription degrades to the
// file identity.
func (s *Service) resolveSignal(ctx context.Context, req model.AnalysisRequest) model.ContentSignal {
	switch {
	case req.Transcript != nil:
		return model.TextSignal{Transcript: *req.Transcript}
	case req.Upload != nil:
		up := *req.Upload
		if s.provider != nil && len(up.Data) > 0 {
			pctx, cancel := context.WithTimeout(ctx, s.providerTimeout)
			defer cancel()
			text, err := s.provider.Transcribe(pctx, up)
			if err == nil {
				return model.TextSignal{Transcript: text}
			}
			metrics.RecordProviderFallback("transcribe")
			s.logger.Info(ctx, "transcription failed; scoring file identity",
				logger.String("file", up.Name), logger.Error(err))
		}
		size := up.Size
		if size <= 0 {
			size = int64(len(up.Data))
		}
		return model.FileSignal{Name: up.Name, Size: size}
	default:
		return nil
	}
}

func (s *Service) recordSession(ctx context.Context, userID string, a model.Analysis) {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()
	if st == nil {
		return
	}
	err := st.AppendSession(ctx, model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Field:     a.Field,
		Category:  a.Category,
		Source:    a.Source,
		Rating:    a.Rating,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		metrics.RecordErrorByComponent("service", "session_error")
		s.logger.Warn(ctx, "could not record session",
			logger.String("user_id", userID), logger.Error(err))
	}
}

// Submit queues an analysis. A non-empty key already seen for the same
// user returns the existing job and true.
func (s *Service) Submit(ctx context.Context, req model.AnalysisRequest, key string) (model.AnalysisJob, bool, error) {
	q, err := model.ParseFieldQuery(req.Field)
	if err != nil {
		return model.AnalysisJob{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return model.AnalysisJob{}, false, fmt.Errorf("submit: %w: service not started", model.ErrUnavailable)
	}

	job := model.AnalysisJob{
		ID:       uuid.NewString(),
		UserID:   req.UserID,
		Field:    q.String(),
		Category: s.classifier.ClassifyQuery(q),
		Status:   model.JobPending,
	}

	scoped := ""
	if key != "" {
		scoped = req.UserID + "|" + key
		prev, dup, err := s.claimKey(ctx, scoped, job)
		if err != nil || dup {
			return prev, dup, err
		}
	} else if err := s.store.CreateJob(ctx, job); err != nil {
		return model.AnalysisJob{}, false, fmt.Errorf("create job: %w", err)
	}

	if err := s.queue.Enqueue(ctx, queue.Task{JobID: job.ID, Request: req}); err != nil {
		s.forget(ctx, scoped)
		_ = s.store.FailJob(ctx, job.ID, "not accepted: "+err.Error())
		switch {
		case errors.Is(err, queue.ErrFull):
			return model.AnalysisJob{}, false, fmt.Errorf("%w: %w", model.ErrBackpressure, err)
		case errors.Is(err, queue.ErrClosed):
			return model.AnalysisJob{}, false, fmt.Errorf("%w: %w", model.ErrUnavailable, err)
		default:
			return model.AnalysisJob{}, false, err
		}
	}
	metrics.RecordJobSubmitted()

	stored, err := s.store.Job(ctx, job.ID)
	if err != nil {
		return job, false, nil //nolint:nilerr // the job is queued; timestamps are cosmetic
	}
	return stored, false, nil
}

// claimKey returns the job already recorded for key, or creates job and
// records it. The key becomes visible only once the job exists, so a
// concurrent retry either sees the stored job or waits for it.
func (s *Service) claimKey(ctx context.Context, key string, job model.AnalysisJob) (model.AnalysisJob, bool, error) {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	if existing, ok := s.tracker.Lookup(ctx, key); ok {
		if prev, err := s.store.Job(ctx, existing); err == nil {
			metrics.RecordJobDuplicate()
			return prev, true, nil
		}
		s.tracker.Forget(ctx, key)
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return model.AnalysisJob{}, false, fmt.Errorf("create job: %w", err)
	}
	s.tracker.Remember(ctx, key, job.ID)
	return job, false, nil
}

func (s *Service) forget(ctx context.Context, key string) {
	if key != "" {
		s.tracker.Forget(ctx, key)
	}
}

// Job returns a queued analysis by ID.
func (s *Service) Job(ctx context.Context, id string) (model.AnalysisJob, error) {
	st, err := s.storeOrErr("job")
	if err != nil {
		return model.AnalysisJob{}, err
	}
	return st.Job(ctx, id)
}

// Signup creates an account.
func (s *Service) Signup(ctx context.Context, name, email, password string) (model.User, string, error) {
	a, err := s.authOrErr("signup")
	if err != nil {
		return model.User{}, "", err
	}
	return a.Signup(ctx, name, email, password)
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (model.User, string, error) {
	a, err := s.authOrErr("login")
	if err != nil {
		return model.User{}, "", err
	}
	return a.Login(ctx, email, password)
}

// Authenticate resolves a bearer token to a user ID.
func (s *Service) Authenticate(token string) (string, error) {
	a, err := s.authOrErr("authenticate")
	if err != nil {
		return "", err
	}
	return a.Authenticate(token)
}

// Sessions lists a user's practice history, newest first.
func (s *Service) Sessions(ctx context.Context, userID string, limit int) ([]model.Session, error) {
	st, err := s.storeOrErr("sessions")
	if err != nil {
		return nil, err
	}
	return st.Sessions(ctx, userID, limit)
}

func (s *Service) storeOrErr(op string) (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, fmt.Errorf("%s: %w: service not started", op, model.ErrUnavailable)
	}
	return s.store, nil
}

func (s *Service) authOrErr(op string) (*auth.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, fmt.Errorf("%s: %w: service not started", op, model.ErrUnavailable)
	}
	return s.auth, nil
}

func (s *Service) providerName() string {
	if s.provider == nil {
		return "none"
	}
	return s.provider.Name()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":          s.started,
		"workerCount":      s.workerCount,
		"queueSize":        s.queueSize,
		"dedupeSize":       s.dedupeSize,
		"provider":         s.providerName(),
		"maxQuestionCount": s.maxQuestions,
		"categories":       len(s.catalog.Classified()) + 1,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["activeWorkers"] = s.pool.Active()
		stats["idempotencyKeys"] = s.tracker.Size()
		if counts, err := s.store.CountJobs(ctx); err == nil {
			jobs := make(map[string]int, len(counts))
			for status, n := range counts {
				jobs[string(status)] = n
			}
			stats["jobs"] = jobs
		}
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}
	return stats
}

// refreshRuntimeStats updates process gauges until stop is closed.
func (s *Service) refreshRuntimeStats(stop <-chan struct{}) {
	ticker := time.NewTicker(s.statsInterval)
	defer ticker.Stop()
	var lastPause uint32
	for {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		metrics.UpdateSystemMemoryUsage(ms.Alloc)
		metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		if ms.NumGC != lastPause && ms.NumGC > 0 {
			metrics.RecordSystemGCPauseTime(float64(ms.PauseNs[(ms.NumGC+255)%256]) / 1e6)
			lastPause = ms.NumGC
		}
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}
