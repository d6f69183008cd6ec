package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/interviewcoach/internal/domain/model"
)

// MemoryStore keeps everything in process memory. State is lost on restart.
type MemoryStore struct {
	opts options

	mu       sync.RWMutex
	users    map[string]model.User // by ID
	byEmail  map[string]string     // email -> ID
	sessions map[string][]model.Session
	jobs     map[string]model.AnalysisJob
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryStore{
		opts:     o,
		users:    make(map[string]model.User),
		byEmail:  make(map[string]string),
		sessions: make(map[string][]model.Session),
		jobs:     make(map[string]model.AnalysisJob),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, u model.User) error {
	defer observe("create_user", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEmail, u.Email)
	}
	s.users[u.ID] = u
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	defer observe("find_user", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return model.User{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	return s.users[id], nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return u, nil
}

func (s *MemoryStore) AppendSession(_ context.Context, sess model.Session) error {
	defer observe("append_session", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[sess.UserID]; !ok {
		return fmt.Errorf("user %s: %w", sess.UserID, ErrNotFound)
	}
	s.sessions[sess.UserID] = append(s.sessions[sess.UserID], sess)
	return nil
}

func (s *MemoryStore) Sessions(_ context.Context, userID string, limit int) ([]model.Session, error) {
	defer observe("list_sessions", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.sessions[userID]
	out := make([]model.Session, len(all))
	copy(out, all)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) CreateJob(_ context.Context, job model.AnalysisJob) error {
	defer observe("create_job", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.opts.now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = model.JobPending
	}
	s.jobs[job.ID] = job
	return nil
}

func (s *MemoryStore) Job(_ context.Context, id string) (model.AnalysisJob, error) {
	defer observe("get_job", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return model.AnalysisJob{}, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return job, nil
}

func (s *MemoryStore) CompleteJob(_ context.Context, id string, source model.SignalKind, result model.AnalysisResult) error {
	return s.finish(id, func(job *model.AnalysisJob) {
		job.Status = model.JobCompleted
		job.Source = source
		job.Result = &result
	})
}

func (s *MemoryStore) FailJob(_ context.Context, id, reason string) error {
	return s.finish(id, func(job *model.AnalysisJob) {
		job.Status = model.JobFailed
		job.Error = reason
	})
}

func (s *MemoryStore) finish(id string, apply func(*model.AnalysisJob)) error {
	defer observe("finish_job", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if job.Status != model.JobPending {
		return fmt.Errorf("job %s: %w", id, ErrJobFinished)
	}
	apply(&job)
	job.UpdatedAt = s.opts.now().UTC()
	s.jobs[id] = job
	return nil
}

func (s *MemoryStore) CountJobs(_ context.Context) (map[model.JobStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[model.JobStatus]int, 3)
	for _, j := range s.jobs {
		out[j.Status]++
	}
	return out, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error { return nil }
