package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/okian/interviewcoach/internal/adapters/repository/migrations"
	"github.com/okian/interviewcoach/internal/domain/model"
)

const memoryPath = ":memory:"

// SQLiteStore persists accounts, sessions and jobs in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	opts options
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at path and runs
// pending migrations. ":memory:" gives a private in-memory database.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if path == "" {
		path = memoryPath
	}
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// one connection keeps ":memory:" a single database and serializes writers
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path, opts: o}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// migrate applies every NNN_*.up.sql file above the recorded version.
func (s *SQLiteStore) migrate(fsys embed.FS) error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var ups []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			ups = append(ups, e.Name())
		}
	}
	sort.Strings(ups)

	for _, name := range ups {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func toUnix(t time.Time) int64 { return t.UTC().UnixNano() }

func fromUnix(n int64) time.Time { return time.Unix(0, n).UTC() }

func (s *SQLiteStore) CreateUser(ctx context.Context, u model.User) error {
	defer observe("create_user", time.Now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, toUnix(u.CreatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateEmail, u.Email)
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) findUser(ctx context.Context, where string, arg string) (model.User, error) {
	var u model.User
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE `+where+` = ?`, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("user %s: %w", arg, ErrNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("querying user: %w", err)
	}
	u.CreatedAt = fromUnix(created)
	return u, nil
}

func (s *SQLiteStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	defer observe("find_user", time.Now())
	return s.findUser(ctx, "email", email)
}

func (s *SQLiteStore) FindByID(ctx context.Context, id string) (model.User, error) {
	return s.findUser(ctx, "id", id)
}

func (s *SQLiteStore) AppendSession(ctx context.Context, sess model.Session) error {
	defer observe("append_session", time.Now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, field, category, source, rating, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.Field, string(sess.Category), string(sess.Source), sess.Rating, toUnix(sess.CreatedAt))
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return fmt.Errorf("user %s: %w", sess.UserID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Sessions(ctx context.Context, userID string, limit int) ([]model.Session, error) {
	defer observe("list_sessions", time.Now())
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, field, category, source, rating, created_at
		   FROM sessions WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	out := []model.Session{}
	for rows.Next() {
		var sess model.Session
		var category, source string
		var created int64
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.Field, &category, &source, &sess.Rating, &created); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sess.Category = model.Category(category)
		sess.Source = model.SignalKind(source)
		sess.CreatedAt = fromUnix(created)
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateJob(ctx context.Context, job model.AnalysisJob) error {
	defer observe("create_job", time.Now())
	now := s.opts.now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	if job.Status == "" {
		job.Status = model.JobPending
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, user_id, field, category, source, status, error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.UserID, job.Field, string(job.Category), string(job.Source), string(job.Status), job.Error,
		toUnix(job.CreatedAt), toUnix(now))
	if err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Job(ctx context.Context, id string) (model.AnalysisJob, error) {
	defer observe("get_job", time.Now())
	var (
		job                      model.AnalysisJob
		category, source, status string
		result                   sql.NullString
		created, updated         int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, field, category, source, status, result, error, created_at, updated_at FROM jobs WHERE id = ?`, id).
		Scan(&job.ID, &job.UserID, &job.Field, &category, &source, &status, &result, &job.Error, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AnalysisJob{}, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.AnalysisJob{}, fmt.Errorf("querying job: %w", err)
	}
	job.Category = model.Category(category)
	job.Source = model.SignalKind(source)
	job.Status = model.JobStatus(status)
	job.CreatedAt = fromUnix(created)
	job.UpdatedAt = fromUnix(updated)
	if result.Valid && result.String != "" {
		var r model.AnalysisResult
		if err := json.Unmarshal([]byte(result.String), &r); err != nil {
			return model.AnalysisJob{}, fmt.Errorf("decoding job result: %w", err)
		}
		job.Result = &r
	}
	return job, nil
}

func (s *SQLiteStore) CompleteJob(ctx context.Context, id string, source model.SignalKind, result model.AnalysisResult) error {
	defer observe("finish_job", time.Now())
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding job result: %w", err)
	}
	return s.finish(ctx, id,
		`UPDATE jobs SET status = ?, source = ?, result = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(model.JobCompleted), string(source), string(raw), toUnix(s.opts.now()), id, string(model.JobPending))
}

func (s *SQLiteStore) FailJob(ctx context.Context, id, reason string) error {
	defer observe("finish_job", time.Now())
	return s.finish(ctx, id,
		`UPDATE jobs SET status = ?, error = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(model.JobFailed), reason, toUnix(s.opts.now()), id, string(model.JobPending))
}

// finish runs a pending -> final transition and explains a zero-row update.
func (s *SQLiteStore) finish(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 1 {
		return nil
	}
	if _, err := s.Job(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("job %s: %w", id, ErrJobFinished)
}

func (s *SQLiteStore) CountJobs(ctx context.Context) (map[model.JobStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting jobs: %w", err)
	}
	defer rows.Close()
	out := make(map[model.JobStatus]int, 3)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning job count: %w", err)
		}
		out[model.JobStatus(status)] = n
	}
	return out, rows.Err()
}
