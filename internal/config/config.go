// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory analysis queue.
	QueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`
	// DedupeSize caps the number of remembered idempotency keys.
	DedupeSize int `koanf:"dedupe_size"`
	// JobTimeoutMS bounds one queued analysis.
	JobTimeoutMS int `koanf:"job_timeout_ms"`

	// DefaultQuestionCount is used when a request has no usable count.
	DefaultQuestionCount int `koanf:"default_question_count"`
	// MaxQuestionCount caps a question set; at most 20.
	MaxQuestionCount int `koanf:"max_question_count"`

	// ProviderTimeoutMS bounds the wait for the AI provider before falling back.
	ProviderTimeoutMS int `koanf:"provider_timeout_ms"`
	// ProviderRPS and ProviderBurst throttle outbound provider calls.
	ProviderRPS   float64 `koanf:"provider_rps"`
	ProviderBurst int     `koanf:"provider_burst"`
	// GeminiAPIKey enables the Gemini provider when set.
	GeminiAPIKey string `koanf:"gemini_api_key"`
	GeminiModel  string `koanf:"gemini_model"`

	// StoreDriver selects "memory" or "sqlite".
	StoreDriver string `koanf:"store_driver"`
	SQLitePath  string `koanf:"sqlite_path"`

	// JWTSecret signs bearer tokens. A random secret is generated when empty,
	// which invalidates tokens on restart.
	JWTSecret          string `koanf:"jwt_secret"`
	JWTExpirationHours int    `koanf:"jwt_expiration_hours"`
	BcryptCost         int    `koanf:"bcrypt_cost"`

	// MaxUploadMB caps an uploaded recording.
	MaxUploadMB int `koanf:"max_upload_mb"`

	// CatalogPath points at an optional YAML catalog replacing the built-in one.
	CatalogPath string `koanf:"catalog_path"`
	// ScoringSeed, when non-zero, switches selection to a seeded RNG.
	ScoringSeed int64 `koanf:"scoring_seed"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":8080",
		QueueSize:            1024,
		WorkerCount:          runtime.NumCPU(),
		DedupeSize:           50_000,
		JobTimeoutMS:         120_000,
		DefaultQuestionCount: 5,
		MaxQuestionCount:     20,
		ProviderTimeoutMS:    8_000,
		ProviderRPS:          2,
		ProviderBurst:        4,
		GeminiModel:          "gemini-2.5-flash",
		StoreDriver:          "memory",
		SQLitePath:           "interviewcoach.db",
		JWTExpirationHours:   24,
		BcryptCost:           10,
		MaxUploadMB:          50,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxQuestionCount < 1 || c.MaxQuestionCount > 20:
		return fmt.Errorf("%w: max_question_count must be in [1, 20], got %d", ErrInvalidConfig, c.MaxQuestionCount)
	case c.DefaultQuestionCount < 1 || c.DefaultQuestionCount > c.MaxQuestionCount:
		return fmt.Errorf("%w: default_question_count must be in [1, max_question_count], got %d", ErrInvalidConfig, c.DefaultQuestionCount)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.MaxUploadMB < 1:
		return fmt.Errorf("%w: max_upload_mb must be positive", ErrInvalidConfig)
	case c.JWTExpirationHours < 1:
		return fmt.Errorf("%w: jwt_expiration_hours must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.StoreDriver) {
	case "memory":
	case "sqlite":
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	return nil
}

// ProviderTimeout returns ProviderTimeoutMS as a duration.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutMS) * time.Millisecond
}

// JobTimeout returns JobTimeoutMS as a duration.
func (c *Config) JobTimeout() time.Duration {
	return time.Duration(c.JobTimeoutMS) * time.Millisecond
}

// JWTExpiration returns the token lifetime.
func (c *Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWTExpirationHours) * time.Hour
}

// MaxUploadBytes returns MaxUploadMB in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
