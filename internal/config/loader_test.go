package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/interviewcoach/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		_ = os.Setenv("COACH_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.StoreDriver, convey.ShouldEqual, "memory")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("COACH_ADDR", ":9090")
			_ = os.Setenv("COACH_QUEUE_SIZE", "64")
			_ = os.Setenv("COACH_WORKER_COUNT", "3")
			_ = os.Setenv("COACH_PROVIDER_RPS", "0.5")
			_ = os.Setenv("COACH_SCORING_SEED", "42")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.ProviderRPS, convey.ShouldEqual, 0.5)
				convey.So(cfg.ScoringSeed, convey.ShouldEqual, 42)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":7070"
queue_size: 300
store_driver: sqlite
sqlite_path: /tmp/coach.db
max_question_count: 10
`)
			_ = os.Setenv("COACH_CONFIG", tmpFile)
			_ = os.Setenv("COACH_QUEUE_SIZE", "500")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.StoreDriver, convey.ShouldEqual, "sqlite")
				convey.So(cfg.MaxQuestionCount, convey.ShouldEqual, 10)
				convey.So(cfg.DefaultQuestionCount, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When a .env file is present", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "test.env")
			convey.So(os.WriteFile(path, []byte("COACH_ADDR=:6060\nCOACH_GEMINI_MODEL=from-dotenv\n"), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("COACH_ENV_FILE", path)
			_ = os.Setenv("COACH_GEMINI_MODEL", "from-env")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it fills unset variables only", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.GeminiModel, convey.ShouldEqual, "from-env")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			_ = os.Setenv("COACH_CONFIG", createTempConfigFile(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("COACH_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("COACH_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("COACH_QUEUE_SIZE", "invalid")

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When max_question_count is out of range", func() {
			_ = os.Setenv("COACH_MAX_QUESTION_COUNT", "25")

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"COACH_CONFIG",
		"COACH_ENV_FILE",
		"COACH_ADDR",
		"COACH_QUEUE_SIZE",
		"COACH_WORKER_COUNT",
		"COACH_PROVIDER_RPS",
		"COACH_SCORING_SEED",
		"COACH_GEMINI_MODEL",
		"COACH_MAX_QUESTION_COUNT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "coach-config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
