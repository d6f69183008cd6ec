package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/interviewcoach/internal/adapters/http/api"
	"github.com/okian/interviewcoach/internal/adapters/http/swagger"
	"github.com/okian/interviewcoach/internal/adapters/provider"
	"github.com/okian/interviewcoach/internal/adapters/provider/gemini"
	service "github.com/okian/interviewcoach/internal/app"
	"github.com/okian/interviewcoach/internal/config"
	"github.com/okian/interviewcoach/internal/domain/catalog"
	"github.com/okian/interviewcoach/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants. Uploads are large, so reads and writes get
// more room than the header.
const (
	readTimeout       = 60 * time.Second
	writeTimeout      = 2 * time.Minute
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Runtime gauges come from pkg/metrics on its own registry.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (.env -> defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	srv, svc, err := newServer(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// newServer wires the service and its routes from cfg and starts the
// service. The caller owns both the returned server and service.
func newServer(ctx context.Context, cfg *config.Config, log logger.Logger) (*http.Server, *service.Service, error) {
	table, err := catalog.LoadOrDefault(cfg.CatalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	opts := []service.Option{
		service.WithLogger(log.Named("service")),
		service.WithCatalog(table),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithJobTimeout(cfg.JobTimeout()),
		service.WithQuestionCounts(cfg.DefaultQuestionCount, cfg.MaxQuestionCount),
		service.WithScoringSeed(cfg.ScoringSeed),
		service.WithStoreDriver(cfg.StoreDriver, cfg.SQLitePath),
		service.WithAuth(cfg.JWTSecret, cfg.JWTExpiration(), cfg.BcryptCost),
	}

	if cfg.GeminiAPIKey != "" {
		client, err := gemini.New(ctx, cfg.GeminiAPIKey, gemini.WithModel(cfg.GeminiModel))
		if err != nil {
			return nil, nil, fmt.Errorf("create gemini client: %w", err)
		}
		guard := provider.NewGuard(client,
			provider.WithLimiter(provider.NewLimiter(cfg.ProviderRPS, cfg.ProviderBurst)),
			provider.WithLogger(log.Named("provider")),
		)
		opts = append(opts, service.WithProvider(guard, cfg.ProviderTimeout()))
		log.Info(ctx, "AI provider enabled", logger.String("provider", guard.Name()), logger.String("model", cfg.GeminiModel))
	} else {
		log.Info(ctx, "no AI provider configured; using templates only")
	}

	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, api.WithMaxUploadBytes(cfg.MaxUploadBytes())).Register(ctx, mux)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}, svc, nil
}
