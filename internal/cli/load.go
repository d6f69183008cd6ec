package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/okian/interviewcoach/internal/domain/model"
	"github.com/okian/interviewcoach/pkg/logger"
)

const (
	defaultLoadRequests = 1000
	defaultPollInterval = 250 * time.Millisecond
	defaultSettleWait   = time.Minute
)

// LoadConfig configures a load run against a server.
type LoadConfig struct {
	Requests      int
	Workers       int
	DuplicateRate float64
	Settle        time.Duration
	Seed          int64
}

// LoadStats summarizes a load run.
type LoadStats struct {
	Submitted   int64         `json:"submitted"`
	Accepted    int64         `json:"accepted"`
	Duplicate   int64         `json:"duplicate"`
	Rejected    int64         `json:"rejected"`
	Failed      int64         `json:"failed"`
	Completed   int64         `json:"completed"`
	JobFailures int64         `json:"job_failures"`
	Pending     int64         `json:"pending"`
	Duration    time.Duration `json:"duration"`
}

// submitter is the part of Client a load run needs.
type submitter interface {
	Health(ctx context.Context) error
	Submit(ctx context.Context, req model.AnalysisRequest, key string) (model.AnalysisJob, bool, error)
	Job(ctx context.Context, id string) (model.AnalysisJob, error)
}

type loadItem struct {
	key string
	req model.AnalysisRequest
}

func newLoadCommand(o *Options) *cobra.Command {
	cfg := LoadConfig{}
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Submit concurrent asynchronous analyses to a server and wait for them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.Server == "" {
				return errors.New("load requires --server")
			}
			cfg.Seed = o.Seed
			stats, err := RunLoad(cmd.Context(), NewClient(o.Server, o.Timeout), cfg)
			if err != nil {
				return err
			}
			if o.JSON {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			printLoadStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&cfg.Requests, "requests", defaultLoadRequests, "Number of analyses to submit")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "Number of concurrent submitters")
	f.Float64Var(&cfg.DuplicateRate, "duplicates", 0.1, "Fraction of requests that reuse an earlier idempotency key")
	f.DurationVar(&cfg.Settle, "settle", defaultSettleWait, "How long to wait for queued analyses to finish")
	return cmd
}

// RunLoad checks the server, submits cfg.Requests analyses with cfg.Workers
// submitters and polls the accepted jobs until they settle.
func RunLoad(ctx context.Context, s submitter, cfg LoadConfig) (LoadStats, error) {
	if cfg.Requests <= 0 {
		return LoadStats{}, errors.New("requests must be positive")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	log := logger.Get().Named("load")
	start := time.Now()

	if err := s.Health(ctx); err != nil {
		return LoadStats{}, fmt.Errorf("service health check failed: %w", err)
	}
	log.Info(ctx, "starting load run",
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers),
		logger.Float64("duplicates", cfg.DuplicateRate))

	items := generateLoad(cfg)
	var (
		stats LoadStats
		mu    sync.Mutex
		ids   = make(map[string]struct{}, len(items))
		wg    sync.WaitGroup
		ch    = make(chan loadItem, cfg.Workers*2)
	)

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range ch {
				job, dup, err := s.Submit(ctx, it.req, it.key)
				atomic.AddInt64(&stats.Submitted, 1)
				switch {
				case errors.Is(err, model.ErrBackpressure):
					atomic.AddInt64(&stats.Rejected, 1)
				case err != nil:
					atomic.AddInt64(&stats.Failed, 1)
					log.Debug(ctx, "submit failed", logger.Error(err))
				case dup:
					atomic.AddInt64(&stats.Duplicate, 1)
				default:
					atomic.AddInt64(&stats.Accepted, 1)
					mu.Lock()
					ids[job.ID] = struct{}{}
					mu.Unlock()
				}
			}
		}()
	}

feed:
	for _, it := range items {
		select {
		case <-ctx.Done():
			break feed
		case ch <- it:
		}
	}
	close(ch)
	wg.Wait()

	log.Info(ctx, "submission completed",
		logger.Int64("accepted", stats.Accepted),
		logger.Int64("duplicate", stats.Duplicate),
		logger.Int64("rejected", stats.Rejected),
		logger.Int64("failed", stats.Failed))

	settle(ctx, s, ids, cfg.Settle, &stats)
	stats.Duration = time.Since(start)
	return stats, ctx.Err()
}

// settle polls pending jobs until all finish, the wait expires or ctx ends.
func settle(ctx context.Context, s submitter, ids map[string]struct{}, wait time.Duration, stats *LoadStats) {
	deadline := time.Now().Add(wait)
	for len(ids) > 0 && time.Now().Before(deadline) && ctx.Err() == nil {
		for id := range ids {
			job, err := s.Job(ctx, id)
			if err != nil {
				continue
			}
			switch job.Status {
			case model.JobCompleted:
				stats.Completed++
				delete(ids, id)
			case model.JobFailed:
				stats.JobFailures++
				delete(ids, id)
			}
		}
		if len(ids) == 0 {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(defaultPollInterval):
		}
	}
	stats.Pending = int64(len(ids))
}

var (
	loadFields = []string{
		"Senior Java Developer", "Software Engineering Intern", "Data Scientist",
		"Marketing Manager", "Product Manager", "UX Designer", "Backend Engineer", "Accountant",
	}
	loadPhrases = []string{
		"I designed a REST API and optimized the database queries which cut latency by 40%.",
		"Um, I think I maybe worked on some stuff, like, with the team.",
		"I led the migration to Kubernetes and improved deployment frequency by 3x.",
		"I'm confident I delivered the campaign on time and grew signups by 25 percent.",
		"We ran A/B tests on the onboarding flow and measured retention weekly.",
	}
)

// generateLoad builds the request list. Duplicates reuse the key and body of
// an earlier request so the server treats them as retries.
func generateLoad(cfg LoadConfig) []loadItem {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	items := make([]loadItem, 0, cfg.Requests)
	for i := 0; i < cfg.Requests; i++ {
		if i > 0 && rng.Float64() < cfg.DuplicateRate {
			items = append(items, items[rng.Intn(len(items))])
			continue
		}
		req := model.AnalysisRequest{Field: loadFields[rng.Intn(len(loadFields))]}
		if rng.Intn(4) == 0 {
			req.Upload = &model.Upload{Name: fmt.Sprintf("answer-%d.mp4", i), Size: int64(1+rng.Intn(40)) << 20}
		} else {
			n := 1 + rng.Intn(12)
			parts := make([]string, n)
			for j := range parts {
				parts[j] = loadPhrases[rng.Intn(len(loadPhrases))]
			}
			text := strings.Join(parts, " ")
			req.Transcript = &text
		}
		items = append(items, loadItem{key: uuid.NewString(), req: req})
	}
	return items
}

func printLoadStats(w io.Writer, s LoadStats) {
	fmt.Fprintf(w, "Submitted:  %d\n", s.Submitted)
	fmt.Fprintf(w, "Accepted:   %d\n", s.Accepted)
	fmt.Fprintf(w, "Duplicate:  %d\n", s.Duplicate)
	fmt.Fprintf(w, "Rejected:   %d\n", s.Rejected)
	fmt.Fprintf(w, "Failed:     %d\n", s.Failed)
	fmt.Fprintf(w, "Completed:  %d\n", s.Completed)
	fmt.Fprintf(w, "Job errors: %d\n", s.JobFailures)
	fmt.Fprintf(w, "Pending:    %d\n", s.Pending)
	fmt.Fprintf(w, "Duration:   %s\n", s.Duration.Round(time.Millisecond))
}
