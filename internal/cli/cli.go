// Package cli implements coachctl, a command line front end for the
// interview coach. Commands run the scoring core in-process by default or
// talk to a running server when --server is set.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/interviewcoach/internal/app"
	"github.com/okian/interviewcoach/internal/domain/catalog"
	"github.com/okian/interviewcoach/internal/domain/model"
	"github.com/okian/interviewcoach/pkg/logger"
)

const defaultTimeout = 30 * time.Second

// Coach is the subset of the service used by the offline commands. Both the
// in-process service and the HTTP Client satisfy it.
type Coach interface {
	Classify(ctx context.Context, field string) (model.Category, error)
	Questions(ctx context.Context, field string, requested *float64) (model.GeneratedQuestions, error)
	Analyze(ctx context.Context, req model.AnalysisRequest) (model.Analysis, error)
}

// Options holds the persistent flags shared by every command.
type Options struct {
	Server      string
	Timeout     time.Duration
	Seed        int64
	CatalogPath string
	JSON        bool
}

// coachFactory builds the Coach a command runs against.
type coachFactory func(o *Options) (Coach, error)

// NewRootCommand returns the coachctl command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultCoach)
}

func newRootCommand(factory coachFactory) *cobra.Command {
	o := &Options{}
	root := &cobra.Command{
		Use:           "coachctl",
		Short:         "Interview coach command line",
		Long:          "coachctl classifies job fields, generates practice questions and scores answers, locally or against a running server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.Server, "server", "", "Base URL of a running server (default: run in-process)")
	pf.DurationVar(&o.Timeout, "timeout", defaultTimeout, "Request timeout")
	pf.Int64Var(&o.Seed, "seed", 0, "Seed for randomized selection (0 keeps selection deterministic)")
	pf.StringVar(&o.CatalogPath, "catalog", "", "YAML catalog overriding the built-in one")
	pf.BoolVar(&o.JSON, "json", false, "Print JSON output")

	root.AddCommand(
		newClassifyCommand(o, factory),
		newQuestionsCommand(o, factory),
		newScoreCommand(o, factory),
		newLoadCommand(o),
	)
	return root
}

// defaultCoach returns an HTTP client when a server is set and an
// unstarted in-process service otherwise.
func defaultCoach(o *Options) (Coach, error) {
	if o.Server != "" {
		return NewClient(o.Server, o.Timeout), nil
	}
	table, err := catalog.LoadOrDefault(o.CatalogPath)
	if err != nil {
		return nil, err
	}
	return service.New(
		service.WithCatalog(table),
		service.WithScoringSeed(o.Seed),
		service.WithLogger(logger.Nop()),
	), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
