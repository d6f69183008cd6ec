// Command coachctl classifies job fields, generates practice questions and
// scores answers from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/okian/interviewcoach/internal/cli"
	"github.com/okian/interviewcoach/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	_ = logger.SetLevelString(os.Getenv("COACH_LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
