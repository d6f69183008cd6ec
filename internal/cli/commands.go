package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/interviewcoach/internal/domain/model"
	"github.com/okian/interviewcoach/internal/domain/scoring"
)

func newClassifyCommand(o *Options, factory coachFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <field>",
		Short: "Print the category of a job field",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coach, err := factory(o)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), o.Timeout)
			defer cancel()

			field := strings.Join(args, " ")
			c, err := coach.Classify(ctx, field)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if o.JSON {
				return printJSON(out, map[string]interface{}{"field": strings.TrimSpace(field), "category": c})
			}
			fmt.Fprintln(out, c)
			return nil
		},
	}
}

func newQuestionsCommand(o *Options, factory coachFactory) *cobra.Command {
	var count float64
	cmd := &cobra.Command{
		Use:   "questions <field>",
		Short: "Generate practice questions for a job field",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coach, err := factory(o)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), o.Timeout)
			defer cancel()

			var requested *float64
			if cmd.Flags().Changed("count") {
				requested = &count
			}
			qs, err := coach.Questions(ctx, strings.Join(args, " "), requested)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if o.JSON {
				return printJSON(out, qs)
			}
			fmt.Fprintf(out, "%s (%s, %s)\n", qs.Field, qs.Category, qs.Source)
			for i, q := range qs.Questions {
				fmt.Fprintf(out, "%2d. %s\n", i+1, q)
			}
			return nil
		},
	}
	cmd.Flags().Float64VarP(&count, "count", "n", model.DefaultQuestionCount, "Number of questions (clamped to 1..20)")
	return cmd
}

func newScoreCommand(o *Options, factory coachFactory) *cobra.Command {
	var (
		transcript string
		file       string
		size       int64
	)
	cmd := &cobra.Command{
		Use:   "score <field>",
		Short: "Score an answer given a transcript, a file identity, or nothing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			hasText := flags.Changed("transcript")
			hasFile := flags.Changed("file") || flags.Changed("size")
			if hasText && hasFile {
				return errors.New("--transcript cannot be combined with --file/--size")
			}
			if hasFile && (file == "" || !flags.Changed("size")) {
				return errors.New("--file and --size must be given together")
			}
			if size < 0 {
				return errors.New("--size must not be negative")
			}

			req := model.AnalysisRequest{Field: strings.Join(args, " ")}
			switch {
			case hasText:
				req.Transcript = &transcript
			case hasFile:
				req.Upload = &model.Upload{Name: file, Size: size}
			}

			coach, err := factory(o)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), o.Timeout)
			defer cancel()

			a, err := coach.Analyze(ctx, req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if o.JSON {
				return printJSON(out, a)
			}
			printAnalysis(out, a)
			return nil
		},
	}
	cmd.Flags().StringVarP(&transcript, "transcript", "t", "", "Answer transcript")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Recording file name")
	cmd.Flags().Int64Var(&size, "size", 0, "Recording size in bytes")
	return cmd
}

func printAnalysis(w io.Writer, a model.Analysis) {
	fmt.Fprintf(w, "%s (%s) scored %.1f/10 [%s]\n", a.Field, a.Category, a.Rating, scoring.Band(a.Rating))
	fmt.Fprintln(w, a.Summary)
	if len(a.Mistakes) > 0 {
		fmt.Fprintln(w, "\nMistakes:")
		for _, m := range a.Mistakes {
			fmt.Fprintf(w, "  %5s  %s\n", m.Timestamp, m.Text)
		}
	}
	if len(a.Tips) > 0 {
		fmt.Fprintln(w, "\nTips:")
		for _, t := range a.Tips {
			fmt.Fprintf(w, "  - %s\n", t)
		}
	}
}
