// Package provider adapts external text-generation services. Their output
// only ever becomes input to the offline generators: question text or a
// transcript that is scored locally.
package provider

import (
	"context"
	"strings"

	"github.com/okian/interviewcoach/internal/domain/model"
)

// QuestionProvider produces interview questions for a field.
type QuestionProvider interface {
	GenerateQuestions(ctx context.Context, c model.Category, field string, count int) ([]string, error)
}

// Transcriber turns recorded media into text.
type Transcriber interface {
	Transcribe(ctx context.Context, upload model.Upload) (string, error)
}

// Backend is a named provider able to do both.
type Backend interface {
	QuestionProvider
	Transcriber
	Name() string
}

// CleanText strips a surrounding markdown code fence and whitespace.
func CleanText(input string) string {
	clean := strings.TrimSpace(input)
	if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
		// drop an info string such as ```text
		if i := strings.IndexAny(clean, "\r\n"); i >= 0 && !strings.Contains(clean[:i], " ") {
			clean = clean[i:]
		}
		clean = strings.TrimLeft(clean, "\r\n")
		clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	}
	return strings.TrimSpace(clean)
}

// ParseQuestions extracts at most limit distinct questions from free text.
// Only lines ending in '?' survive; list markers and numbering are removed.
func ParseQuestions(text string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	seen := make(map[string]struct{})
	out := make([]string, 0, limit)
	for _, line := range strings.Split(CleanText(text), "\n") {
		q := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•0123456789.) \t"))
		q = strings.Trim(q, "\"")
		if !strings.HasSuffix(q, "?") || len(q) < 2 {
			continue
		}
		key := strings.ToLower(q)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
		if len(out) == limit {
			break
		}
	}
	return out
}
