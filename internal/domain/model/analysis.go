package model

import (
	"math"
	"time"
)

// Question count bounds applied by callers before generation.
const (
	MinQuestionCount     = 1
	MaxQuestionCount     = 20
	DefaultQuestionCount = 5
)

// Rating bounds for every AnalysisResult.
const (
	MinRating = 0.0
	MaxRating = 10.0
)

// ClampCount rounds requested and clamps it to [MinQuestionCount, max].
// A max outside [MinQuestionCount, MaxQuestionCount] is treated as MaxQuestionCount.
func ClampCount(requested float64, max int) int {
	if max < MinQuestionCount || max > MaxQuestionCount {
		max = MaxQuestionCount
	}
	if math.IsNaN(requested) {
		return MinQuestionCount
	}
	n := math.Round(requested)
	if n < MinQuestionCount {
		return MinQuestionCount
	}
	if n > float64(max) {
		return max
	}
	return int(n)
}

// QuestionSet is an ordered list of distinct interview questions.
type QuestionSet []string

// Mistake is a timestamped observation about the recording.
type Mistake struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// AnalysisResult is the critique returned for an interview answer.
type AnalysisResult struct {
	Rating   float64   `json:"rating"`
	Mistakes []Mistake `json:"mistakes"`
	Tips     []string  `json:"tips"`
	Summary  string    `json:"summary"`
}

// JobStatus is the lifecycle state of an asynchronous analysis.
type JobStatus string

// Job states.
const (
	JobPending   JobStatus = "pending"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// AnalysisJob tracks an analysis submitted for background processing.
type AnalysisJob struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id,omitempty"`
	Field     string          `json:"field"`
	Category  Category        `json:"category"`
	Source    SignalKind      `json:"source,omitempty"`
	Status    JobStatus       `json:"status"`
	Result    *AnalysisResult `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Question sources.
const (
	SourceTemplate = "template"
	SourceProvider = "provider"
)

// GeneratedQuestions is a QuestionSet with the context it was built for.
type GeneratedQuestions struct {
	Field     string      `json:"field"`
	Category  Category    `json:"category"`
	Questions QuestionSet `json:"questions"`
	Source    string      `json:"source"`
}

// Analysis is a synchronous analysis outcome. Source names the scoring path
// actually taken, which differs from the request when transcription failed.
type Analysis struct {
	Field    string     `json:"field"`
	Category Category   `json:"category"`
	Source   SignalKind `json:"source"`
	AnalysisResult
}
