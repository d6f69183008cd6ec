package api

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/interviewcoach/internal/domain/model"
)

// QuestionsDependencies defines the interface for question generation.
type QuestionsDependencies interface {
	Questions(ctx context.Context, field string, requested *float64) (model.GeneratedQuestions, error)
}

// questionsRequest accepts count as a number or numeric string; anything
// else falls back to the default count.
type questionsRequest struct {
	Field string `json:"field" validate:"required,max=200"`
	Count any    `json:"count"`
}

// QuestionsHandler handles question generation requests.
type QuestionsHandler struct {
	deps     QuestionsDependencies
	validate *validator.Validate
}

// NewQuestionsHandler creates a new questions handler.
func NewQuestionsHandler(deps QuestionsDependencies, v *validator.Validate) *QuestionsHandler {
	return &QuestionsHandler{deps: deps, validate: v}
}

// HandleQuestions handles POST /api/questions requests.
func (h *QuestionsHandler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	const op = "api.questions"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req questionsRequest
	if err := decodeJSON(r, h.validate, op, &req); err != nil {
		writeKnownError(w, err)
		return
	}
	out, err := h.deps.Questions(r.Context(), req.Field, parseCount(req.Count))
	if err != nil {
		writeKnownError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// parseCount returns nil for a missing or non-numeric count.
func parseCount(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = p
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
