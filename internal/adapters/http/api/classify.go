package api

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/okian/interviewcoach/internal/domain/model"
)

// ClassifyDependencies defines the interface for field classification.
type ClassifyDependencies interface {
	Classify(ctx context.Context, field string) (model.Category, error)
}

type classifyRequest struct {
	Field string `json:"field" validate:"required,max=200"`
}

type classifyResponse struct {
	Field    string         `json:"field"`
	Category model.Category `json:"category"`
}

// ClassifyHandler handles classification requests.
type ClassifyHandler struct {
	deps     ClassifyDependencies
	validate *validator.Validate
}

// NewClassifyHandler creates a new classify handler.
func NewClassifyHandler(deps ClassifyDependencies, v *validator.Validate) *ClassifyHandler {
	return &ClassifyHandler{deps: deps, validate: v}
}

// HandleClassify handles POST /api/classify requests.
func (h *ClassifyHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	const op = "api.classify"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req classifyRequest
	if err := decodeJSON(r, h.validate, op, &req); err != nil {
		writeKnownError(w, err)
		return
	}
	c, err := h.deps.Classify(r.Context(), req.Field)
	if err != nil {
		writeKnownError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, classifyResponse{Field: req.Field, Category: c})
}
