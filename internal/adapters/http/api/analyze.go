package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/interviewcoach/internal/domain/model"
)

const (
	multipartMemory = 32 << 20
	// envelope allowed on top of the upload limit for form fields and framing
	bodySlack = 1 << 20
)

// AnalyzeDependencies defines the interface for analysis requests.
type AnalyzeDependencies interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (model.Analysis, error)
	Submit(ctx context.Context, req model.AnalysisRequest, key string) (model.AnalysisJob, bool, error)
	Job(ctx context.Context, id string) (model.AnalysisJob, error)
}

// analyzeRequest is the JSON form of an analysis. At most one of Transcript
// and Filename may be given; neither asks for the baseline critique.
type analyzeRequest struct {
	Field      string  `json:"field" validate:"required,max=200"`
	Transcript *string `json:"transcript"`
	Filename   string  `json:"filename" validate:"max=255"`
	Size       *int64  `json:"size" validate:"omitempty,min=0"`
}

// AnalyzeHandler handles synchronous and queued analyses.
type AnalyzeHandler struct {
	deps      AnalyzeDependencies
	validate  *validator.Validate
	maxUpload int64
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies, v *validator.Validate, maxUpload int64) *AnalyzeHandler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	return &AnalyzeHandler{deps: deps, validate: v, maxUpload: maxUpload}
}

// HandleAnalyze handles POST /api/analyze requests.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, err := h.readRequest(w, r, op)
	if err != nil {
		writeKnownError(w, err)
		return
	}
	out, err := h.deps.Analyze(r.Context(), req)
	if err != nil {
		writeKnownError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleSubmit handles POST /api/analyses requests.
func (h *AnalyzeHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_analysis"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, err := h.readRequest(w, r, op)
	if err != nil {
		writeKnownError(w, err)
		return
	}
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	job, duplicate, err := h.deps.Submit(r.Context(), req, key)
	if err != nil {
		writeKnownError(w, err)
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, job)
		return
	}
	w.Header().Set("Location", "/api/analyses/"+job.ID)
	writeJSON(w, http.StatusAccepted, job)
}

// HandleGetJob handles GET /api/analyses/{id} requests.
func (h *AnalyzeHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_analysis"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/analyses/")
	if id == "" || strings.Contains(id, "/") {
		writeKnownError(w, NewKind(op, ErrBadRequest))
		return
	}
	job, err := h.deps.Job(r.Context(), id)
	if err != nil {
		writeKnownError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// readRequest resolves the body into an AnalysisRequest. JSON bodies carry a
// transcript or a file identity; multipart bodies carry the recording itself.
func (h *AnalyzeHandler) readRequest(w http.ResponseWriter, r *http.Request, op string) (model.AnalysisRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+bodySlack)

	var req model.AnalysisRequest
	var err error
	if isMultipart(r) {
		req, err = h.readMultipart(r, op)
	} else {
		req, err = h.readJSON(r, op)
	}
	if err != nil {
		return model.AnalysisRequest{}, err
	}
	if userID, ok := UserIDFromContext(r.Context()); ok {
		req.UserID = userID
	}
	return req, nil
}

func (h *AnalyzeHandler) readJSON(r *http.Request, op string) (model.AnalysisRequest, error) {
	var body analyzeRequest
	if err := decodeJSON(r, h.validate, op, &body); err != nil {
		return model.AnalysisRequest{}, err
	}
	req := model.AnalysisRequest{Field: body.Field}
	switch {
	case body.Transcript != nil && body.Filename != "":
		return model.AnalysisRequest{}, WrapKind(op, ErrBadRequest, errors.New("send either transcript or filename, not both"))
	case body.Transcript != nil:
		req.Transcript = body.Transcript
	case (body.Filename == "") != (body.Size == nil):
		return model.AnalysisRequest{}, WrapKind(op, ErrBadRequest, errors.New("filename and size must be sent together"))
	case body.Filename != "":
		if *body.Size > h.maxUpload {
			return model.AnalysisRequest{}, WrapKind(op, ErrPayloadTooLarge, fmt.Errorf("recording exceeds %d bytes", h.maxUpload))
		}
		req.Upload = &model.Upload{Name: body.Filename, Size: *body.Size}
	}
	return req, nil
}

func (h *AnalyzeHandler) readMultipart(r *http.Request, op string) (model.AnalysisRequest, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.AnalysisRequest{}, WrapKind(op, ErrPayloadTooLarge, err)
		}
		return model.AnalysisRequest{}, WrapKind(op, ErrBadRequest, err)
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	field := r.FormValue("field")
	if err := h.validate.Var(field, "required,max=200"); err != nil {
		return model.AnalysisRequest{}, WrapKind(op, ErrBadRequest, errors.New("field failed required"))
	}
	req := model.AnalysisRequest{Field: field}

	file, header, err := r.FormFile("video")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		if vals, ok := r.MultipartForm.Value["transcript"]; ok && len(vals) > 0 {
			t := vals[0]
			req.Transcript = &t
		}
		return req, nil
	case err != nil:
		return model.AnalysisRequest{}, WrapKind(op, ErrBadRequest, err)
	}
	defer func() { _ = file.Close() }()

	if _, ok := r.MultipartForm.Value["transcript"]; ok {
		return model.AnalysisRequest{}, WrapKind(op, ErrBadRequest, errors.New("send either transcript or video, not both"))
	}
	if header.Size > h.maxUpload {
		return model.AnalysisRequest{}, WrapKind(op, ErrPayloadTooLarge, fmt.Errorf("recording exceeds %d bytes", h.maxUpload))
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return model.AnalysisRequest{}, WrapKind(op, ErrBadRequest, err)
	}
	req.Upload = &model.Upload{
		Name: header.Filename,
		Size: header.Size,
		MIME: header.Header.Get("Content-Type"),
		Data: data,
	}
	return req, nil
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}
