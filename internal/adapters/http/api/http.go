// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/interviewcoach/internal/domain/model"
	"github.com/okian/interviewcoach/pkg/logger"
)

const defaultMaxUploadBytes = 50 << 20

// Coach is the practice feature set behind the API.
type Coach interface {
	Classify(ctx context.Context, field string) (model.Category, error)
	// Questions uses the configured default count when requested is nil.
	Questions(ctx context.Context, field string, requested *float64) (model.GeneratedQuestions, error)
	Analyze(ctx context.Context, req model.AnalysisRequest) (model.Analysis, error)
	// Submit queues an analysis. A repeated non-empty key returns the
	// existing job and true.
	Submit(ctx context.Context, req model.AnalysisRequest, key string) (model.AnalysisJob, bool, error)
	Job(ctx context.Context, id string) (model.AnalysisJob, error)
}

// Accounts is the account feature set behind the API.
type Accounts interface {
	Signup(ctx context.Context, name, email, password string) (model.User, string, error)
	Login(ctx context.Context, email, password string) (model.User, string, error)
	Authenticate(token string) (string, error)
	Sessions(ctx context.Context, userID string, limit int) ([]model.Session, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Coach
	Accounts
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	classifyHandler *ClassifyHandler
	questionHandler *QuestionsHandler
	analyzeHandler  *AnalyzeHandler
	authHandler     *AuthHandler
	auth            *Authenticator
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	maxUploadBytes int64
}

// WithMaxUploadBytes bounds the size of an uploaded recording.
func WithMaxUploadBytes(n int64) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxUploadBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := serverConfig{maxUploadBytes: defaultMaxUploadBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	v := newValidator()
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider, cfg.maxUploadBytes),
		classifyHandler: NewClassifyHandler(deps, v),
		questionHandler: NewQuestionsHandler(deps, v),
		analyzeHandler:  NewAnalyzeHandler(deps, v, cfg.maxUploadBytes),
		authHandler:     NewAuthHandler(deps, v),
		auth:            NewAuthenticator(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/classify", MetricsMiddleware(s.classifyHandler.HandleClassify, "classify"))
	mux.HandleFunc("/api/questions", MetricsMiddleware(s.questionHandler.HandleQuestions, "questions"))
	mux.HandleFunc("/api/analyze", MetricsMiddleware(s.auth.Optional(s.analyzeHandler.HandleAnalyze), "analyze"))
	mux.HandleFunc("/api/analyses", MetricsMiddleware(s.auth.Optional(s.analyzeHandler.HandleSubmit), "analyses"))
	mux.HandleFunc("/api/analyses/", MetricsMiddleware(s.analyzeHandler.HandleGetJob, "analysis"))
	mux.HandleFunc("/api/auth/signup", MetricsMiddleware(s.authHandler.HandleSignup, "signup"))
	mux.HandleFunc("/api/auth/login", MetricsMiddleware(s.authHandler.HandleLogin, "login"))
	mux.HandleFunc("/api/sessions", MetricsMiddleware(s.auth.Required(s.authHandler.HandleSessions), "sessions"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Server errors keep their cause in the log, not the response.
func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	switch {
	case err == nil:
	case status >= http.StatusInternalServerError:
		logger.Named("api").Error(context.Background(), "request failed",
			logger.Int("status", status), logger.Error(err))
	default:
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeKnownError maps an error kind to its HTTP status and code.
func writeKnownError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	case errors.Is(err, ErrMissingToken), errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, model.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, model.ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// decodeJSON reads a JSON body into dst and validates its tags.
func decodeJSON(r *http.Request, v *validator.Validate, op string, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return WrapKind(op, ErrPayloadTooLarge, err)
		}
		return WrapKind(op, ErrBadRequest, err)
	}
	if err := v.Struct(dst); err != nil {
		return WrapKind(op, ErrBadRequest, validationMessage(err))
	}
	return nil
}

// validationMessage reports the first failing field.
func validationMessage(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return fmt.Errorf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return err
}
