package api

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/okian/interviewcoach/internal/domain/model"
	"github.com/okian/interviewcoach/pkg/metrics"
)

const (
	defaultSessionLimit = 50
	maxSessionLimit     = 500
)

type signupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

type sessionsResponse struct {
	Sessions []model.Session `json:"sessions"`
}

// AuthHandler handles account requests.
type AuthHandler struct {
	deps     Accounts
	validate *validator.Validate
}

// NewAuthHandler creates a new account handler.
func NewAuthHandler(deps Accounts, v *validator.Validate) *AuthHandler {
	return &AuthHandler{deps: deps, validate: v}
}

// HandleSignup handles POST /api/auth/signup requests.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	const op = "api.signup"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req signupRequest
	if err := decodeJSON(r, h.validate, op, &req); err != nil {
		metrics.RecordAuthEvent("signup", "invalid")
		writeKnownError(w, err)
		return
	}
	user, token, err := h.deps.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		metrics.RecordAuthEvent("signup", "rejected")
		writeKnownError(w, err)
		return
	}
	metrics.RecordAuthEvent("signup", "ok")
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

// HandleLogin handles POST /api/auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "api.login"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req loginRequest
	if err := decodeJSON(r, h.validate, op, &req); err != nil {
		metrics.RecordAuthEvent("login", "invalid")
		writeKnownError(w, err)
		return
	}
	user, token, err := h.deps.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		metrics.RecordAuthEvent("login", "rejected")
		writeKnownError(w, err)
		return
	}
	metrics.RecordAuthEvent("login", "ok")
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

// HandleSessions handles GET /api/sessions requests. It must run behind
// Authenticator.Required.
func (h *AuthHandler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	const op = "api.sessions"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeKnownError(w, NewKind(op, ErrMissingToken))
		return
	}
	limit := defaultSessionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeKnownError(w, NewKind(op, ErrBadRequest))
			return
		}
		limit = min(n, maxSessionLimit)
	}
	sessions, err := h.deps.Sessions(r.Context(), userID, limit)
	if err != nil {
		writeKnownError(w, err)
		return
	}
	if sessions == nil {
		sessions = []model.Session{}
	}
	writeJSON(w, http.StatusOK, sessionsResponse{Sessions: sessions})
}
