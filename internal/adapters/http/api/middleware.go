package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/interviewcoach/pkg/metrics"
)

// HTTP status code constants.
const (
	statusBadRequest      = 400
	statusUnauthorized    = 401
	statusNotFound        = 404
	statusTooManyRequests = 429
	statusInternalError   = 500
)

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Milliseconds())
		statusCodeStr := strconv.Itoa(wrapped.statusCode)
		metrics.RecordHTTPRequest(endpoint, r.Method, statusCodeStr)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, statusCodeStr, durationMs)

		if wrapped.statusCode >= statusBadRequest {
			metrics.RecordErrorByComponent("http", getErrorType(wrapped.statusCode))
		}
	}
}

// getErrorType returns a standardized error type based on HTTP status code.
func getErrorType(statusCode int) string {
	switch {
	case statusCode >= statusInternalError:
		return "server_error"
	case statusCode == statusTooManyRequests:
		return "rate_limit"
	case statusCode == statusNotFound:
		return "not_found"
	case statusCode == statusUnauthorized:
		return "unauthorized"
	case statusCode >= statusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}

// TokenValidator resolves a bearer token to a user ID.
type TokenValidator interface {
	Authenticate(token string) (string, error)
}

type userIDKey struct{}

// UserIDFromContext returns the authenticated user, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// Authenticator attaches the bearer token's user to the request context.
type Authenticator struct {
	tokens TokenValidator
}

// NewAuthenticator creates bearer-token middleware over tokens.
func NewAuthenticator(tokens TokenValidator) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Optional passes anonymous requests through but rejects a bad token.
func (a *Authenticator) Optional(next http.HandlerFunc) http.HandlerFunc {
	return a.wrap(next, false)
}

// Required rejects requests without a valid token.
func (a *Authenticator) Required(next http.HandlerFunc) http.HandlerFunc {
	return a.wrap(next, true)
}

func (a *Authenticator) wrap(next http.HandlerFunc, required bool) http.HandlerFunc {
	const op = "api.authenticate"
	return func(w http.ResponseWriter, r *http.Request) {
		token, present := bearerToken(r)
		if !present {
			if required {
				metrics.RecordAuthEvent("token", "missing")
				writeKnownError(w, NewKind(op, ErrMissingToken))
				return
			}
			next(w, r)
			return
		}
		userID, err := a.tokens.Authenticate(token)
		if err != nil {
			metrics.RecordAuthEvent("token", "rejected")
			writeKnownError(w, fmt.Errorf("%s: %w", op, err))
			return
		}
		metrics.RecordAuthEvent("token", "accepted")
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID)))
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// A header in any other shape counts as present but empty.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.Fields(h)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", true
	}
	return parts[1], true
}
