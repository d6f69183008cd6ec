package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/interviewcoach/internal/domain/model"
)

// Client talks to a running interview coach server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap maps the response code back to a model error kind.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "bad_request":
		return model.ErrInvalidInput
	case "unauthorized":
		return model.ErrUnauthorized
	case "not_found":
		return model.ErrNotFound
	case "conflict":
		return model.ErrConflict
	case "backpressure":
		return model.ErrBackpressure
	case "unavailable":
		return model.ErrUnavailable
	}
	return nil
}

// Health checks that the server answers on /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, nil)
}

// Classify maps field to a category on the server.
func (c *Client) Classify(ctx context.Context, field string) (model.Category, error) {
	var out struct {
		Category model.Category `json:"category"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/classify", nil, map[string]string{"field": field}, &out); err != nil {
		return "", err
	}
	return out.Category, nil
}

// Questions requests a question set. A nil requested lets the server apply
// its default count.
func (c *Client) Questions(ctx context.Context, field string, requested *float64) (model.GeneratedQuestions, error) {
	body := map[string]interface{}{"field": field}
	if requested != nil {
		body["count"] = *requested
	}
	var out model.GeneratedQuestions
	err := c.do(ctx, http.MethodPost, "/api/questions", nil, body, &out)
	return out, err
}

// Analyze scores a transcript or file identity synchronously. Upload bytes
// are not sent; only the name and size travel.
func (c *Client) Analyze(ctx context.Context, req model.AnalysisRequest) (model.Analysis, error) {
	var out model.Analysis
	err := c.do(ctx, http.MethodPost, "/api/analyze", nil, analyzeBody(req), &out)
	return out, err
}

// Submit queues an analysis. duplicate reports a repeated idempotency key.
func (c *Client) Submit(ctx context.Context, req model.AnalysisRequest, key string) (job model.AnalysisJob, duplicate bool, err error) {
	var header http.Header
	if key != "" {
		header = http.Header{"Idempotency-Key": []string{key}}
	}
	status := 0
	err = c.doStatus(ctx, http.MethodPost, "/api/analyses", header, analyzeBody(req), &job, &status)
	return job, err == nil && status == http.StatusOK, err
}

// Job fetches a queued analysis.
func (c *Client) Job(ctx context.Context, id string) (model.AnalysisJob, error) {
	var out model.AnalysisJob
	err := c.do(ctx, http.MethodGet, "/api/analyses/"+id, nil, nil, &out)
	return out, err
}

type analyzeRequest struct {
	Field      string  `json:"field"`
	Transcript *string `json:"transcript,omitempty"`
	Filename   string  `json:"filename,omitempty"`
	Size       *int64  `json:"size,omitempty"`
}

func analyzeBody(req model.AnalysisRequest) analyzeRequest {
	body := analyzeRequest{Field: req.Field, Transcript: req.Transcript}
	if req.Upload != nil {
		size := req.Upload.Size
		body.Filename = req.Upload.Name
		body.Size = &size
	}
	return body
}

func (c *Client) do(ctx context.Context, method, path string, header http.Header, in, out interface{}) error {
	return c.doStatus(ctx, method, path, header, in, out, nil)
}

func (c *Client) doStatus(ctx context.Context, method, path string, header http.Header, in, out interface{}, status *int) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	if status != nil {
		*status = resp.StatusCode
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Code == "" {
			apiErr.Code = strings.ToLower(strings.ReplaceAll(http.StatusText(resp.StatusCode), " ", "_"))
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
