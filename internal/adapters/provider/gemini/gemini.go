// Package gemini implements the provider backend on the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/okian/interviewcoach/internal/adapters/provider"
	"github.com/okian/interviewcoach/internal/domain/model"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.5-flash"

	defaultMIME = "video/mp4"
	name        = "gemini"
)

// generator is the part of *genai.Models the client needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client generates questions and transcripts through Gemini.
type Client struct {
	models      generator
	model       string
	temperature float32
}

// Option configures a Client.
type Option func(*Client)

// WithModel selects the model name.
func WithModel(m string) Option {
	return func(c *Client) {
		if m = strings.TrimSpace(m); m != "" {
			c.model = m
		}
	}
}

// WithTemperature sets the sampling temperature for question generation.
func WithTemperature(t float32) Option {
	return func(c *Client) {
		if t >= 0 {
			c.temperature = t
		}
	}
}

// New connects to the Gemini API with apiKey.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: %w: missing api key", provider.ErrUnavailable)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newClient(gc.Models, opts...), nil
}

func newClient(g generator, opts ...Option) *Client {
	c := &Client{models: g, model: DefaultModel, temperature: 0.7}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements provider.Backend.
func (c *Client) Name() string { return name }

// GenerateQuestions asks the model for count questions, one per line.
func (c *Client) GenerateQuestions(ctx context.Context, cat model.Category, field string, count int) ([]string, error) {
	prompt := fmt.Sprintf(
		"You are an interviewer for a %s role (category: %s). "+
			"Write %d distinct interview questions. "+
			"Return one question per line, each ending with a question mark, with no numbering or commentary.",
		field, cat, count)

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: generate questions: %w", err)
	}
	if resp == nil {
		return nil, provider.ErrEmptyResponse
	}
	qs := provider.ParseQuestions(resp.Text(), count)
	if len(qs) == 0 {
		return nil, provider.ErrEmptyResponse
	}
	return qs, nil
}

// Transcribe sends the recording inline and returns the spoken words.
func (c *Client) Transcribe(ctx context.Context, upload model.Upload) (string, error) {
	if len(upload.Data) == 0 {
		return "", provider.ErrNoMedia
	}
	mime := upload.MIME
	if mime == "" || mime == "application/octet-stream" {
		mime = defaultMIME
	}
	parts := []*genai.Part{
		genai.NewPartFromText("Transcribe the speech in this recording verbatim. Return only the transcript text. " +
			"If nobody speaks, return an empty response."),
		genai.NewPartFromBytes(upload.Data, mime),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini: transcribe: %w", err)
	}
	if resp == nil {
		return "", provider.ErrEmptyResponse
	}
	return provider.CleanText(resp.Text()), nil
}
