// Package llm implements the completion client port against the Gemini API.
package llm

import (
	"context"
	"time"

	genai "google.golang.org/genai"

	"github.com/ludo-technologies/docaudit/domain"
)

// Retry and deadline policy for provider calls. The timeout bounds each call
// separately; transient failures (429/5xx, network) get bounded retries.
const (
	DefaultMaxRetries  = 3
	initialBackoff     = 300 * time.Millisecond
	DefaultTimeoutSecs = 120
)

// GeminiClient is a thin wrapper around the official genai client. The API
// key is taken from the environment (GEMINI_API_KEY / GOOGLE_API_KEY).
type GeminiClient struct {
	cli        *genai.Client
	maxRetries int
	timeout    time.Duration
}

// NewGeminiClient creates a completion client backed by the Gemini API
func NewGeminiClient(ctx context.Context) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, domain.NewTransportError("failed to create Gemini client", err)
	}
	return &GeminiClient{
		cli:        cli,
		maxRetries: DefaultMaxRetries,
		timeout:    DefaultTimeoutSecs * time.Second,
	}, nil
}

// SetMaxRetries overrides the bounded retry count
func (g *GeminiClient) SetMaxRetries(n int) {
	if n > 0 {
		g.maxRetries = n
	}
}

// SetTimeout overrides the per-call deadline. The budget applies to each
// provider call separately, so batch size never eats into it.
func (g *GeminiClient) SetTimeout(seconds int) {
	if seconds > 0 {
		g.timeout = time.Duration(seconds) * time.Second
	}
}

// attemptContext derives the deadline-bounded context for one provider call
func (g *GeminiClient) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

// Name identifies the provider
func (g *GeminiClient) Name() string {
	return "gemini"
}

// Close releases client resources
func (g *GeminiClient) Close() error {
	return nil
}

// Complete submits the prompt and returns the raw completion text. Transient
// failures are retried with exponential backoff; exhausted retries surface as
// a TRANSPORT_ERROR, which aborts the run.
func (g *GeminiClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		},
	}
	contents := []*genai.Content{{Parts: []*genai.Part{{Text: req.User}}}}

	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", domain.NewTransportError("completion cancelled", ctx.Err())
			case <-time.After(initialBackoff * (1 << (attempt - 1))):
			}
		}

		attemptCtx, cancel := g.attemptContext(ctx)
		resp, err := g.cli.Models.GenerateContent(attemptCtx, req.Model, contents, cfg)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
			len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = domain.NewTransportError("empty completion from provider", nil)
			continue
		}
		return resp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", domain.NewTransportError("completion failed after retries", lastErr)
}
