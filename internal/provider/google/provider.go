// Package google provides an answer provider backed by the Gemini API.
package google

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/davidbz/semcache/internal/domain"
	"github.com/davidbz/semcache/internal/observability"
)

const defaultModel = "gemini-1.5-flash"

// Compile-time interface check.
var _ domain.AnswerProvider = (*Provider)(nil)

// Provider implements domain.AnswerProvider using Gemini.
type Provider struct {
	client *genai.Client
	model  string
}

// NewProvider creates a new Gemini provider. Returns an error if the API key is missing.
func NewProvider(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("Google API key is required")
	}
	if config.Model == "" {
		config.Model = defaultModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      config.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: config.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Provider{client: client, model: config.Model}, nil
}

// Generate sends the query as a single user turn and returns the response text.
func (p *Provider) Generate(ctx context.Context, query string) (string, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("calling Gemini API", observability.String("model", p.model))

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(query), nil)
	if err != nil {
		logger.Error("Gemini API call failed", observability.Error(err))
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("Gemini returned no candidates")
	}

	if usage := resp.UsageMetadata; usage != nil {
		logger.Debug("Gemini API call succeeded",
			observability.Int("prompt_tokens", int(usage.PromptTokenCount)),
			observability.Int("completion_tokens", int(usage.CandidatesTokenCount)))
	}

	return resp.Text(), nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "google"
}
