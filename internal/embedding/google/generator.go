// Package google embeds text with the Gemini embeddings API.
package google

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/davidbz/semcache/internal/domain"
	"github.com/davidbz/semcache/internal/observability"
)

const (
	defaultModel     = "text-embedding-004"
	defaultDimension = 768

	// Stored answers are retrieved by later queries.
	taskTypeRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// Compile-time interface check.
var _ domain.EmbeddingProvider = (*Generator)(nil)

// Generator generates embeddings using the Gemini API.
type Generator struct {
	client    *genai.Client
	model     string
	dimension int
}

// NewGenerator creates a new Gemini embedding generator.
func NewGenerator(config Config) (*Generator, error) {
	if config.APIKey == "" {
		return nil, errors.New("Google API key is required")
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Dimension == 0 {
		config.Dimension = defaultDimension
	}
	if config.Dimension < 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", config.Dimension)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      config.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: config.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Generator{
		client:    client,
		model:     config.Model,
		dimension: config.Dimension,
	}, nil
}

// Embed creates a vector embedding from text.
func (g *Generator) Embed(ctx context.Context, text string) (domain.Embedding, error) {
	if text == "" {
		return nil, errors.New("text cannot be empty")
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), &genai.EmbedContentConfig{
		TaskType:             taskTypeRetrievalDocument,
		OutputDimensionality: genai.Ptr(int32(g.dimension)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}

	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, errors.New("no embeddings returned")
	}

	values := resp.Embeddings[0].Values
	observability.FromContext(ctx).Debug("gemini embedding created",
		observability.String("model", g.model),
		observability.Int("dimension", len(values)))

	return domain.EmbeddingFromFloat32(values), nil
}

// Name returns the generator identifier.
func (g *Generator) Name() string {
	return "google"
}

// Dimension returns the configured output dimensionality.
func (g *Generator) Dimension() int {
	return g.dimension
}
