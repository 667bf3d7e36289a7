package domain

import "context"

// EmbeddingProvider maps text to a fixed-length vector.
type EmbeddingProvider interface {
	// Embed creates a vector embedding from text.
	Embed(ctx context.Context, text string) (Embedding, error)

	// Name returns the provider identifier.
	Name() string

	// Dimension returns the vector dimension produced by the configured model.
	Dimension() int
}

// AnswerProvider generates an answer for a query. Calls are assumed slow and costly.
type AnswerProvider interface {
	// Generate returns the generated answer text.
	Generate(ctx context.Context, query string) (string, error)

	// Name returns the provider identifier.
	Name() string
}

// VectorStore holds cache entries and answers nearest-neighbor queries.
// Writes must be atomic with respect to reads.
type VectorStore interface {
	// Insert appends a new entry.
	Insert(ctx context.Context, id string, embedding Embedding, document string) error

	// NearestNeighbors returns up to k entries ordered ascending by distance.
	// An empty store yields an empty slice.
	NearestNeighbors(ctx context.Context, query Embedding, k int) ([]Neighbor, error)

	// Reset creates the store if needed and removes every entry. It is idempotent.
	Reset(ctx context.Context) error

	// Len returns the number of stored entries.
	Len(ctx context.Context) (int, error)
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}
