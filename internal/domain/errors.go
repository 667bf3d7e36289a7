package domain

import "errors"

var (
	// ErrEmbeddingFailure indicates the embedding provider was unreachable or returned invalid output.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrGenerationFailure indicates the answer provider was unreachable or returned invalid output.
	ErrGenerationFailure = errors.New("generation failure")

	// ErrDimensionMismatch indicates an embedding does not match the store's dimensionality.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEmptyQuery indicates a blank query was submitted.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrProviderNotFound indicates a provider name is not registered.
	ErrProviderNotFound = errors.New("provider not found")
)
