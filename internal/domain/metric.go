package domain

import (
	"fmt"
	"math"
)

// Metric names the distance function used by a vector store.
// The similarity threshold is only meaningful for the metric it was tuned against.
type Metric string

const (
	// MetricEuclidean is the L2 distance (not squared). The default threshold of
	// 0.3 is tuned for L2 over unit-normalised embeddings.
	MetricEuclidean Metric = "euclidean"

	// MetricCosine is the cosine distance, 1 - cos(a, b), in [0, 2].
	MetricCosine Metric = "cosine"
)

// ParseMetric validates a metric name.
func ParseMetric(name string) (Metric, error) {
	switch Metric(name) {
	case MetricEuclidean, MetricCosine:
		return Metric(name), nil
	default:
		return "", fmt.Errorf("unsupported distance metric: %q", name)
	}
}

// Distance computes the metric between two vectors of equal length.
func (m Metric) Distance(a, b Embedding) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	switch m {
	case MetricCosine:
		return cosineDistance(a, b), nil
	case MetricEuclidean, "":
		return euclideanDistance(a, b), nil
	default:
		return 0, fmt.Errorf("unsupported distance metric: %q", string(m))
	}
}

func euclideanDistance(a, b Embedding) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// cosineDistance treats a zero vector as orthogonal to everything.
func cosineDistance(a, b Embedding) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 1
	}
	return 1 - dot/denom
}

// ValidateEmbedding rejects empty vectors and non-finite components.
func ValidateEmbedding(e Embedding) error {
	if len(e) == 0 {
		return fmt.Errorf("%w: empty embedding", ErrDimensionMismatch)
	}
	for i, v := range e {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("embedding component %d is not finite", i)
		}
	}
	return nil
}
