package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/semcache/internal/domain"
)

func TestParseMetric(t *testing.T) {
	metric, err := domain.ParseMetric("cosine")
	require.NoError(t, err)
	require.Equal(t, domain.MetricCosine, metric)

	_, err = domain.ParseMetric("manhattan")
	require.ErrorContains(t, err, "unsupported distance metric")
}

func TestMetric_Distance(t *testing.T) {
	tests := []struct {
		name     string
		metric   domain.Metric
		a, b     domain.Embedding
		expected float64
	}{
		{name: "euclidean identical", metric: domain.MetricEuclidean, a: domain.Embedding{1, 0}, b: domain.Embedding{1, 0}, expected: 0},
		{name: "euclidean orthogonal", metric: domain.MetricEuclidean, a: domain.Embedding{1, 0}, b: domain.Embedding{0, 1}, expected: math.Sqrt2},
		{name: "default metric is euclidean", metric: "", a: domain.Embedding{0, 0}, b: domain.Embedding{3, 4}, expected: 5},
		{name: "cosine ignores magnitude", metric: domain.MetricCosine, a: domain.Embedding{1, 0}, b: domain.Embedding{5, 0}, expected: 0},
		{name: "cosine opposite", metric: domain.MetricCosine, a: domain.Embedding{1, 0}, b: domain.Embedding{-1, 0}, expected: 2},
		{name: "cosine zero vector", metric: domain.MetricCosine, a: domain.Embedding{0, 0}, b: domain.Embedding{1, 0}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			distance, err := tt.metric.Distance(tt.a, tt.b)
			require.NoError(t, err)
			require.InDelta(t, tt.expected, distance, 1e-9)
		})
	}
}

func TestMetric_Distance_Errors(t *testing.T) {
	_, err := domain.MetricEuclidean.Distance(domain.Embedding{1}, domain.Embedding{1, 0})
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = domain.Metric("hamming").Distance(domain.Embedding{1}, domain.Embedding{1})
	require.ErrorContains(t, err, "unsupported distance metric")
}

func TestValidateEmbedding(t *testing.T) {
	require.NoError(t, domain.ValidateEmbedding(domain.Embedding{0, 0}))
	require.ErrorIs(t, domain.ValidateEmbedding(nil), domain.ErrDimensionMismatch)
	require.Error(t, domain.ValidateEmbedding(domain.Embedding{math.NaN()}))
}

func TestEmbedding_Conversions(t *testing.T) {
	original := domain.Embedding{0.5, -0.25}

	clone := original.Clone()
	clone[0] = 9
	require.InDelta(t, 0.5, original[0], 1e-12)

	require.Equal(t, original, domain.EmbeddingFromFloat32(original.Float32()))
	require.Nil(t, domain.Embedding(nil).Clone())
}
