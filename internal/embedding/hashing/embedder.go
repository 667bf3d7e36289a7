// Package hashing embeds text offline with signed feature hashing over words
// and character trigrams. Vectors are L2-normalised.
package hashing

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"

	"github.com/davidbz/semcache/internal/domain"
)

const (
	defaultDimension = 384
	trigramSize      = 3

	// Word features dominate character trigrams.
	wordWeight    = 1.0
	trigramWeight = 0.5
)

// Config holds configuration for the hashing embedder.
type Config struct {
	Dimension int `env:"HASHING_DIMENSION" envDefault:"384"`
}

// Compile-time interface check.
var _ domain.EmbeddingProvider = (*Embedder)(nil)

// Embedder maps text to a fixed-size vector by hashing word and character
// trigram features into signed buckets.
type Embedder struct {
	dimension int
}

// NewEmbedder creates a hashing embedder.
func NewEmbedder(config Config) (*Embedder, error) {
	if config.Dimension == 0 {
		config.Dimension = defaultDimension
	}
	if config.Dimension < 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", config.Dimension)
	}
	return &Embedder{dimension: config.Dimension}, nil
}

// Embed creates a vector embedding from text. Text without any letters or
// digits yields the zero vector.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.Embedding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vector := make(domain.Embedding, e.dimension)
	for _, word := range tokenize(text) {
		e.add(vector, "w:"+word, wordWeight)
		for _, gram := range trigrams(word) {
			e.add(vector, "t:"+gram, trigramWeight)
		}
	}

	normalize(vector)
	return vector, nil
}

// Name returns the embedder identifier.
func (e *Embedder) Name() string {
	return "hashing"
}

// Dimension returns the vector dimension.
func (e *Embedder) Dimension() int {
	return e.dimension
}

func (e *Embedder) add(vector domain.Embedding, feature string, weight float64) {
	h := xxhash.Sum64String(feature)
	bucket := int(h % uint64(e.dimension))
	if h>>63 == 1 {
		weight = -weight
	}
	vector[bucket] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// trigrams returns the character trigrams of the word padded with boundary markers.
func trigrams(word string) []string {
	runes := []rune("^" + word + "$")
	if len(runes) < trigramSize {
		return nil
	}
	grams := make([]string, 0, len(runes)-trigramSize+1)
	for i := 0; i+trigramSize <= len(runes); i++ {
		grams = append(grams, string(runes[i:i+trigramSize]))
	}
	return grams
}

func normalize(vector domain.Embedding) {
	var sum float64
	for _, v := range vector {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vector {
		vector[i] /= norm
	}
}
