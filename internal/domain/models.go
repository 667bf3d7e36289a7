package domain

import "time"

// Embedding is a fixed-length vector produced from a piece of text.
// Embeddings are never mutated after creation.
type Embedding []float64

// Dimension returns the vector length.
func (e Embedding) Dimension() int {
	return len(e)
}

// Clone returns a copy that does not share memory with e.
func (e Embedding) Clone() Embedding {
	if e == nil {
		return nil
	}
	out := make(Embedding, len(e))
	copy(out, e)
	return out
}

// Float32 converts the embedding to float32 for backends that store single precision.
func (e Embedding) Float32() []float32 {
	out := make([]float32, len(e))
	for i, v := range e {
		out[i] = float32(v)
	}
	return out
}

// EmbeddingFromFloat32 converts a single precision vector into an Embedding.
func EmbeddingFromFloat32(values []float32) Embedding {
	out := make(Embedding, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// CacheEntry is a stored answer together with the embedding of the query that produced it.
type CacheEntry struct {
	ID        string    `json:"id"`
	Embedding Embedding `json:"-"`
	Document  string    `json:"document"`
	CreatedAt time.Time `json:"created_at"`
}

// Neighbor is a single nearest-neighbor search result.
type Neighbor struct {
	ID       string  `json:"id"`
	Distance float64 `json:"distance"`
	Document string  `json:"document"`
}

// Decision classifies how a query was answered.
type Decision string

const (
	// DecisionHit means a stored answer was reused.
	DecisionHit Decision = "HIT"

	// DecisionMiss means the answer provider was called and its answer stored.
	DecisionMiss Decision = "MISS"
)

// IsHit reports whether the decision is a cache hit.
func (d Decision) IsHit() bool {
	return d == DecisionHit
}

// QueryOutcome is the result of resolving a single query.
type QueryOutcome struct {
	Query    string        `json:"query"`
	Answer   string        `json:"answer"`
	Elapsed  time.Duration `json:"elapsed"`
	Decision Decision      `json:"decision"`

	// Nearest is the closest stored entry at lookup time, nil when the store was empty.
	Nearest *Neighbor `json:"nearest,omitempty"`

	// EntryID is the id of the entry inserted on a miss.
	EntryID string `json:"entry_id,omitempty"`
}

// CacheStats holds engine counters.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// HitRate returns hits divided by resolved queries, or zero when nothing was resolved.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
