// Package history keeps a bounded log of resolved queries for the dashboard
// and the HTTP API.
package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/davidbz/semcache/internal/domain"
)

// Config holds history settings.
type Config struct {
	Capacity int `env:"HISTORY_CAPACITY" envDefault:"256"`

	// BaselineLatency is the assumed latency of an uncached provider call.
	BaselineLatency time.Duration `env:"DASHBOARD_BASELINE_LATENCY" envDefault:"1500ms"`
}

// Record is one resolved query.
type Record struct {
	Query      string          `json:"query"`
	Decision   domain.Decision `json:"decision"`
	Elapsed    time.Duration   `json:"elapsed"`
	Distance   *float64        `json:"distance,omitempty"`
	ResolvedAt time.Time       `json:"resolved_at"`
}

// Speedup returns how many times faster than baseline the query was served.
// Misses always report 1.
func (r Record) Speedup(baseline time.Duration) float64 {
	if !r.Decision.IsHit() {
		return 1.0
	}
	elapsed := r.Elapsed
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	return float64(baseline) / float64(elapsed)
}

// Summary aggregates the retained records.
type Summary struct {
	Count           int           `json:"count"`
	Hits            int           `json:"hits"`
	Misses          int           `json:"misses"`
	HitRate         float64       `json:"hit_rate"`
	MeanHitLatency  time.Duration `json:"mean_hit_latency"`
	MeanMissLatency time.Duration `json:"mean_miss_latency"`
}

// Recorder is a thread-safe ring of the most recent records.
type Recorder struct {
	mu       sync.RWMutex
	capacity int
	baseline time.Duration
	records  []Record
	next     int
	full     bool
}

// NewRecorder creates a recorder retaining at most capacity records.
func NewRecorder(cfg Config) (*Recorder, error) {
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("history capacity must be positive, got %d", cfg.Capacity)
	}
	if cfg.BaselineLatency < 0 {
		return nil, fmt.Errorf("baseline latency must be non-negative, got %s", cfg.BaselineLatency)
	}
	return &Recorder{
		capacity: cfg.Capacity,
		baseline: cfg.BaselineLatency,
		records:  make([]Record, cfg.Capacity),
	}, nil
}

// Baseline returns the latency speedups are measured against.
func (h *Recorder) Baseline() time.Duration {
	return h.baseline
}

// Record appends the outcome, overwriting the oldest record when full.
func (h *Recorder) Record(outcome *domain.QueryOutcome) Record {
	record := Record{
		Query:      outcome.Query,
		Decision:   outcome.Decision,
		Elapsed:    outcome.Elapsed,
		ResolvedAt: time.Now(),
	}
	if outcome.Nearest != nil {
		distance := outcome.Nearest.Distance
		record.Distance = &distance
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.records[h.next] = record
	h.next = (h.next + 1) % h.capacity
	if h.next == 0 {
		h.full = true
	}
	return record
}

// Recent returns up to n records, oldest first. n <= 0 returns everything retained.
func (h *Recorder) Recent(n int) []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ordered := h.orderedLocked()
	if n > 0 && len(ordered) > n {
		ordered = ordered[len(ordered)-n:]
	}
	return ordered
}

// Len returns the number of retained records.
func (h *Recorder) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.full {
		return h.capacity
	}
	return h.next
}

// Summary aggregates the retained records.
func (h *Recorder) Summary() Summary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var (
		summary        Summary
		hitLatencySum  time.Duration
		missLatencySum time.Duration
	)
	for _, record := range h.orderedLocked() {
		summary.Count++
		if record.Decision.IsHit() {
			summary.Hits++
			hitLatencySum += record.Elapsed
		} else {
			summary.Misses++
			missLatencySum += record.Elapsed
		}
	}

	if summary.Count > 0 {
		summary.HitRate = float64(summary.Hits) / float64(summary.Count)
	}
	if summary.Hits > 0 {
		summary.MeanHitLatency = hitLatencySum / time.Duration(summary.Hits)
	}
	if summary.Misses > 0 {
		summary.MeanMissLatency = missLatencySum / time.Duration(summary.Misses)
	}
	return summary
}

// Clear drops every record.
func (h *Recorder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = make([]Record, h.capacity)
	h.next = 0
	h.full = false
}

func (h *Recorder) orderedLocked() []Record {
	if !h.full {
		out := make([]Record, h.next)
		copy(out, h.records[:h.next])
		return out
	}
	out := make([]Record, 0, h.capacity)
	out = append(out, h.records[h.next:]...)
	out = append(out, h.records[:h.next]...)
	return out
}
