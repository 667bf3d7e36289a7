package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/davidbz/semcache/internal/domain"
	"github.com/davidbz/semcache/internal/history"
	"github.com/davidbz/semcache/internal/observability"
)

const (
	headerDecision = "X-Semcache-Decision"
	headerDistance = "X-Semcache-Distance"

	maxRequestBytes = 1 << 20
)

// ResolveRequest is the body of POST /v1/resolve.
type ResolveRequest struct {
	Query string `json:"query"`
}

// ResolveResponse is returned for a resolved query.
type ResolveResponse struct {
	*domain.QueryOutcome

	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Source         string  `json:"source"`
	Speedup        float64 `json:"speedup"`
}

// HistoryRecord is a history entry annotated with its speedup.
type HistoryRecord struct {
	history.Record

	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Speedup        float64 `json:"speedup"`
}

// HistoryResponse is returned by GET /v1/history.
type HistoryResponse struct {
	Records []HistoryRecord `json:"records"`
	Summary history.Summary `json:"summary"`
}

// StatsResponse is returned by GET /v1/stats.
type StatsResponse struct {
	Hits      int64           `json:"hits"`
	Misses    int64           `json:"misses"`
	Entries   int             `json:"entries"`
	HitRate   float64         `json:"hit_rate"`
	Threshold float64         `json:"threshold"`
	History   history.Summary `json:"history"`
}

// Handler handles HTTP requests.
type Handler struct {
	engine  *domain.Engine
	history *history.Recorder
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(engine *domain.Engine, recorder *history.Recorder) *Handler {
	return &Handler{
		engine:  engine,
		history: recorder,
	}
}

// HandleResolve answers a query from the cache or the answer provider.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ResolveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	logger := observability.FromContext(ctx)
	logger.Info("resolve request received", zap.Int("query_length", len(req.Query)))

	outcome, err := h.engine.Resolve(ctx, req.Query)
	if err != nil {
		logger.Error("resolve failed", zap.Error(err))
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	record := h.history.Record(outcome)

	w.Header().Set(headerDecision, string(outcome.Decision))
	if outcome.Nearest != nil {
		w.Header().Set(headerDistance, strconv.FormatFloat(outcome.Nearest.Distance, 'f', -1, 64))
	}

	writeJSON(w, http.StatusOK, ResolveResponse{
		QueryOutcome:   outcome,
		ElapsedSeconds: outcome.Elapsed.Seconds(),
		Source:         sourceLabel(outcome.Decision),
		Speedup:        record.Speedup(h.history.Baseline()),
	}, logger)
}

// HandleHistory returns the most recent resolved queries, oldest first.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, fmt.Sprintf("invalid limit %q", raw), http.StatusBadRequest)
			return
		}
		limit = n
	}

	baseline := h.history.Baseline()
	records := h.history.Recent(limit)
	out := make([]HistoryRecord, 0, len(records))
	for _, record := range records {
		out = append(out, HistoryRecord{
			Record:         record,
			ElapsedSeconds: record.Elapsed.Seconds(),
			Speedup:        record.Speedup(baseline),
		})
	}

	writeJSON(w, http.StatusOK, HistoryResponse{
		Records: out,
		Summary: h.history.Summary(),
	}, observability.FromContext(r.Context()))
}

// HandleStats returns engine counters and the history summary.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	logger := observability.FromContext(ctx)

	stats, err := h.engine.Stats(ctx)
	if err != nil {
		logger.Error("stats failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, StatsResponse{
		Hits:      stats.Hits,
		Misses:    stats.Misses,
		Entries:   stats.Entries,
		HitRate:   stats.HitRate(),
		Threshold: h.engine.Threshold(),
		History:   h.history.Summary(),
	}, logger)
}

// HandleReset empties the store, the counters and the request history.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	logger := observability.FromContext(ctx)

	if err := h.engine.Reset(ctx); err != nil {
		logger.Error("reset failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.history.Clear()

	logger.Info("cache reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"}, logger)
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}, observability.FromContext(r.Context()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmbeddingFailure), errors.Is(err, domain.ErrGenerationFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func sourceLabel(decision domain.Decision) string {
	if decision.IsHit() {
		return "cache"
	}
	return "provider"
}

func writeJSON(w http.ResponseWriter, status int, body any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Status is already written.
		logger.Error("failed to encode response", zap.Error(err))
	}
}
