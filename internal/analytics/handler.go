package analytics

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

const maxTop = 100

// Breakdown is the traffic split over search modes and strategies.
type Breakdown struct {
	TotalSearches  int64            `json:"total_searches"`
	ByMode         map[string]int64 `json:"by_mode"`
	ByStrategy     map[string]int64 `json:"by_strategy"`
	CacheHitRate   float64          `json:"cache_hit_rate"`
	ZeroResultRate float64          `json:"zero_result_rate"`
}

type Handler struct {
	aggregator *Aggregator
	logger     *slog.Logger
}

func NewHandler(aggregator *Aggregator) *Handler {
	return &Handler{
		aggregator: aggregator,
		logger:     slog.Default().With("component", "analytics-handler"),
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/analytics/stats", h.Stats)
	mux.HandleFunc("GET /api/v1/analytics/breakdown", h.Breakdown)
}

// Stats serves GET /api/v1/analytics/stats?top=. top trims the query
// lists below their default length.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := h.aggregator.Stats()
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTop {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "top must be an integer between 1 and " + strconv.Itoa(maxTop),
			})
			return
		}
		stats.TopQueries = truncate(stats.TopQueries, n)
		stats.ZeroResultQueries = truncate(stats.ZeroResultQueries, n)
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// Breakdown serves GET /api/v1/analytics/breakdown.
func (h *Handler) Breakdown(w http.ResponseWriter, _ *http.Request) {
	stats := h.aggregator.Stats()
	b := Breakdown{
		TotalSearches: stats.TotalSearches,
		ByMode:        stats.ByMode,
		ByStrategy:    stats.ByStrategy,
	}
	if stats.TotalSearches > 0 {
		total := float64(stats.TotalSearches)
		b.CacheHitRate = float64(stats.CacheHits) / total
		b.ZeroResultRate = float64(stats.ZeroResultCount) / total
	}
	h.writeJSON(w, http.StatusOK, b)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write analytics response", "error", err)
	}
}

func truncate(counts []QueryCount, n int) []QueryCount {
	if len(counts) > n {
		return counts[:n]
	}
	return counts
}
