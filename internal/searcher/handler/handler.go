// Package handler exposes the search core over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/searcher/strategy"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/logger"
)

// Rebuilder is satisfied by *indexer.Engine.
type Rebuilder interface {
	Rebuild(ctx context.Context) (*indexer.Snapshot, error)
}

type Handler struct {
	executor  *executor.Executor
	rebuilder Rebuilder
	cache     *cache.QueryCache
	collector *analytics.Collector
	cfg       config.SearchConfig
	logger    *slog.Logger
}

// New creates a Handler. queryCache and collector may be nil.
func New(exec *executor.Executor, rebuilder Rebuilder, queryCache *cache.QueryCache, collector *analytics.Collector, cfg config.SearchConfig) *Handler {
	return &Handler{
		executor:  exec,
		rebuilder: rebuilder,
		cache:     queryCache,
		collector: collector,
		cfg:       cfg,
		logger:    slog.Default().With("component", "search-handler"),
	}
}

// Register mounts the search routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/autocomplete", h.Autocomplete)
	mux.HandleFunc("POST /api/v1/index/rebuild", h.Rebuild)
	mux.HandleFunc("GET /api/v1/index/stats", h.IndexStats)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

// Search serves GET /api/v1/search?q=&mode=&strategy=&limit=&lenient=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	req, err := h.parseSearch(r)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	snap, err := h.executor.Snapshot()
	if err != nil {
		h.writeErr(w, err)
		return
	}

	var result *executor.SearchResult
	cacheHit := false
	compute := func() (*executor.SearchResult, error) {
		return h.executor.Execute(ctx, snap, req)
	}
	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, cache.Key(snap.Generation, req), compute)
	} else {
		result, err = compute()
	}
	if err != nil {
		if errors.HTTPStatusCode(err) >= http.StatusInternalServerError {
			log.Error("search execution failed", "query", req.Query, "mode", req.Mode, "error", err)
		}
		h.writeErr(w, err)
		return
	}
	if result.Query != req.Query {
		// Cached entries are shared across queries that differ only in
		// whitespace; echo this request's own query.
		echoed := *result
		echoed.Query = req.Query
		result = &echoed
	}

	latency := time.Since(start)
	log.Info("search completed",
		"mode", req.Mode,
		"strategy", req.Strategy,
		"total_hits", result.TotalHits,
		"returned", len(result.DocIDs),
		"cache_hit", cacheHit,
		"latency", latency,
	)
	if h.collector != nil {
		h.collector.Track(analytics.QueryEvent{
			Query:      req.Query,
			Mode:       string(req.Mode),
			Strategy:   string(req.Strategy),
			Generation: result.Generation,
			TotalHits:  result.TotalHits,
			Returned:   len(result.DocIDs),
			LatencyUs:  latency.Microseconds(),
			CacheHit:   cacheHit,
			Timestamp:  time.Now().UTC(),
			RequestID:  logger.RequestID(ctx),
		})
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) parseSearch(r *http.Request) (executor.Request, error) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		return executor.Request{}, errors.New(errors.ErrInvalidInput, http.StatusBadRequest, "query parameter 'q' is required")
	}
	if h.cfg.MaxQueryLength > 0 && len(query) > h.cfg.MaxQueryLength {
		return executor.Request{}, errors.Newf(errors.ErrInvalidInput, http.StatusBadRequest,
			"query longer than %d bytes", h.cfg.MaxQueryLength)
	}
	mode, err := executor.ParseMode(q.Get("mode"))
	if err != nil {
		return executor.Request{}, err
	}
	kindName := q.Get("strategy")
	if kindName == "" {
		kindName = h.cfg.DefaultStrategy
	}
	kind, err := strategy.ParseKind(kindName)
	if err != nil {
		return executor.Request{}, err
	}
	limit, err := h.parseLimit(q.Get("limit"), h.cfg.MaxResults)
	if err != nil {
		return executor.Request{}, err
	}
	lenient, _ := strconv.ParseBool(q.Get("lenient"))
	return executor.Request{
		Query:    query,
		Mode:     mode,
		Strategy: kind,
		Limit:    limit,
		Strict:   !lenient,
	}, nil
}

// parseLimit returns def for an empty value and caps larger values at def
// when def is positive.
func (h *Handler) parseLimit(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errors.New(errors.ErrInvalidInput, http.StatusBadRequest, "limit must be a positive integer")
	}
	if def > 0 && limit > def {
		limit = def
	}
	return limit, nil
}

// Autocomplete serves GET /api/v1/autocomplete?prefix=&limit=.
func (h *Handler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	limit, err := h.parseLimit(r.URL.Query().Get("limit"), h.cfg.AutocompleteLimit)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	snap, err := h.executor.Snapshot()
	if err != nil {
		h.writeErr(w, err)
		return
	}
	result, err := h.executor.Autocomplete(r.Context(), snap, prefix, limit)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Rebuild serves POST /api/v1/index/rebuild.
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	snap, err := h.rebuilder.Rebuild(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("index rebuild failed", "error", err)
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snap.Stats())
}

// IndexStats serves GET /api/v1/index/stats.
func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	snap, err := h.executor.Snapshot()
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snap.Stats())
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	deleted, err := h.cache.Invalidate(r.Context())
	if err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "invalidated", "keys_deleted": deleted})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// writeErr answers with the status mapped from err. Internal errors are
// not echoed to the client.
func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	status := errors.HTTPStatusCode(err)
	message := err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		message = "internal error"
	}
	h.writeError(w, status, message)
}
