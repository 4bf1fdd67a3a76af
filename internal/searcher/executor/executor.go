// Package executor runs one search request against a published snapshot.
// Callers load the snapshot once per request so that a cache key and the
// result it guards always refer to the same generation.
package executor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/searcher/query"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/searcher/strategy"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/metrics"
)

type Mode string

const (
	ModeWord    Mode = "word"
	ModePhrase  Mode = "phrase"
	ModePrefix  Mode = "prefix"
	ModeBoolean Mode = "boolean"
)

// ParseMode maps a name to a Mode; "" selects word search.
func ParseMode(name string) (Mode, error) {
	switch Mode(name) {
	case "":
		return ModeWord, nil
	case ModeWord, ModePhrase, ModePrefix, ModeBoolean:
		return Mode(name), nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, 400, "unknown search mode %q", name)
	}
}

type Request struct {
	Query    string
	Mode     Mode
	Strategy strategy.Kind
	// Limit caps the returned ids; TotalHits still counts every match.
	// Zero or less returns all matches.
	Limit int
	// Strict rejects malformed boolean queries instead of answering
	// them with no results.
	Strict bool
}

type SearchResult struct {
	Query      string   `json:"query"`
	Mode       Mode     `json:"mode"`
	Strategy   string   `json:"strategy"`
	Generation string   `json:"generation"`
	TotalHits  int      `json:"total_hits"`
	DocIDs     []uint32 `json:"doc_ids"`
}

type AutocompleteResult struct {
	Prefix      string   `json:"prefix"`
	Generation  string   `json:"generation"`
	Suggestions []string `json:"suggestions"`
}

// SnapshotSource is satisfied by *indexer.Engine.
type SnapshotSource interface {
	Current() (*indexer.Snapshot, error)
}

type Executor struct {
	source  SnapshotSource
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates an Executor. m may be nil.
func New(source SnapshotSource, m *metrics.Metrics) *Executor {
	return &Executor{
		source:  source,
		metrics: m,
		logger:  slog.Default().With("component", "query-executor"),
	}
}

func (e *Executor) Snapshot() (*indexer.Snapshot, error) {
	return e.source.Current()
}

// Execute answers req from snap.
func (e *Executor) Execute(ctx context.Context, snap *indexer.Snapshot, req Request) (*SearchResult, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	searcher, err := snap.Searcher(req.Strategy)
	if err != nil {
		return nil, err
	}

	var ids *roaring.Bitmap
	switch req.Mode {
	case ModeWord:
		ids = searcher.SearchWord(strings.TrimSpace(req.Query))
	case ModePhrase:
		ids = searcher.SearchPhrase(req.Query)
	case ModePrefix:
		ids = searcher.SearchPrefix(strings.TrimSpace(req.Query))
	case ModeBoolean:
		if req.Strict {
			if err := query.Validate(req.Query); err != nil {
				e.observe(req, "error", 0, start)
				return nil, errors.New(errors.ErrMalformedQuery, 400, err.Error())
			}
		}
		evaluator, err := snap.Evaluator(req.Strategy)
		if err != nil {
			return nil, err
		}
		ids = evaluator.Evaluate(req.Query)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, 400, "unknown search mode %q", req.Mode)
	}

	total := int(ids.GetCardinality())
	result := &SearchResult{
		Query:      req.Query,
		Mode:       req.Mode,
		Strategy:   string(req.Strategy),
		Generation: snap.Generation,
		TotalHits:  total,
		DocIDs:     firstN(ids, req.Limit),
	}
	outcome := "hit"
	if total == 0 {
		outcome = "zero_result"
	}
	e.observe(req, outcome, total, start)
	e.logger.Debug("query executed",
		"mode", req.Mode,
		"strategy", req.Strategy,
		"total_hits", total,
		"returned", len(result.DocIDs),
		"generation", snap.Generation,
	)
	return result, nil
}

// Autocomplete returns up to limit indexed words beginning with prefix.
func (e *Executor) Autocomplete(ctx context.Context, snap *indexer.Snapshot, prefix string, limit int) (*AutocompleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &AutocompleteResult{
		Prefix:      prefix,
		Generation:  snap.Generation,
		Suggestions: snap.Autocomplete(prefix, limit),
	}, nil
}

func (e *Executor) observe(req Request, outcome string, hits int, start time.Time) {
	if e.metrics == nil {
		return
	}
	mode, kind := string(req.Mode), string(req.Strategy)
	e.metrics.SearchQueriesTotal.WithLabelValues(mode, kind, outcome).Inc()
	e.metrics.SearchLatency.WithLabelValues(mode, kind).Observe(time.Since(start).Seconds())
	if outcome != "error" {
		e.metrics.SearchResultsCount.WithLabelValues(mode).Observe(float64(hits))
	}
}

// firstN returns the smallest n ids in ascending order, or all of them
// when n <= 0.
func firstN(ids *roaring.Bitmap, n int) []uint32 {
	if n <= 0 || uint64(n) >= ids.GetCardinality() {
		return ids.ToArray()
	}
	out := make([]uint32, 0, n)
	it := ids.Iterator()
	for it.HasNext() && len(out) < n {
		out = append(out, it.Next())
	}
	return out
}
