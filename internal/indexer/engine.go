// Package indexer owns the published index snapshot. A build lists the
// store once, builds fresh structures off to the side and then swaps them
// in atomically, so readers never observe a partially built index.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/document"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/store"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/resilience"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/tracing"
)

// IndexPublishedEvent is announced after every successful swap.
type IndexPublishedEvent struct {
	Generation string    `json:"generation"`
	Documents  int       `json:"documents"`
	Vocabulary int       `json:"vocabulary"`
	BuiltAt    time.Time `json:"built_at"`
}

type Engine struct {
	store     store.DocumentStore
	current   atomic.Pointer[Snapshot]
	builds    singleflight.Group
	// requested counts Rebuild calls. A build records the value it saw
	// before listing the store, so a snapshot reflects every write made
	// before a Rebuild call whose number it has reached.
	requested atomic.Uint64
	retry     resilience.RetryConfig
	metrics   *metrics.Metrics
	publisher kafka.Publisher
	logger    *slog.Logger
}

type Option func(*Engine)

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithPublisher announces every published snapshot as an
// IndexPublishedEvent.
func WithPublisher(p kafka.Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// WithRetry controls how often a failing ListDocuments is retried.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(e *Engine) { e.retry = cfg }
}

func NewEngine(st store.DocumentStore, opts ...Option) *Engine {
	e := &Engine{
		store:  st,
		logger: slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Current returns the published snapshot, or ErrIndexNotReady before the
// first successful build.
func (e *Engine) Current() (*Snapshot, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, errors.New(errors.ErrIndexNotReady, 503, "no index snapshot has been published")
	}
	return snap, nil
}

func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// Rebuild lists the store, builds a new snapshot and publishes it. The
// returned snapshot always comes from a build that listed the store after
// Rebuild was called. Callers arriving while a build is in flight share
// one follow-up build. On failure the previous snapshot stays published.
func (e *Engine) Rebuild(ctx context.Context) (*Snapshot, error) {
	want := e.requested.Add(1)
	for {
		if cur := e.current.Load(); cur != nil && cur.seq >= want {
			return cur, nil
		}
		v, err, shared := e.builds.Do("rebuild", func() (any, error) {
			return e.rebuild(ctx)
		})
		if err != nil {
			return nil, err
		}
		snap := v.(*Snapshot)
		if snap.seq >= want {
			return snap, nil
		}
		if shared {
			e.logger.Debug("in-flight build started before this rebuild was requested; building again",
				"generation", snap.Generation)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

func (e *Engine) rebuild(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	seq := e.requested.Load()
	ctx, span := tracing.Start(ctx, "index.rebuild")
	defer func() {
		span.End()
		span.Log(ctx, e.logger)
	}()

	listCtx, listSpan := tracing.Start(ctx, "store.list")
	var docs []document.Document
	err := resilience.Retry(listCtx, "list-documents", e.retry, func(ctx context.Context) error {
		var err error
		docs, err = e.store.ListDocuments(ctx)
		return err
	})
	listSpan.SetAttr("documents", len(docs))
	listSpan.End()
	if err != nil {
		e.observeBuild("failed", start)
		e.logger.Error("listing documents failed", "error", err)
		return nil, fmt.Errorf("%w: %w", errors.ErrStoreUnavailable, err)
	}

	snap, err := BuildSnapshot(ctx, docs)
	if err != nil {
		e.observeBuild("failed", start)
		e.logger.Error("index build failed", "documents", len(docs), "error", err)
		return nil, err
	}

	snap.seq = seq
	prev := e.current.Swap(snap)
	e.observeBuild("success", start)
	stats := snap.Stats()
	if e.metrics != nil {
		e.metrics.DocsIndexed.Set(float64(stats.Documents))
		e.metrics.VocabularySize.Set(float64(stats.Vocabulary))
		e.metrics.TrieNodes.Set(float64(stats.TrieNodes))
	}
	attrs := []any{
		"generation", snap.Generation,
		"documents", stats.Documents,
		"vocabulary", stats.Vocabulary,
		"trie_nodes", stats.TrieNodes,
		"duration", time.Since(start),
	}
	if prev != nil {
		attrs = append(attrs, "previous_generation", prev.Generation)
	}
	e.logger.Info("index snapshot published", attrs...)

	e.announce(ctx, stats)
	return snap, nil
}

func (e *Engine) announce(ctx context.Context, stats Stats) {
	if e.publisher == nil {
		return
	}
	event := IndexPublishedEvent{
		Generation: stats.Generation,
		Documents:  stats.Documents,
		Vocabulary: stats.Vocabulary,
		BuiltAt:    stats.BuiltAt,
	}
	if err := e.publisher.Publish(ctx, kafka.Event{Key: stats.Generation, Value: event}); err != nil {
		e.logger.Warn("failed to announce snapshot", "generation", stats.Generation, "error", err)
	}
}

func (e *Engine) observeBuild(status string, start time.Time) {
	if e.metrics == nil {
		return
	}
	e.metrics.IndexBuildsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		e.metrics.IndexBuildDuration.Observe(time.Since(start).Seconds())
	}
}
