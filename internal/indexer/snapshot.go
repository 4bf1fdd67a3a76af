package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/document"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/trie"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/searcher/query"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/searcher/strategy"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/tracing"
)

// Snapshot is one fully built, immutable generation of the indexes. It is
// safe for any number of concurrent readers.
type Snapshot struct {
	Generation    string
	BuiltAt       time.Time
	BuildDuration time.Duration
	Inverted      *index.InvertedIndex
	Trie          *trie.Trie

	docs       int
	seq        uint64
	searchers  map[strategy.Kind]strategy.Searcher
	evaluators map[strategy.Kind]*query.Evaluator
}

// Stats describes a snapshot for the stats endpoint and metrics.
type Stats struct {
	Generation     string    `json:"generation"`
	BuiltAt        time.Time `json:"built_at"`
	BuildMillis    int64     `json:"build_ms"`
	Documents      int       `json:"documents"`
	Vocabulary     int       `json:"vocabulary"`
	TrieWords      int       `json:"trie_words"`
	TrieNodes      int       `json:"trie_nodes"`
	IndexSizeBytes int64     `json:"index_size_bytes"`
}

// BuildSnapshot tokenizes every document once and builds the inverted
// index and the trie concurrently from the shared tokens.
func BuildSnapshot(ctx context.Context, docs []document.Document) (*Snapshot, error) {
	start := time.Now()
	ctx, span := tracing.Start(ctx, "snapshot.build")
	defer span.End()

	_, tokSpan := tracing.Start(ctx, "tokenize")
	tokenized := document.TokenizeAll(docs)
	tokSpan.SetAttr("documents", len(tokenized))
	tokSpan.End()

	ii := index.New()
	tr := trie.New()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, s := tracing.Start(gctx, "build.inverted")
		defer s.End()
		for i, d := range tokenized {
			if i%1024 == 0 && gctx.Err() != nil {
				return gctx.Err()
			}
			ii.AddTokens(d.ID, d.Tokens)
		}
		return nil
	})
	g.Go(func() error {
		_, s := tracing.Start(gctx, "build.trie")
		defer s.End()
		for i, d := range tokenized {
			if i%1024 == 0 && gctx.Err() != nil {
				return gctx.Err()
			}
			tr.InsertTokens(d.ID, d.Tokens)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building indexes: %w", err)
	}

	searchers := map[strategy.Kind]strategy.Searcher{
		strategy.KindInverted: strategy.NewInverted(ii),
		strategy.KindTrie:     strategy.NewTrie(tr, tokenized),
		strategy.KindNaive:    strategy.NewNaiveScan(tokenized),
	}
	evaluators := make(map[strategy.Kind]*query.Evaluator, len(searchers))
	for kind, searcher := range searchers {
		evaluators[kind] = query.NewEvaluator(searcher)
	}
	return &Snapshot{
		Generation:    uuid.NewString(),
		BuiltAt:       time.Now().UTC(),
		BuildDuration: time.Since(start),
		Inverted:      ii,
		Trie:          tr,
		docs:          len(tokenized),
		searchers:     searchers,
		evaluators:    evaluators,
	}, nil
}

// Searcher returns the variant named by kind.
func (s *Snapshot) Searcher(kind strategy.Kind) (strategy.Searcher, error) {
	searcher, ok := s.searchers[kind]
	if !ok {
		return nil, errors.Newf(errors.ErrInvalidInput, 400, "unknown search strategy %q", kind)
	}
	return searcher, nil
}

// Evaluator returns the boolean query evaluator resolving terms through
// the variant named by kind.
func (s *Snapshot) Evaluator(kind strategy.Kind) (*query.Evaluator, error) {
	evaluator, ok := s.evaluators[kind]
	if !ok {
		return nil, errors.Newf(errors.ErrInvalidInput, 400, "unknown search strategy %q", kind)
	}
	return evaluator, nil
}

// Evaluate runs a boolean query against the inverted index. Malformed
// queries yield the empty set.
func (s *Snapshot) Evaluate(q string) *roaring.Bitmap {
	return s.evaluators[strategy.KindInverted].Evaluate(q)
}

func (s *Snapshot) Autocomplete(prefix string, limit int) []string {
	return s.Trie.Autocomplete(prefix, limit)
}

func (s *Snapshot) DocCount() int {
	return s.docs
}

func (s *Snapshot) Stats() Stats {
	return Stats{
		Generation:     s.Generation,
		BuiltAt:        s.BuiltAt,
		BuildMillis:    s.BuildDuration.Milliseconds(),
		Documents:      s.docs,
		Vocabulary:     s.Inverted.VocabularySize(),
		TrieWords:      s.Trie.WordCount(),
		TrieNodes:      s.Trie.NodeCount(),
		IndexSizeBytes: s.Inverted.Size(),
	}
}
