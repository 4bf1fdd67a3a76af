// Package strategy puts the interchangeable search implementations behind
// one capability interface. A host picks a variant by Kind; there is no
// implicit fallback between variants.
package strategy

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/errors"
)

type Kind string

const (
	KindInverted Kind = "inverted"
	KindTrie     Kind = "trie"
	KindNaive    Kind = "naive"
)

// Kinds lists every variant in a stable order.
var Kinds = []Kind{KindInverted, KindTrie, KindNaive}

// ParseKind maps a name to a Kind. The empty string selects the inverted
// index.
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case "":
		return KindInverted, nil
	case KindInverted, KindTrie, KindNaive:
		return Kind(name), nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, 400, "unknown search strategy %q", name)
	}
}

// Searcher answers word, phrase and prefix queries over one corpus.
// Absence is always an empty, non-nil set.
type Searcher interface {
	Kind() Kind
	SearchWord(word string) *roaring.Bitmap
	SearchPhrase(phrase string) *roaring.Bitmap
	SearchPrefix(prefix string) *roaring.Bitmap
}

type invertedSearcher struct {
	*index.InvertedIndex
}

// NewInverted exposes a positional inverted index as a Searcher.
func NewInverted(ii *index.InvertedIndex) Searcher {
	return invertedSearcher{ii}
}

func (invertedSearcher) Kind() Kind { return KindInverted }

func (k Kind) String() string { return string(k) }

// containsPhrase reports whether words occurs contiguously in tokens.
func containsPhrase(tokens, words []string) bool {
	if len(words) == 0 || len(words) > len(tokens) {
		return false
	}
	for start := 0; start+len(words) <= len(tokens); start++ {
		matched := true
		for i, w := range words {
			if tokens[start+i] != w {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
