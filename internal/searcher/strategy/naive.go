package strategy

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/document"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/tokenizer"
)

// NaiveScan answers every query by scanning the token sequence of every
// document. It keeps no index; words are compared in normalized form like
// the other variants.
type NaiveScan struct {
	docs []scannedDoc
}

type scannedDoc struct {
	id    uint32
	words []string
}

func NewNaiveScan(docs []document.Tokenized) *NaiveScan {
	scanned := make([]scannedDoc, 0, len(docs))
	for _, d := range docs {
		words := d.Words()
		for i, w := range words {
			words[i] = tokenizer.Normalize(w)
		}
		scanned = append(scanned, scannedDoc{id: d.ID, words: words})
	}
	return &NaiveScan{docs: scanned}
}

func (*NaiveScan) Kind() Kind { return KindNaive }

func (n *NaiveScan) SearchWord(word string) *roaring.Bitmap {
	word = tokenizer.Normalize(word)
	return n.scan(func(words []string) bool {
		for _, w := range words {
			if w == word {
				return true
			}
		}
		return false
	})
}

func (n *NaiveScan) SearchPhrase(phrase string) *roaring.Bitmap {
	want := tokenizer.Words(phrase)
	for i, w := range want {
		want[i] = tokenizer.Normalize(w)
	}
	return n.scan(func(words []string) bool {
		return containsPhrase(words, want)
	})
}

func (n *NaiveScan) SearchPrefix(prefix string) *roaring.Bitmap {
	prefix = tokenizer.Normalize(prefix)
	return n.scan(func(words []string) bool {
		for _, w := range words {
			if strings.HasPrefix(w, prefix) {
				return true
			}
		}
		return false
	})
}

func (n *NaiveScan) scan(match func(words []string) bool) *roaring.Bitmap {
	result := roaring.New()
	for _, d := range n.docs {
		if match(d.words) {
			result.Add(d.id)
		}
	}
	return result
}
