package strategy

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/document"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/trie"
)

// TrieSearcher answers queries from a trie. The trie holds no positions,
// so phrase queries intersect the per-word hits and then confirm
// adjacency against the normalized token sequences of the candidates.
// All matching is case-insensitive.
type TrieSearcher struct {
	trie   *trie.Trie
	tokens map[uint32][]string
}

func NewTrie(t *trie.Trie, docs []document.Tokenized) *TrieSearcher {
	tokens := make(map[uint32][]string, len(docs))
	for _, d := range docs {
		words := d.Words()
		for i, w := range words {
			words[i] = tokenizer.Normalize(w)
		}
		tokens[d.ID] = words
	}
	return &TrieSearcher{trie: t, tokens: tokens}
}

func (*TrieSearcher) Kind() Kind { return KindTrie }

func (s *TrieSearcher) SearchWord(word string) *roaring.Bitmap {
	return s.trie.SearchWord(word)
}

func (s *TrieSearcher) SearchPrefix(prefix string) *roaring.Bitmap {
	return s.trie.SearchPrefix(prefix)
}

func (s *TrieSearcher) SearchPhrase(phrase string) *roaring.Bitmap {
	words := tokenizer.Words(phrase)
	if len(words) == 0 {
		return roaring.New()
	}
	for i, w := range words {
		words[i] = tokenizer.Normalize(w)
	}
	candidates := s.trie.SearchWord(words[0])
	for _, w := range words[1:] {
		if candidates.IsEmpty() {
			break
		}
		candidates.And(s.trie.SearchWord(w))
	}
	result := roaring.New()
	it := candidates.Iterator()
	for it.HasNext() {
		id := it.Next()
		if containsPhrase(s.tokens[id], words) {
			result.Add(id)
		}
	}
	return result
}
