// Package index implements the positional inverted index: every word
// maps to the documents containing it and, per document, the ascending
// list of positions where it occurs. Words are stored and looked up in
// their tokenizer.Normalize form, the same policy the trie applies.
//
// An InvertedIndex is populated once and then only read. It is not safe
// for concurrent mutation; concurrent readers are fine once building has
// finished.
package index

import (
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/document"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/tokenizer"
)

type InvertedIndex struct {
	index map[string]map[uint32][]int
	docs  *roaring.Bitmap
	size  int64
}

func New() *InvertedIndex {
	return &InvertedIndex{
		index: make(map[string]map[uint32][]int),
		docs:  roaring.New(),
	}
}

// Build indexes every document in order. Repeated ids are ignored after
// their first occurrence.
func Build(docs []document.Document) *InvertedIndex {
	ii := New()
	for _, doc := range docs {
		ii.Add(doc)
	}
	return ii
}

// Add tokenizes and indexes doc. It reports false, without tokenizing,
// when a document with the same id was already indexed.
func (ii *InvertedIndex) Add(doc document.Document) bool {
	if ii.docs.Contains(doc.ID) {
		return false
	}
	return ii.AddTokens(doc.ID, tokenizer.Tokenize(doc.Text))
}

// AddTokens indexes an already tokenized document. Tokens must be in
// position order.
func (ii *InvertedIndex) AddTokens(docID uint32, tokens []tokenizer.Token) bool {
	if ii.docs.Contains(docID) {
		return false
	}
	ii.docs.Add(docID)
	for _, tok := range tokens {
		word := tokenizer.Normalize(tok.Word)
		docs, exists := ii.index[word]
		if !exists {
			docs = make(map[uint32][]int)
			ii.index[word] = docs
			ii.size += int64(len(word) + 64)
		}
		if _, seen := docs[docID]; !seen {
			ii.size += 16
		}
		docs[docID] = append(docs[docID], tok.Position)
		ii.size += 8
	}
	return true
}

// SearchWord returns the documents containing word, ignoring case.
func (ii *InvertedIndex) SearchWord(word string) *roaring.Bitmap {
	result := roaring.New()
	for docID := range ii.index[tokenizer.Normalize(word)] {
		result.Add(docID)
	}
	return result
}

// SearchPhrase returns the documents in which the whitespace-separated
// words of phrase occur at consecutive positions.
func (ii *InvertedIndex) SearchPhrase(phrase string) *roaring.Bitmap {
	result := roaring.New()
	words := tokenizer.Words(phrase)
	if len(words) == 0 {
		return result
	}
	for i, w := range words {
		words[i] = tokenizer.Normalize(w)
	}
	first, ok := ii.index[words[0]]
	if !ok {
		return result
	}
	following := make([]map[uint32][]int, 0, len(words)-1)
	for _, w := range words[1:] {
		docs, ok := ii.index[w]
		if !ok {
			return result
		}
		following = append(following, docs)
	}
	for docID, starts := range first {
		if phraseStartsIn(docID, starts, following) {
			result.Add(docID)
		}
	}
	return result
}

func phraseStartsIn(docID uint32, starts []int, following []map[uint32][]int) bool {
	for _, p := range starts {
		matched := true
		for i, docs := range following {
			if !hasPosition(docs[docID], p+i+1) {
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

func hasPosition(positions []int, want int) bool {
	i := sort.SearchInts(positions, want)
	return i < len(positions) && positions[i] == want
}

// SearchPrefix returns the union of documents over every indexed word
// starting with prefix. It scans the whole vocabulary.
func (ii *InvertedIndex) SearchPrefix(prefix string) *roaring.Bitmap {
	result := roaring.New()
	prefix = tokenizer.Normalize(prefix)
	for term, docs := range ii.index {
		if !strings.HasPrefix(term, prefix) {
			continue
		}
		for docID := range docs {
			result.Add(docID)
		}
	}
	return result
}

// Positions returns a copy of the positions of word in docID.
func (ii *InvertedIndex) Positions(word string, docID uint32) []int {
	positions := ii.index[tokenizer.Normalize(word)][docID]
	out := make([]int, len(positions))
	copy(out, positions)
	return out
}

// Terms returns the vocabulary in lexicographic order.
func (ii *InvertedIndex) Terms() []string {
	terms := make([]string, 0, len(ii.index))
	for term := range ii.index {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// Snapshot returns a deterministic, deep-copied view of the whole index,
// ordered by term and then by document id.
func (ii *InvertedIndex) Snapshot() []TermEntry {
	entries := make([]TermEntry, 0, len(ii.index))
	for _, term := range ii.Terms() {
		docs := ii.index[term]
		postings := make(PostingList, 0, len(docs))
		for docID, positions := range docs {
			cp := make([]int, len(positions))
			copy(cp, positions)
			postings = append(postings, Posting{
				DocID:     docID,
				Frequency: len(positions),
				Positions: cp,
			})
		}
		sort.Slice(postings, func(i, j int) bool {
			return postings[i].DocID < postings[j].DocID
		})
		entries = append(entries, TermEntry{
			Term:     term,
			Postings: postings,
		})
	}
	return entries
}

func (ii *InvertedIndex) VocabularySize() int {
	return len(ii.index)
}

func (ii *InvertedIndex) DocCount() int {
	return int(ii.docs.GetCardinality())
}

// Size is a rough estimate of the index's memory footprint in bytes.
func (ii *InvertedIndex) Size() int64 {
	return ii.size
}
