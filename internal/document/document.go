// Package document defines the corpus unit handed to the indexers by a
// document store, and its tokenized form.
package document

import "github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/tokenizer"

// Document is an immutable (id, text) pair borrowed from a store.
type Document struct {
	ID   uint32 `json:"id"`
	Text string `json:"text"`
}

// Tokenized is a document after a single pass through the tokenizer.
type Tokenized struct {
	ID     uint32
	Tokens []tokenizer.Token
}

// Words returns the token words in position order.
func (t Tokenized) Words() []string {
	words := make([]string, len(t.Tokens))
	for i, tok := range t.Tokens {
		words[i] = tok.Word
	}
	return words
}

// TokenizeAll tokenizes every document exactly once, keeping the first
// occurrence of each id and preserving input order.
func TokenizeAll(docs []Document) []Tokenized {
	seen := make(map[uint32]struct{}, len(docs))
	out := make([]Tokenized, 0, len(docs))
	for _, doc := range docs {
		if _, dup := seen[doc.ID]; dup {
			continue
		}
		seen[doc.ID] = struct{}{}
		out = append(out, Tokenized{
			ID:     doc.ID,
			Tokens: tokenizer.Tokenize(doc.Text),
		})
	}
	return out
}
