// Package trie implements a character trie over indexed words. Every node
// accumulates the ids of all documents containing a word that passes
// through it, so a node answers prefix queries directly. Terminal nodes
// additionally hold the ids of documents containing exactly that word;
// exact lookups read only that set.
//
// Keys are normalized with tokenizer.Normalize on insert and on every
// lookup.
package trie

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/document"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/tokenizer"
)

// DefaultAutocompleteLimit caps Autocomplete when no positive limit is
// given.
const DefaultAutocompleteLimit = 20

type node struct {
	children  map[rune]*node
	prefixIDs *roaring.Bitmap
	wordIDs   *roaring.Bitmap
	terminal  bool
}

func newNode() *node {
	return &node{
		children:  make(map[rune]*node),
		prefixIDs: roaring.New(),
	}
}

// sortedRunes returns the child labels of n in ascending order.
func (n *node) sortedRunes() []rune {
	runes := make([]rune, 0, len(n.children))
	for r := range n.children {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return runes
}

type Trie struct {
	root  *node
	words int
	nodes int
}

func New() *Trie {
	return &Trie{root: newNode(), nodes: 1}
}

// Build inserts every word of every document.
func Build(docs []document.Document) *Trie {
	t := New()
	for _, doc := range document.TokenizeAll(docs) {
		t.InsertTokens(doc.ID, doc.Tokens)
	}
	return t
}

// InsertTokens inserts the words of one tokenized document.
func (t *Trie) InsertTokens(docID uint32, tokens []tokenizer.Token) {
	for _, tok := range tokens {
		t.Insert(tok.Word, docID)
	}
}

// Insert records docID on every node along the path of word, marks the
// last node as a complete word and records docID as an exact match
// there. Empty words are ignored.
func (t *Trie) Insert(word string, docID uint32) {
	key := tokenizer.Normalize(word)
	if key == "" {
		return
	}
	n := t.root
	n.prefixIDs.Add(docID)
	for _, r := range key {
		child, ok := n.children[r]
		if !ok {
			child = newNode()
			n.children[r] = child
			t.nodes++
		}
		n = child
		n.prefixIDs.Add(docID)
	}
	if !n.terminal {
		n.terminal = true
		n.wordIDs = roaring.New()
		t.words++
	}
	n.wordIDs.Add(docID)
}

func (t *Trie) find(key string) *node {
	n := t.root
	for _, r := range key {
		child, ok := n.children[r]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// SearchWord returns the documents containing word as a complete word.
func (t *Trie) SearchWord(word string) *roaring.Bitmap {
	key := tokenizer.Normalize(word)
	if key == "" {
		return roaring.New()
	}
	n := t.find(key)
	if n == nil || !n.terminal {
		return roaring.New()
	}
	return n.wordIDs.Clone()
}

// SearchPrefix returns the documents containing any word that starts
// with prefix, whether or not prefix is itself a word.
func (t *Trie) SearchPrefix(prefix string) *roaring.Bitmap {
	n := t.find(tokenizer.Normalize(prefix))
	if n == nil {
		return roaring.New()
	}
	return n.prefixIDs.Clone()
}

// Autocomplete returns up to limit complete words starting with prefix,
// sorted lexicographically. An empty prefix yields no suggestions.
func (t *Trie) Autocomplete(prefix string, limit int) []string {
	results := make([]string, 0)
	if prefix == "" {
		return results
	}
	if limit <= 0 {
		limit = DefaultAutocompleteLimit
	}
	key := tokenizer.Normalize(prefix)
	n := t.find(key)
	if n == nil {
		return results
	}
	collect(n, []rune(key), limit, &results)
	sort.Strings(results)
	return results
}

// collect walks n depth-first in ascending rune order and reports true
// once limit words have been gathered.
func collect(n *node, path []rune, limit int, out *[]string) bool {
	if n.terminal && !n.wordIDs.IsEmpty() {
		*out = append(*out, string(path))
		if len(*out) >= limit {
			return true
		}
	}
	for _, r := range n.sortedRunes() {
		if collect(n.children[r], append(path, r), limit, out) {
			return true
		}
	}
	return false
}

// WordCount returns the number of distinct complete words.
func (t *Trie) WordCount() int {
	return t.words
}

// NodeCount returns the number of nodes including the root.
func (t *Trie) NodeCount() int {
	return t.nodes
}
