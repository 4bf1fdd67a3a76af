package strategy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/document"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/trie"
	apperrors "github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/errors"
)

var corpus = []document.Document{
	{ID: 1, Text: "apple pie and banana smoothie"},
	{ID: 2, Text: "banana apple fruit salad"},
	{ID: 3, Text: "chocolate pie and lemon tart"},
	{ID: 4, Text: "pie pie and and pie"},
	{ID: 5, Text: "lemon meringue pie and apple crumble"},
}

func searchers(t *testing.T) []Searcher {
	t.Helper()
	tokenized := document.TokenizeAll(corpus)
	return []Searcher{
		NewInverted(index.Build(corpus)),
		NewTrie(trie.Build(corpus), tokenized),
		NewNaiveScan(tokenized),
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindInverted, got)

	_, err = ParseKind("mmap")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestSearchersAgree(t *testing.T) {
	all := searchers(t)
	kinds := make([]Kind, 0, len(all))
	for _, s := range all {
		kinds = append(kinds, s.Kind())
	}
	assert.Equal(t, Kinds, kinds)

	words := []string{"pie", "apple", "banana", "and", "tart", "crumble", "missing"}
	phrases := []string{"banana apple", "pie and", "pie and lemon", "and and pie", "apple crumble", "pie pie pie", "lemon", ""}
	prefixes := []string{"", "a", "ap", "ban", "p", "pi", "l", "z"}

	reference := all[0]
	for _, s := range all[1:] {
		for _, w := range words {
			assert.Equal(t, reference.SearchWord(w).ToArray(), s.SearchWord(w).ToArray(), "%s word %q", s.Kind(), w)
		}
		for _, p := range phrases {
			assert.Equal(t, reference.SearchPhrase(p).ToArray(), s.SearchPhrase(p).ToArray(), "%s phrase %q", s.Kind(), p)
		}
		for _, p := range prefixes {
			assert.Equal(t, reference.SearchPrefix(p).ToArray(), s.SearchPrefix(p).ToArray(), "%s prefix %q", s.Kind(), p)
		}
	}
}

func TestConcreteScenario(t *testing.T) {
	for _, s := range searchers(t) {
		t.Run(s.Kind().String(), func(t *testing.T) {
			assert.Equal(t, []uint32{1, 3, 4, 5}, s.SearchWord("pie").ToArray())
			assert.Equal(t, []uint32{2}, s.SearchPhrase("banana apple").ToArray())
			assert.Equal(t, []uint32{1, 2, 5}, s.SearchWord("apple").ToArray())
		})
	}
}

func TestSearchersAgree_MixedCase(t *testing.T) {
	docs := []document.Document{
		{ID: 1, Text: "Apple pie"},
		{ID: 2, Text: "apricot"},
		{ID: 3, Text: "Banana APPLE Crumble"},
		{ID: 4, Text: "apple banana"},
	}
	tokenized := document.TokenizeAll(docs)
	all := []Searcher{
		NewInverted(index.Build(docs)),
		NewTrie(trie.Build(docs), tokenized),
		NewNaiveScan(tokenized),
	}

	for _, s := range all {
		t.Run(s.Kind().String(), func(t *testing.T) {
			assert.Equal(t, []uint32{1, 3, 4}, s.SearchWord("apple").ToArray())
			assert.Equal(t, []uint32{1, 3, 4}, s.SearchWord("APPLE").ToArray())
			assert.Equal(t, []uint32{1, 2, 3, 4}, s.SearchPrefix("ap").ToArray())
			assert.Equal(t, []uint32{1, 2, 3, 4}, s.SearchPrefix("Ap").ToArray())
			assert.Equal(t, []uint32{3}, s.SearchPhrase("BANANA apple").ToArray())
			assert.Equal(t, []uint32{3}, s.SearchPhrase("apple crumble").ToArray())
		})
	}
}

func TestContainsPhrase(t *testing.T) {
	tokens := []string{"a", "b", "a", "c"}

	assert.True(t, containsPhrase(tokens, []string{"a", "c"}))
	assert.True(t, containsPhrase(tokens, []string{"a", "b", "a", "c"}))
	assert.False(t, containsPhrase(tokens, []string{"b", "c"}))
	assert.False(t, containsPhrase(tokens, nil))
	assert.False(t, containsPhrase(tokens, []string{"a", "b", "a", "c", "d"}))
}
