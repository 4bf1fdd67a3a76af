package trie

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/document"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/tokenizer"
)

var recipes = []document.Document{
	{ID: 1, Text: "apple pie and banana smoothie"},
	{ID: 2, Text: "banana apple fruit salad"},
	{ID: 3, Text: "chocolate pie and lemon tart"},
}

func TestSearchWord(t *testing.T) {
	tr := Build(recipes)

	assert.Equal(t, []uint32{1, 3}, index.DocIDs(tr.SearchWord("pie")))
	assert.Equal(t, []uint32{1, 2}, index.DocIDs(tr.SearchWord("apple")))
	assert.Equal(t, []uint32{1, 2}, index.DocIDs(tr.SearchWord("BANANA")))
	assert.Equal(t, []uint32{}, index.DocIDs(tr.SearchWord("missing")))
	assert.Equal(t, []uint32{}, index.DocIDs(tr.SearchWord("")))
}

func TestSearchWord_PrefixIsNotAWord(t *testing.T) {
	tr := New()
	tr.Insert("banana", 1)
	tr.Insert("band", 2)

	assert.Equal(t, []uint32{}, index.DocIDs(tr.SearchWord("ban")))
	assert.Equal(t, []uint32{1, 2}, index.DocIDs(tr.SearchPrefix("ban")))

	tr.Insert("ban", 3)
	assert.Equal(t, []uint32{3}, index.DocIDs(tr.SearchWord("ban")),
		"exact lookups must not see ids accumulated from longer words")
	assert.Equal(t, []uint32{1, 2, 3}, index.DocIDs(tr.SearchPrefix("ban")))
}

func TestSearchWord_ExactWordIdsOnly(t *testing.T) {
	tr := New()
	tr.Insert("pie", 1)
	tr.Insert("pies", 2)

	assert.Equal(t, []uint32{1}, index.DocIDs(tr.SearchWord("pie")))
	assert.Equal(t, []uint32{1, 2}, index.DocIDs(tr.SearchPrefix("pie")))
	assert.Equal(t, []uint32{2}, index.DocIDs(tr.SearchWord("pies")))
}

func TestSearchPrefix(t *testing.T) {
	tr := Build(recipes)

	assert.Equal(t, []uint32{1, 2}, index.DocIDs(tr.SearchPrefix("ba")))
	assert.Equal(t, []uint32{1, 3}, index.DocIDs(tr.SearchPrefix("P")))
	assert.Equal(t, []uint32{1, 2, 3}, index.DocIDs(tr.SearchPrefix("")))
	assert.Equal(t, []uint32{}, index.DocIDs(tr.SearchPrefix("zz")))
}

func TestSearchPrefix_MatchesInvertedIndex(t *testing.T) {
	corpus := []document.Document{
		{ID: 1, Text: "apple pie and banana smoothie"},
		{ID: 2, Text: "banana apple fruit salad"},
		{ID: 3, Text: "chocolate pie and lemon tart"},
		{ID: 4, Text: "band bandana banner ban"},
		{ID: 5, Text: "pineapple pie pies"},
		{ID: 6, Text: "Apple PIE Bandana"},
		{ID: 7, Text: "APRICOT"},
	}
	tr := Build(corpus)
	ii := index.Build(corpus)

	prefixes := []string{"", "a", "an", "b", "ba", "ban", "band", "p", "pi", "pie", "pies", "x", "Ap", "AP", "Ban", "PI"}
	for _, term := range ii.Terms() {
		for i := 1; i <= len(term); i++ {
			prefixes = append(prefixes, term[:i])
		}
	}
	for _, p := range prefixes {
		assert.Equal(t, index.DocIDs(ii.SearchPrefix(p)), index.DocIDs(tr.SearchPrefix(p)), "prefix %q", p)
	}
}

func TestAutocomplete(t *testing.T) {
	tr := Build([]document.Document{
		{ID: 1, Text: "banana band bandana"},
		{ID: 2, Text: "banner ban apple"},
	})

	assert.Equal(t, []string{"ban", "banana", "band", "bandana", "banner"}, tr.Autocomplete("ba", 0))
	assert.Equal(t, []string{"band", "bandana"}, tr.Autocomplete("band", 10))
	assert.Equal(t, []string{"apple"}, tr.Autocomplete("APP", 5))
	assert.Empty(t, tr.Autocomplete("zzz", 5))
}

func TestAutocomplete_EmptyPrefix(t *testing.T) {
	tr := Build(recipes)
	got := tr.Autocomplete("", 10)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAutocomplete_Limit(t *testing.T) {
	tr := New()
	for i := 0; i < 50; i++ {
		tr.Insert(fmt.Sprintf("word%02d", i), uint32(i))
	}

	got := tr.Autocomplete("word", 0)
	require.Len(t, got, DefaultAutocompleteLimit)
	assert.True(t, sort.StringsAreSorted(got))
	assert.Equal(t, "word00", got[0])
	assert.Equal(t, "word19", got[len(got)-1])

	assert.Len(t, tr.Autocomplete("word", 3), 3)
	assert.Len(t, tr.Autocomplete("word", 500), 50)
}

func TestAutocomplete_Deterministic(t *testing.T) {
	tr := Build(recipes)
	first := tr.Autocomplete("a", 2)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, tr.Autocomplete("a", 2))
	}
}

func TestAutocomplete_SuggestionsAreIndexedWords(t *testing.T) {
	tr := Build(recipes)
	for _, prefix := range []string{"a", "b", "c", "l", "p", "s", "t", "ap", "ban"} {
		for _, word := range tr.Autocomplete(prefix, 5) {
			assert.True(t, strings.HasPrefix(word, prefix), "%q does not start with %q", word, prefix)
			assert.False(t, tr.SearchWord(word).IsEmpty(), "%q is not a complete word", word)
		}
	}
	assert.Contains(t, tr.Autocomplete("ba", 0), "banana")
}

func TestCounts(t *testing.T) {
	tr := New()
	tr.Insert("pie", 1)
	tr.Insert("pie", 2)
	tr.Insert("pies", 2)
	tr.Insert("", 3)

	assert.Equal(t, 2, tr.WordCount())
	assert.Equal(t, 5, tr.NodeCount())
}

func TestUnicodeWords(t *testing.T) {
	tr := New()
	tr.Insert("Café", 1)
	tr.Insert("cafés", 2)

	assert.Equal(t, []uint32{1}, index.DocIDs(tr.SearchWord("café")))
	assert.Equal(t, []string{"café", "cafés"}, tr.Autocomplete("caf", 0))
}

func TestEveryIndexedWordFindsItsDocument(t *testing.T) {
	tr := Build(recipes)
	for _, d := range recipes {
		for _, w := range tokenizer.Words(d.Text) {
			assert.True(t, tr.SearchWord(w).Contains(d.ID), "word %q doc %d", w, d.ID)
		}
	}
}

func BenchmarkAutocomplete(b *testing.B) {
	tr := New()
	for i := 0; i < 10000; i++ {
		tr.Insert(fmt.Sprintf("term%d", i), uint32(i))
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tr.Autocomplete("term1", DefaultAutocompleteLimit)
	}
}
