package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/document"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/tokenizer"
)

var recipes = []document.Document{
	{ID: 1, Text: "apple pie and banana smoothie"},
	{ID: 2, Text: "banana apple fruit salad"},
	{ID: 3, Text: "chocolate pie and lemon tart"},
}

func TestSearchWord(t *testing.T) {
	ii := Build(recipes)

	tests := []struct {
		word string
		want []uint32
	}{
		{"pie", []uint32{1, 3}},
		{"apple", []uint32{1, 2}},
		{"banana", []uint32{1, 2}},
		{"tart", []uint32{3}},
		{"missing", []uint32{}},
		{"Apple", []uint32{1, 2}},
		{"PIE", []uint32{1, 3}},
		{"", []uint32{}},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, DocIDs(ii.SearchWord(tt.word)))
		})
	}
}

func TestSearchPhrase(t *testing.T) {
	ii := Build(recipes)

	tests := []struct {
		name   string
		phrase string
		want   []uint32
	}{
		{"adjacent pair", "banana apple", []uint32{2}},
		{"shared phrase", "pie and", []uint32{1, 3}},
		{"three words", "pie and lemon", []uint32{3}},
		{"reversed order", "apple banana", []uint32{}},
		{"not adjacent", "apple smoothie", []uint32{}},
		{"first word absent", "durian apple", []uint32{}},
		{"later word absent", "apple durian", []uint32{}},
		{"extra whitespace", "  banana   apple ", []uint32{2}},
		{"empty phrase", "", []uint32{}},
		{"whitespace phrase", "   ", []uint32{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DocIDs(ii.SearchPhrase(tt.phrase)))
		})
	}
}

func TestSearchPhrase_RepeatedWords(t *testing.T) {
	ii := Build([]document.Document{
		{ID: 7, Text: "to be or not to be"},
		{ID: 8, Text: "be to be"},
	})

	assert.Equal(t, []uint32{7, 8}, DocIDs(ii.SearchPhrase("to be")))
	assert.Equal(t, []uint32{7}, DocIDs(ii.SearchPhrase("not to be")))
	assert.Equal(t, []uint32{8}, DocIDs(ii.SearchPhrase("be to be")))
	assert.Equal(t, []uint32{}, DocIDs(ii.SearchPhrase("be be")))
}

func TestSearchPhrase_SingleWordMatchesSearchWord(t *testing.T) {
	ii := Build(recipes)
	for _, term := range ii.Terms() {
		assert.Equal(t, DocIDs(ii.SearchWord(term)), DocIDs(ii.SearchPhrase(term)), term)
	}
}

func TestSearchPhrase_NoFalsePositives(t *testing.T) {
	ii := Build(recipes)
	byID := make(map[uint32]string, len(recipes))
	for _, d := range recipes {
		byID[d.ID] = " " + strings.Join(tokenizer.Words(d.Text), " ") + " "
	}

	phrases := []string{"apple pie", "banana apple", "pie and", "and banana", "fruit salad", "lemon tart", "apple fruit"}
	for _, p := range phrases {
		got := ii.SearchPhrase(p)
		for id, text := range byID {
			contains := strings.Contains(text, " "+p+" ")
			assert.Equal(t, contains, got.Contains(id), "phrase %q doc %d", p, id)
		}
	}
}

func TestSearchPrefix(t *testing.T) {
	ii := Build(recipes)

	assert.Equal(t, []uint32{1, 2}, DocIDs(ii.SearchPrefix("ba")))
	assert.Equal(t, []uint32{1, 3}, DocIDs(ii.SearchPrefix("p")))
	assert.Equal(t, []uint32{1, 2, 3}, DocIDs(ii.SearchPrefix("")))
	assert.Equal(t, []uint32{}, DocIDs(ii.SearchPrefix("zz")))
}

func TestMixedCaseCorpus(t *testing.T) {
	ii := Build([]document.Document{
		{ID: 1, Text: "Apple pie"},
		{ID: 2, Text: "apricot"},
		{ID: 3, Text: "Banana APPLE"},
	})

	assert.Equal(t, []uint32{1, 3}, DocIDs(ii.SearchWord("apple")))
	assert.Equal(t, []uint32{1, 3}, DocIDs(ii.SearchWord("aPPle")))
	assert.Equal(t, []uint32{1, 2, 3}, DocIDs(ii.SearchPrefix("ap")))
	assert.Equal(t, []uint32{1, 2, 3}, DocIDs(ii.SearchPrefix("Ap")))
	assert.Equal(t, []uint32{3}, DocIDs(ii.SearchPhrase("banana apple")))
	assert.Equal(t, []int{1}, ii.Positions("Apple", 3))
	assert.Equal(t, []string{"apple", "apricot", "banana", "pie"}, ii.Terms())
}

func TestAdd_IdempotentPerDocument(t *testing.T) {
	ii := New()
	assert.True(t, ii.Add(recipes[0]))
	assert.False(t, ii.Add(recipes[0]))
	assert.False(t, ii.Add(document.Document{ID: 1, Text: "completely different"}))

	assert.Equal(t, []int{0}, ii.Positions("apple", 1))
	assert.Equal(t, []uint32{}, DocIDs(ii.SearchWord("completely")))
	assert.Equal(t, 1, ii.DocCount())
}

func TestBuild_Idempotent(t *testing.T) {
	once := Build(recipes)
	twice := Build(append(append([]document.Document{}, recipes...), recipes...))

	assert.Equal(t, once.Snapshot(), twice.Snapshot())
	assert.Equal(t, once.Size(), twice.Size())
}

func TestPositions_DuplicatesPreserved(t *testing.T) {
	ii := Build([]document.Document{{ID: 4, Text: "pie pie apple pie"}})

	assert.Equal(t, []int{0, 1, 3}, ii.Positions("pie", 4))
	assert.Empty(t, ii.Positions("pie", 99))

	positions := ii.Positions("pie", 4)
	positions[0] = 42
	assert.Equal(t, []int{0, 1, 3}, ii.Positions("pie", 4), "Positions must return a copy")
}

func TestSnapshot(t *testing.T) {
	ii := Build(recipes)
	snap := ii.Snapshot()

	require.Len(t, snap, ii.VocabularySize())
	for i := 1; i < len(snap); i++ {
		assert.Less(t, snap[i-1].Term, snap[i].Term)
	}
	var pie TermEntry
	for _, e := range snap {
		if e.Term == "pie" {
			pie = e
		}
	}
	assert.Equal(t, PostingList{
		{DocID: 1, Frequency: 1, Positions: []int{1}},
		{DocID: 3, Frequency: 1, Positions: []int{1}},
	}, pie.Postings)
}

func TestResultsAreCallerOwned(t *testing.T) {
	ii := Build(recipes)
	got := ii.SearchWord("pie")
	got.Add(99)

	assert.Equal(t, []uint32{1, 3}, DocIDs(ii.SearchWord("pie")))
}

func TestEveryIndexedWordFindsItsDocument(t *testing.T) {
	ii := Build(recipes)
	for _, d := range recipes {
		for _, w := range tokenizer.Words(d.Text) {
			assert.True(t, ii.SearchWord(w).Contains(d.ID), "word %q doc %d", w, d.ID)
		}
	}
}

func BenchmarkSearchPhrase(b *testing.B) {
	docs := make([]document.Document, 0, 5000)
	for i := 0; i < 5000; i++ {
		docs = append(docs, document.Document{
			ID:   uint32(i),
			Text: "search engine with distributed indexing and query processing for search engine users",
		})
	}
	ii := Build(docs)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ii.SearchPhrase("search engine users")
	}
}
