package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{"empty", "", []Token{}},
		{"only whitespace", " \t\n  ", []Token{}},
		{"single word", "apple", []Token{{"apple", 0}}},
		{"basic", "apple pie and", []Token{{"apple", 0}, {"pie", 1}, {"and", 2}}},
		{"leading and trailing", "  apple pie  ", []Token{{"apple", 0}, {"pie", 1}}},
		{"mixed whitespace runs", "apple\t\tpie\n and", []Token{{"apple", 0}, {"pie", 1}, {"and", 2}}},
		{"preserves case and punctuation", "Apple, PIE!", []Token{{"Apple,", 0}, {"PIE!", 1}}},
		{"repeated word", "pie pie", []Token{{"pie", 0}, {"pie", 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestTokenize_PositionsRestartPerCall(t *testing.T) {
	first := Tokenize("one two three")
	second := Tokenize("four five")

	assert.Equal(t, 2, first[2].Position)
	assert.Equal(t, 0, second[0].Position)
	assert.Equal(t, 1, second[1].Position)
}

func TestTokenize_Deterministic(t *testing.T) {
	text := "banana apple fruit salad"
	assert.Equal(t, Tokenize(text), Tokenize(text))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"banana", "apple"}, Words("  banana   apple "))
	assert.Empty(t, Words(""))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "banana", Normalize("BaNaNa"))
	assert.Equal(t, "café", Normalize("CAFÉ"))
}

func BenchmarkTokenize(b *testing.B) {
	text := "distributed search engines process queries across multiple shards to achieve horizontal scalability"
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for i := 0; i < b.N; i++ {
		_ = Tokenize(text)
	}
}
