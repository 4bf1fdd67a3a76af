// Package tokenizer splits raw document text into positioned tokens.
// Tokens keep their original casing; components that match
// case-insensitively call Normalize on both the index and query side.
package tokenizer

import (
	"strings"
)

// Token represents a single word and its ordinal position in the
// original text.
type Token struct {
	Word     string
	Position int
}

// Tokenize breaks text into whitespace-delimited Tokens. Runs of
// whitespace count as one delimiter and positions restart at zero on
// every call.
func Tokenize(text string) []Token {
	words := strings.Fields(text)
	tokens := make([]Token, 0, len(words))
	for pos, word := range words {
		tokens = append(tokens, Token{
			Word:     word,
			Position: pos,
		})
	}
	return tokens
}

// Words returns only the words of Tokenize(text), in order.
func Words(text string) []string {
	return strings.Fields(text)
}

// Normalize lower-cases a word. It must be applied identically at build
// time and at query time.
func Normalize(word string) string {
	return strings.ToLower(word)
}
