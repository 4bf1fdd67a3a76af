package query

import (
	"strings"
	"unicode"
)

const (
	OpAnd      = "AND"
	OpOr       = "OR"
	LeftParen  = "("
	RightParen = ")"
)

// Tokenize splits a boolean query into terms, operators and parentheses.
// Parentheses are always standalone tokens; any other run of
// non-whitespace characters is one token.
func Tokenize(query string) []string {
	tokens := make([]string, 0)
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}
	for _, r := range query {
		switch {
		case r == '(' || r == ')':
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			word.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func isOperator(tok string) bool {
	return tok == OpAnd || tok == OpOr
}

func precedence(op string) int {
	switch op {
	case OpAnd:
		return 2
	case OpOr:
		return 1
	default:
		return 0
	}
}
