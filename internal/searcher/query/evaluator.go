// Package query evaluates boolean search expressions made of bare terms,
// the operators AND and OR, and parentheses.
//
// Evaluation uses two explicit stacks (operand document sets and operator
// tokens) instead of a parse tree. AND binds tighter than OR, both are
// left-associative and parentheses override precedence.
//
// Evaluate is lenient: unmatched parentheses are tolerated, and a query
// that leaves anything but exactly one operand yields the empty set.
// Validate reports the same problems, plus unbalanced parentheses, as a
// *QueryError for callers that reject bad input up front.
package query

import (
	"fmt"
	"log/slog"

	"github.com/RoaringBitmap/roaring/v2"
)

// WordSearcher resolves a single term to the set of documents holding it.
// Returned sets must be safe for the caller to keep.
type WordSearcher interface {
	SearchWord(word string) *roaring.Bitmap
}

type Evaluator struct {
	searcher WordSearcher
	logger   *slog.Logger
}

func NewEvaluator(searcher WordSearcher) *Evaluator {
	return &Evaluator{
		searcher: searcher,
		logger:   slog.Default().With("component", "boolean-evaluator"),
	}
}

// Evaluate returns the documents matching query, or the empty set when
// the query is empty or malformed.
func (e *Evaluator) Evaluate(query string) *roaring.Bitmap {
	result, err := evaluate(query, Tokenize(query), e.searcher.SearchWord)
	if err != nil {
		e.logger.Debug("boolean query yielded no operand", "query", query, "error", err)
		return roaring.New()
	}
	return result
}

// Validate checks query for empty input, unbalanced parentheses, missing
// operands and missing operators without touching any index.
func Validate(query string) error {
	tokens := Tokenize(query)
	depth := 0
	for _, tok := range tokens {
		switch tok {
		case LeftParen:
			depth++
		case RightParen:
			if depth == 0 {
				return &QueryError{Query: query, Reason: "unmatched closing parenthesis"}
			}
			depth--
		}
	}
	if depth > 0 {
		return &QueryError{Query: query, Reason: "unmatched opening parenthesis"}
	}
	_, err := evaluate(query, tokens, func(string) *roaring.Bitmap { return roaring.New() })
	return err
}

type machine struct {
	operands  []*roaring.Bitmap
	operators []string
}

func (m *machine) apply(query, op string) error {
	if op == LeftParen {
		return nil
	}
	n := len(m.operands)
	if n < 2 {
		return &QueryError{Query: query, Reason: fmt.Sprintf("operator %s is missing an operand", op)}
	}
	right := m.operands[n-1]
	left := m.operands[n-2]
	m.operands = m.operands[:n-2]
	switch op {
	case OpAnd:
		m.operands = append(m.operands, roaring.And(left, right))
	case OpOr:
		m.operands = append(m.operands, roaring.Or(left, right))
	}
	return nil
}

func (m *machine) popOperator() string {
	top := m.operators[len(m.operators)-1]
	m.operators = m.operators[:len(m.operators)-1]
	return top
}

func evaluate(query string, tokens []string, search func(string) *roaring.Bitmap) (*roaring.Bitmap, error) {
	m := &machine{}
	for _, tok := range tokens {
		switch {
		case tok == LeftParen:
			m.operators = append(m.operators, tok)
		case tok == RightParen:
			// An unmatched ")" drains the stack and is otherwise ignored.
			for len(m.operators) > 0 {
				top := m.popOperator()
				if top == LeftParen {
					break
				}
				if err := m.apply(query, top); err != nil {
					return nil, err
				}
			}
		case isOperator(tok):
			for len(m.operators) > 0 && precedence(m.operators[len(m.operators)-1]) >= precedence(tok) {
				if err := m.apply(query, m.popOperator()); err != nil {
					return nil, err
				}
			}
			m.operators = append(m.operators, tok)
		default:
			m.operands = append(m.operands, search(tok))
		}
	}
	for len(m.operators) > 0 {
		if err := m.apply(query, m.popOperator()); err != nil {
			return nil, err
		}
	}
	switch len(m.operands) {
	case 0:
		return nil, &QueryError{Query: query, Reason: "no search terms"}
	case 1:
		return m.operands[0], nil
	default:
		return nil, &QueryError{Query: query, Reason: fmt.Sprintf("%d terms are not joined by an operator", len(m.operands))}
	}
}
