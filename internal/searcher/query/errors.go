package query

import (
	"fmt"

	apperrors "github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/errors"
)

// ErrMalformedQuery is the sentinel wrapped by every QueryError.
var ErrMalformedQuery = apperrors.ErrMalformedQuery

// QueryError describes why a boolean query cannot be evaluated as
// written.
type QueryError struct {
	Query  string
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrMalformedQuery, e.Query, e.Reason)
}

func (e *QueryError) Unwrap() error {
	return ErrMalformedQuery
}
