// Package validator checks document write requests and returns per-field
// error details.
package validator

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/ingestion"
)

// DefaultMaxTextBytes bounds a document body when no limit is configured.
const DefaultMaxTextBytes = 1 << 20

// ValidationError holds per-field validation failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(parts, "; ")
}

// ParseDocumentID parses a path segment as an unsigned 32-bit document id.
func ParseDocumentID(raw string) (uint32, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, &ValidationError{Fields: map[string]string{
			"id": "must be an integer between 0 and 4294967295",
		}}
	}
	return uint32(id), nil
}

// ValidateUpsert checks that the body has at least one token and fits in
// maxBytes (DefaultMaxTextBytes when maxBytes <= 0).
func ValidateUpsert(req *ingestion.UpsertRequest, maxBytes int) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxTextBytes
	}
	errs := make(map[string]string)
	switch {
	case strings.TrimSpace(req.Text) == "":
		errs["text"] = "text is required and must contain at least one word"
	case len(req.Text) > maxBytes:
		errs["text"] = fmt.Sprintf("text must be at most %d bytes", maxBytes)
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
