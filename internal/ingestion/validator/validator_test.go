package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/ingestion"
)

func TestValidateUpsert(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		max     int
		wantErr string
	}{
		{"ok", "lemon tart", 0, ""},
		{"empty", "", 0, "text: text is required"},
		{"whitespace only", " \t\n", 0, "text: text is required"},
		{"too long", strings.Repeat("a", 11), 10, "text: text must be at most 10 bytes"},
		{"exactly at limit", strings.Repeat("a", 10), 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpsert(&ingestion.UpsertRequest{Text: tt.text}, tt.max)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Contains(t, vErr.Error(), tt.wantErr)
		})
	}
}

func TestParseDocumentID(t *testing.T) {
	id, err := ParseDocumentID("42")
	require.NoError(t, err)
	assert.Equal(t, uint32(42), id)

	id, err = ParseDocumentID("4294967295")
	require.NoError(t, err)
	assert.Equal(t, uint32(4294967295), id)

	for _, raw := range []string{"", "-1", "4294967296", "abc"} {
		_, err := ParseDocumentID(raw)
		var vErr *ValidationError
		assert.True(t, errors.As(err, &vErr), raw)
	}
}

func TestValidationError_SortedFields(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"text": "bad", "id": "worse"}}
	assert.Equal(t, "id: worse; text: bad", err.Error())
}
