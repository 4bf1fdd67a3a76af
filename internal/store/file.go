package store

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/document"
)

const maxLineBytes = 16 << 20

// LineFileStore reads one document per line of a text file. A document's
// id is its 1-based line number; blank lines consume a number but yield
// no document. The file is re-read on every build.
type LineFileStore struct {
	path string
}

func NewLineFileStore(path string) *LineFileStore {
	return &LineFileStore{path: path}
}

func (s *LineFileStore) ListDocuments(ctx context.Context) ([]document.Document, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus %s: %w", s.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var docs []document.Document
	var line uint32
	for scanner.Scan() {
		line++
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, document.Document{ID: line, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus %s at line %d: %w", s.path, line+1, err)
	}
	return docs, nil
}
