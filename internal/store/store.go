// Package store provides the document sources an index build reads from.
// A store is listed exactly once per build; the index never writes back.
package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/document"
)

// DocumentStore lists the corpus to index. Implementations return
// documents ordered by id.
type DocumentStore interface {
	ListDocuments(ctx context.Context) ([]document.Document, error)
}

// Writer is implemented by stores that accept document changes from the
// host. Changes are visible to the next build only.
type Writer interface {
	Upsert(ctx context.Context, doc document.Document) error
	Remove(ctx context.Context, id uint32) (bool, error)
}

// MemoryStore holds documents in memory. It is safe for concurrent use;
// Put and Delete take effect on the next build.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[uint32]document.Document
}

func NewMemoryStore(docs ...document.Document) *MemoryStore {
	s := &MemoryStore{docs: make(map[uint32]document.Document, len(docs))}
	for _, d := range docs {
		s.docs[d.ID] = d
	}
	return s
}

// Put inserts or replaces the document with d.ID.
func (s *MemoryStore) Put(d document.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[d.ID] = d
}

// Delete removes a document and reports whether it existed.
func (s *MemoryStore) Delete(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[id]
	delete(s.docs, id)
	return ok
}

func (s *MemoryStore) Upsert(ctx context.Context, d document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Put(d)
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, id uint32) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.Delete(id), nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func (s *MemoryStore) ListDocuments(ctx context.Context) ([]document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]document.Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	slices.SortFunc(docs, func(a, b document.Document) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return docs, nil
}

// DemoCorpus is the small recipe corpus served when no other backend is
// configured.
func DemoCorpus() []document.Document {
	return []document.Document{
		{ID: 1, Text: "apple pie and banana smoothie"},
		{ID: 2, Text: "banana apple fruit salad"},
		{ID: 3, Text: "chocolate pie and lemon tart"},
		{ID: 4, Text: "pie pie and and pie"},
		{ID: 5, Text: "lemon meringue pie and apple crumble"},
	}
}
