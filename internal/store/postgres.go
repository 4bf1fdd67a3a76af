package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/document"
)

const (
	listDocumentsQuery  = `SELECT id, body FROM documents ORDER BY id`
	upsertDocumentQuery = `INSERT INTO documents (id, body) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body`
	deleteDocumentQuery = `DELETE FROM documents WHERE id = $1`
)

// PostgresStore lists documents from the documents(id, body) table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListDocuments(ctx context.Context) ([]document.Document, error) {
	rows, err := s.db.QueryContext(ctx, listDocumentsQuery)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []document.Document
	for rows.Next() {
		var (
			id   int64
			body string
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		if id < 0 || id > int64(^uint32(0)) {
			return nil, fmt.Errorf("document id %d out of range", id)
		}
		docs = append(docs, document.Document{ID: uint32(id), Text: body})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, doc document.Document) error {
	if _, err := s.db.ExecContext(ctx, upsertDocumentQuery, int64(doc.ID), doc.Text); err != nil {
		return fmt.Errorf("upserting document %d: %w", doc.ID, err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, id uint32) (bool, error) {
	res, err := s.db.ExecContext(ctx, deleteDocumentQuery, int64(id))
	if err != nil {
		return false, fmt.Errorf("deleting document %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting document %d: %w", id, err)
	}
	return n > 0, nil
}

// ImportDocuments upserts docs inside tx with one prepared statement.
func ImportDocuments(ctx context.Context, tx *sql.Tx, docs []document.Document) error {
	stmt, err := tx.PrepareContext(ctx, upsertDocumentQuery)
	if err != nil {
		return fmt.Errorf("preparing document upsert: %w", err)
	}
	defer stmt.Close()
	for _, doc := range docs {
		if _, err := stmt.ExecContext(ctx, int64(doc.ID), doc.Text); err != nil {
			return fmt.Errorf("importing document %d: %w", doc.ID, err)
		}
	}
	return nil
}

// EnsureSchema creates the documents table when it is missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS documents (
		id   BIGINT PRIMARY KEY CHECK (id >= 0 AND id <= 4294967295),
		body TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	return nil
}
