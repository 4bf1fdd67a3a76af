package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/document"
)

// TS_TEST_POSTGRES_DSN points at a disposable database; the test is skipped
// without it.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TS_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, EnsureSchema(ctx, db))
	_, err = db.ExecContext(ctx, `TRUNCATE documents`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO documents (id, body) VALUES (2, 'banana apple'), (1, 'apple pie')`)
	require.NoError(t, err)

	docs, err := NewPostgresStore(db).ListDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []document.Document{
		{ID: 1, Text: "apple pie"},
		{ID: 2, Text: "banana apple"},
	}, docs)

	st := NewPostgresStore(db)
	require.NoError(t, st.Upsert(ctx, document.Document{ID: 2, Text: "banana split"}))
	removed, err := st.Remove(ctx, 1)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = st.Remove(ctx, 1)
	require.NoError(t, err)
	assert.False(t, removed)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, ImportDocuments(ctx, tx, []document.Document{{ID: 7, Text: "lemon tart"}}))
	require.NoError(t, tx.Commit())

	docs, err = st.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []document.Document{
		{ID: 2, Text: "banana split"},
		{ID: 7, Text: "lemon tart"},
	}, docs)
}

var (
	_ Writer = (*PostgresStore)(nil)
	_ Writer = (*MemoryStore)(nil)
)
