package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/document"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/store"
)

func encode(t *testing.T, e IngestEvent) []byte {
	t.Helper()
	b, err := json.Marshal(e)
	require.NoError(t, err)
	return b
}

func TestHandleMessage_UpsertAndDelete(t *testing.T) {
	st := store.NewMemoryStore(store.DemoCorpus()...)
	engine := indexer.NewEngine(st)
	handle := HandleMessage(engine, st)
	ctx := context.Background()

	require.NoError(t, handle(ctx, []byte("6"), encode(t, IngestEvent{Op: OpUpsert, DocumentID: 6, Text: "pie crust"})))
	snap, err := engine.Current()
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 3, 4, 5, 6}, snap.Inverted.SearchWord("pie").ToArray())

	require.NoError(t, handle(ctx, []byte("1"), encode(t, IngestEvent{Op: OpDelete, DocumentID: 1})))
	snap, err = engine.Current()
	require.NoError(t, err)
	assert.Equal(t, []uint32{3, 4, 5, 6}, snap.Inverted.SearchWord("pie").ToArray())
}

func TestHandleMessage_RefreshWithoutStore(t *testing.T) {
	st := store.NewMemoryStore(store.DemoCorpus()...)
	engine := indexer.NewEngine(st)

	require.NoError(t, HandleMessage(engine, nil)(context.Background(), nil, encode(t, IngestEvent{Op: OpRefresh})))
	assert.True(t, engine.Ready())
}

type failingRebuilder struct{ calls int }

func (f *failingRebuilder) Rebuild(context.Context) (*indexer.Snapshot, error) {
	f.calls++
	return nil, errors.New("store unavailable")
}

func TestHandleMessage_Failures(t *testing.T) {
	rb := &failingRebuilder{}
	handle := HandleMessage(rb, nil)
	ctx := context.Background()

	assert.NoError(t, handle(ctx, nil, []byte("{not json")), "poison messages are committed")
	assert.NoError(t, handle(ctx, nil, encode(t, IngestEvent{Op: "truncate"})))
	assert.Equal(t, 0, rb.calls)

	err := handle(ctx, nil, encode(t, IngestEvent{Op: OpUpsert, DocumentID: 1, Text: "x"}))
	assert.ErrorContains(t, err, "rebuilding after upsert of document 1")
	assert.Equal(t, 1, rb.calls)
}

type brokenWriter struct{}

func (brokenWriter) Upsert(context.Context, document.Document) error {
	return errors.New("connection refused")
}

func (brokenWriter) Remove(context.Context, uint32) (bool, error) {
	return false, errors.New("connection refused")
}

func TestHandleMessage_WriteFailureIsRetried(t *testing.T) {
	rb := &failingRebuilder{}
	err := HandleMessage(rb, brokenWriter{})(context.Background(), nil, encode(t, IngestEvent{Op: OpDelete, DocumentID: 4}))
	assert.ErrorContains(t, err, "applying delete of document 4")
	assert.Equal(t, 0, rb.calls)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	require.NoError(t, Apply(ctx, st, IngestEvent{Op: OpUpsert, DocumentID: 1, Text: "apple"}))
	assert.Equal(t, 1, st.Len())
	require.NoError(t, Apply(ctx, st, IngestEvent{Op: OpDelete, DocumentID: 99}))
	require.NoError(t, Apply(ctx, st, IngestEvent{Op: OpRefresh}))
	require.NoError(t, Apply(ctx, nil, IngestEvent{Op: OpUpsert, DocumentID: 2, Text: "pie"}))
	assert.ErrorIs(t, Apply(ctx, st, IngestEvent{Op: "truncate"}), ErrUnknownOp)
}

func TestIngestEventJSON(t *testing.T) {
	var e IngestEvent
	require.NoError(t, json.Unmarshal([]byte(`{"op":"upsert","document_id":7,"text":"lemon tart"}`), &e))
	assert.Equal(t, IngestEvent{Op: OpUpsert, DocumentID: 7, Text: "lemon tart"}, e)
}
