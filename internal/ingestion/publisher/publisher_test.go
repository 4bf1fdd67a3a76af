package publisher

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/consumer"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/store"
	apperrors "github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/kafka"
)

type recordingProducer struct {
	events []kafka.Event
	err    error
}

func (p *recordingProducer) Publish(_ context.Context, e kafka.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingProducer) PublishBatch(ctx context.Context, events []kafka.Event) error {
	for _, e := range events {
		if err := p.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func TestDirect_UpsertIsSearchableOnReturn(t *testing.T) {
	st := store.NewMemoryStore(store.DemoCorpus()...)
	engine := indexer.NewEngine(st)
	ctx := context.Background()

	resp, err := NewDirect(st, engine).Submit(ctx, consumer.IngestEvent{Op: consumer.OpUpsert, DocumentID: 6, Text: "pie crust"})
	require.NoError(t, err)
	assert.Equal(t, ingestion.StatusIndexed, resp.Status)

	snap, err := engine.Current()
	require.NoError(t, err)
	assert.Equal(t, snap.Generation, resp.Generation)
	assert.Equal(t, []uint32{1, 3, 4, 5, 6}, snap.Inverted.SearchWord("pie").ToArray())
}

func TestDirect_Delete(t *testing.T) {
	st := store.NewMemoryStore(store.DemoCorpus()...)
	engine := indexer.NewEngine(st)

	_, err := NewDirect(st, engine).Submit(context.Background(), consumer.IngestEvent{Op: consumer.OpDelete, DocumentID: 2})
	require.NoError(t, err)

	snap, err := engine.Current()
	require.NoError(t, err)
	assert.True(t, snap.Inverted.SearchPhrase("banana apple").IsEmpty())
}

func TestDirect_UnknownOp(t *testing.T) {
	st := store.NewMemoryStore()
	_, err := NewDirect(st, indexer.NewEngine(st)).Submit(context.Background(), consumer.IngestEvent{Op: "truncate"})
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatusCode(err))
}

func TestQueue(t *testing.T) {
	p := &recordingProducer{}
	resp, err := NewQueue(p).Submit(context.Background(), consumer.IngestEvent{Op: consumer.OpUpsert, DocumentID: 42, Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, ingestion.StatusQueued, resp.Status)
	assert.Empty(t, resp.Generation)
	require.Len(t, p.events, 1)
	assert.Equal(t, "42", p.events[0].Key)
	assert.Equal(t, consumer.IngestEvent{Op: consumer.OpUpsert, DocumentID: 42, Text: "x"}, p.events[0].Value)
}

func TestQueue_BrokerDown(t *testing.T) {
	p := &recordingProducer{err: errors.New("dial tcp: connection refused")}
	_, err := NewQueue(p).Submit(context.Background(), consumer.IngestEvent{Op: consumer.OpDelete, DocumentID: 1})
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.HTTPStatusCode(err))
}

var (
	_ Publisher = (*Direct)(nil)
	_ Publisher = (*Queue)(nil)
)
