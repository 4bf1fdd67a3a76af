package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/consumer"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/ingestion/publisher"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/store"
	apperrors "github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/metrics"
)

func newMux(pub publisher.Publisher, maxText int) *http.ServeMux {
	return newMuxWithMetrics(pub, maxText, nil)
}

func newMuxWithMetrics(pub publisher.Publisher, maxText int, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	New(pub, maxText, m).Register(mux)
	return mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestUpsertThenDelete(t *testing.T) {
	st := store.NewMemoryStore(store.DemoCorpus()...)
	engine := indexer.NewEngine(st)
	mux := newMux(publisher.NewDirect(st, engine), 0)

	rec := do(mux, http.MethodPut, "/api/v1/documents/6", `{"text":"pie crust"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp ingestion.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint32(6), resp.DocumentID)
	assert.Equal(t, consumer.OpUpsert, resp.Op)
	assert.Equal(t, ingestion.StatusIndexed, resp.Status)
	assert.NotEmpty(t, resp.Generation)

	rec = do(mux, http.MethodDelete, "/api/v1/documents/6", "")
	require.Equal(t, http.StatusOK, rec.Code)

	snap, err := engine.Current()
	require.NoError(t, err)
	assert.True(t, snap.Inverted.SearchWord("crust").IsEmpty())
}

func TestUpsert_Validation(t *testing.T) {
	st := store.NewMemoryStore()
	mux := newMux(publisher.NewDirect(st, indexer.NewEngine(st)), 8)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"bad id", "/api/v1/documents/abc", `{"text":"x"}`, http.StatusBadRequest},
		{"negative id", "/api/v1/documents/-1", `{"text":"x"}`, http.StatusBadRequest},
		{"invalid json", "/api/v1/documents/1", `{"text":`, http.StatusBadRequest},
		{"blank text", "/api/v1/documents/1", `{"text":"   "}`, http.StatusBadRequest},
		{"text over limit", "/api/v1/documents/1", `{"text":"123456789"}`, http.StatusBadRequest},
		{"body over limit", "/api/v1/documents/1", `{"text":"` + strings.Repeat("a", 4096) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(mux, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
	assert.Equal(t, 0, st.Len())
}

type stubPublisher struct {
	resp *ingestion.Response
	err  error
	got  []consumer.IngestEvent
}

func (s *stubPublisher) Submit(_ context.Context, e consumer.IngestEvent) (*ingestion.Response, error) {
	s.got = append(s.got, e)
	return s.resp, s.err
}

func TestQueuedWriteAnswersAccepted(t *testing.T) {
	pub := &stubPublisher{resp: &ingestion.Response{DocumentID: 9, Op: consumer.OpDelete, Status: ingestion.StatusQueued}}
	rec := do(newMux(pub, 0), http.MethodDelete, "/api/v1/documents/9", "")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []consumer.IngestEvent{{Op: consumer.OpDelete, DocumentID: 9}}, pub.got)
}

func TestWriteFailureMapsStatus(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	pub := &stubPublisher{err: apperrors.New(apperrors.ErrStoreUnavailable, http.StatusServiceUnavailable, "down")}
	rec := do(newMuxWithMetrics(pub, 0, m), http.MethodPut, "/api/v1/documents/1", `{"text":"apple"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"document write failed"}`, rec.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IngestWritesTotal.WithLabelValues(consumer.OpUpsert, "error")))
}
