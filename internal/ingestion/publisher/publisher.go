// Package publisher hands document writes to the index. A Direct publisher
// writes to the store and rebuilds before returning; a Queue publisher
// forwards the change to the document-ingest topic.
package publisher

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/consumer"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/store"
	apperrors "github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/kafka"
)

// Publisher accepts one document change.
type Publisher interface {
	Submit(ctx context.Context, event consumer.IngestEvent) (*ingestion.Response, error)
}

// Direct applies changes in process.
type Direct struct {
	store     store.Writer
	rebuilder consumer.Rebuilder
	logger    *slog.Logger
}

func NewDirect(st store.Writer, rebuilder consumer.Rebuilder) *Direct {
	return &Direct{
		store:     st,
		rebuilder: rebuilder,
		logger:    slog.Default().With("component", "ingest-publisher", "mode", "direct"),
	}
}

func (d *Direct) Submit(ctx context.Context, event consumer.IngestEvent) (*ingestion.Response, error) {
	if err := consumer.Apply(ctx, d.store, event); err != nil {
		if apperrors.Is(err, consumer.ErrUnknownOp) {
			return nil, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, err.Error())
		}
		return nil, apperrors.Newf(apperrors.ErrStoreUnavailable, http.StatusServiceUnavailable,
			"writing document %d: %v", event.DocumentID, err)
	}
	snap, err := d.rebuilder.Rebuild(ctx)
	if err != nil {
		// The store already holds the change; the next successful build
		// picks it up.
		d.logger.Error("rebuild after write failed", "op", event.Op, "doc_id", event.DocumentID, "error", err)
		return nil, err
	}
	return &ingestion.Response{
		DocumentID: event.DocumentID,
		Op:         event.Op,
		Status:     ingestion.StatusIndexed,
		Generation: snap.Generation,
	}, nil
}

// Queue publishes changes keyed by document id so that changes to one
// document stay ordered within a partition.
type Queue struct {
	producer kafka.Publisher
	logger   *slog.Logger
}

func NewQueue(producer kafka.Publisher) *Queue {
	return &Queue{
		producer: producer,
		logger:   slog.Default().With("component", "ingest-publisher", "mode", "queue"),
	}
}

func (q *Queue) Submit(ctx context.Context, event consumer.IngestEvent) (*ingestion.Response, error) {
	err := q.producer.Publish(ctx, kafka.Event{
		Key:   strconv.FormatUint(uint64(event.DocumentID), 10),
		Value: event,
	})
	if err != nil {
		q.logger.Error("failed to queue document change", "op", event.Op, "doc_id", event.DocumentID, "error", err)
		return nil, apperrors.New(apperrors.ErrStoreUnavailable, http.StatusServiceUnavailable, "ingest queue unavailable")
	}
	return &ingestion.Response{
		DocumentID: event.DocumentID,
		Op:         event.Op,
		Status:     ingestion.StatusQueued,
	}, nil
}
