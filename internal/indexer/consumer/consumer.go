// Package consumer turns document-ingest notifications from Kafka into
// index rebuilds. Notifications carry the change so that a mutable store
// can apply it before the rebuild; stores that are written elsewhere
// (PostgreSQL) only need the rebuild.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/document"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/store"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/kafka"
)

const (
	OpUpsert = "upsert"
	OpDelete = "delete"
	// OpRefresh asks for a rebuild without carrying a change.
	OpRefresh = "refresh"
)

// IngestEvent is the JSON payload of the document-ingest topic.
type IngestEvent struct {
	Op         string `json:"op"`
	DocumentID uint32 `json:"document_id"`
	Text       string `json:"text,omitempty"`
}

// ErrUnknownOp marks an event whose Op is not one of the Op constants.
var ErrUnknownOp = errors.New("unknown ingest op")

// Rebuilder is satisfied by *indexer.Engine.
type Rebuilder interface {
	Rebuild(ctx context.Context) (*indexer.Snapshot, error)
}

// IndexConsumer wraps a Kafka consumer to drive index rebuilds.
type IndexConsumer struct {
	consumer *kafka.Consumer
	logger   *slog.Logger
}

func New(kafkaConsumer *kafka.Consumer) *IndexConsumer {
	return &IndexConsumer{
		consumer: kafkaConsumer,
		logger:   slog.Default().With("component", "index-consumer"),
	}
}

// Start blocks until ctx is cancelled.
func (ic *IndexConsumer) Start(ctx context.Context) error {
	ic.logger.Info("index consumer starting")
	return ic.consumer.Start(ctx)
}

// Apply writes event to st. A nil st accepts every event without
// writing, for stores that are changed elsewhere.
func Apply(ctx context.Context, st store.Writer, event IngestEvent) error {
	switch event.Op {
	case OpUpsert:
		if st == nil {
			return nil
		}
		return st.Upsert(ctx, document.Document{ID: event.DocumentID, Text: event.Text})
	case OpDelete:
		if st == nil {
			return nil
		}
		if _, err := st.Remove(ctx, event.DocumentID); err != nil {
			return err
		}
		return nil
	case OpRefresh:
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, event.Op)
	}
}

// HandleMessage returns a MessageHandler that applies each event to st
// and rebuilds. Undecodable or unknown events are logged and committed;
// a failed write or rebuild leaves the message uncommitted.
func HandleMessage(rebuilder Rebuilder, st store.Writer) kafka.MessageHandler {
	logger := slog.Default().With("component", "index-consumer")
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[IngestEvent](value)
		if err != nil {
			logger.Error("failed to decode ingest event", "error", err, "key", string(key))
			return nil
		}

		if err := Apply(ctx, st, event); err != nil {
			if errors.Is(err, ErrUnknownOp) {
				logger.Warn("ignoring ingest event with unknown op", "op", event.Op, "doc_id", event.DocumentID)
				return nil
			}
			return fmt.Errorf("applying %s of document %d: %w", event.Op, event.DocumentID, err)
		}

		snap, err := rebuilder.Rebuild(ctx)
		if err != nil {
			return fmt.Errorf("rebuilding after %s of document %d: %w", event.Op, event.DocumentID, err)
		}
		logger.Info("ingest event applied",
			"op", event.Op,
			"doc_id", event.DocumentID,
			"generation", snap.Generation,
		)
		return nil
	}
}
