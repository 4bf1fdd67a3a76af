// Package analytics records search traffic. Every event feeds the
// in-process Aggregator; when a publisher is configured, events are also
// batched onto Kafka for downstream consumers.
package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/metrics"
)

const (
	defaultBufferSize    = 10000
	defaultBatchSize     = 100
	defaultFlushInterval = 5 * time.Second
)

type CollectorConfig struct {
	BufferSize    int
	BatchSize     int
	FlushInterval time.Duration
}

type Collector struct {
	publisher  kafka.Publisher
	aggregator *Aggregator
	metrics    *metrics.Metrics
	cfg        CollectorConfig
	eventCh    chan QueryEvent
	logger     *slog.Logger

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewCollector creates a Collector. publisher and m may be nil; with a nil
// publisher events only reach the aggregator.
func NewCollector(publisher kafka.Publisher, aggregator *Aggregator, m *metrics.Metrics, cfg CollectorConfig) *Collector {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaultFlushInterval
	}
	return &Collector{
		publisher:  publisher,
		aggregator: aggregator,
		metrics:    m,
		cfg:        cfg,
		eventCh:    make(chan QueryEvent, cfg.BufferSize),
		logger:     slog.Default().With("component", "analytics-collector"),
		done:       make(chan struct{}),
	}
}

// Start launches the publish loop. It is a no-op without a publisher.
func (c *Collector) Start(ctx context.Context) {
	if c.publisher == nil {
		return
	}
	c.startOnce.Do(func() {
		ctx, c.cancel = context.WithCancel(ctx)
		go c.run(ctx)
		c.logger.Info("analytics collector started",
			"buffer_size", c.cfg.BufferSize,
			"batch_size", c.cfg.BatchSize,
			"flush_interval", c.cfg.FlushInterval,
		)
	})
}

// Track records event without blocking. When the publish buffer is full
// the event still reaches the aggregator but is not published.
func (c *Collector) Track(event QueryEvent) {
	if c.aggregator != nil {
		c.aggregator.Record(event)
	}
	if c.publisher == nil {
		return
	}
	select {
	case c.eventCh <- event:
	default:
		if c.metrics != nil {
			c.metrics.AnalyticsDropped.Inc()
		}
		c.logger.Warn("analytics event dropped (buffer full)")
	}
}

// Close stops the publish loop after a final flush.
func (c *Collector) Close() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
}

func (c *Collector) run(ctx context.Context) {
	defer close(c.done)
	ticker := time.NewTicker(c.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]kafka.Event, 0, c.cfg.BatchSize)
	for {
		select {
		case event := <-c.eventCh:
			batch = append(batch, kafka.Event{Key: event.Mode, Value: event})
			if len(batch) >= c.cfg.BatchSize {
				batch = c.flush(ctx, batch)
			}
		case <-ticker.C:
			batch = c.flush(ctx, batch)
		case <-ctx.Done():
			batch = c.drain(batch)
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			c.flush(flushCtx, batch)
			cancel()
			return
		}
	}
}

func (c *Collector) flush(ctx context.Context, batch []kafka.Event) []kafka.Event {
	if len(batch) == 0 {
		return batch
	}
	if err := c.publisher.PublishBatch(ctx, batch); err != nil {
		c.logger.Error("analytics batch flush failed", "batch_size", len(batch), "error", err)
	} else {
		c.logger.Debug("analytics batch flushed", "events", len(batch))
	}
	return make([]kafka.Event, 0, c.cfg.BatchSize)
}

func (c *Collector) drain(batch []kafka.Event) []kafka.Event {
	for {
		select {
		case event := <-c.eventCh:
			batch = append(batch, kafka.Event{Key: event.Mode, Value: event})
		default:
			return batch
		}
	}
}
