package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer/consumer"
	ingesthandler "github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/ingestion/handler"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/ingestion/publisher"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/store"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/middleware"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port, "store", cfg.Store.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)
	checker := health.NewChecker()

	docStore, pg, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open document store", "error", err)
		os.Exit(1)
	}
	if pg != nil {
		defer pg.Close()
		checker.Register("postgres", health.Probe(pg.Ping, health.StatusDegraded))
	}

	engineOpts := []indexer.Option{
		indexer.WithMetrics(m),
		indexer.WithRetry(resilience.RetryConfig{MaxAttempts: cfg.Index.ListRetries}),
	}
	var analyticsPublisher, ingestPublisher kafka.Publisher
	if cfg.Kafka.Enabled {
		published := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.IndexPublished)
		defer published.Close()
		engineOpts = append(engineOpts, indexer.WithPublisher(published))

		events := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.AnalyticsEvents)
		defer events.Close()
		analyticsPublisher = events

		ingest := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.DocumentIngest)
		defer ingest.Close()
		ingestPublisher = ingest
	}
	engine := indexer.NewEngine(docStore, engineOpts...)

	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		snap, err := engine.Current()
		if err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("generation %s, %d documents", snap.Generation, snap.DocCount()),
		}
	})

	if cfg.Index.BuildOnStart {
		buildCtx, cancel := context.WithTimeout(ctx, cfg.Index.BuildTimeout)
		if _, err := engine.Rebuild(buildCtx); err != nil {
			slog.Error("initial index build failed, serving 503 until a rebuild succeeds", "error", err)
		}
		cancel()
	}

	if cfg.Kafka.Enabled {
		writer, _ := docStore.(store.Writer)
		kc := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.DocumentIngest, consumer.HandleMessage(engine, writer))
		go func() {
			if err := consumer.New(kc).Start(ctx); err != nil {
				slog.Error("index consumer error", "error", err)
			}
		}()
	}

	var queryCache *cache.QueryCache
	if cfg.Redis.Enabled {
		redisClient, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
			checker.Register("redis", func(context.Context) health.ComponentHealth {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: "unavailable at startup"}
			})
		} else {
			defer redisClient.Close()
			guarded := cache.NewGuardedStore(redisClient, cfg.Redis.Breaker, m)
			queryCache = cache.New(guarded, cfg.Redis.CacheTTL, m)
			ping := health.Probe(redisClient.Ping, health.StatusDegraded)
			checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
				if state := guarded.State(); state != resilience.StateClosed {
					return health.ComponentHealth{Status: health.StatusDegraded, Message: "cache circuit " + state.String()}
				}
				return ping(ctx)
			})
			slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	aggregator := analytics.NewAggregator()
	collector := analytics.NewCollector(analyticsPublisher, aggregator, m, analytics.CollectorConfig{})
	collector.Start(ctx)
	defer collector.Close()

	h := handler.New(executor.New(engine, m), engine, queryCache, collector, cfg.Search)

	mux := http.NewServeMux()
	h.Register(mux)
	if pub := ingestionPublisher(cfg, docStore, engine, ingestPublisher); pub != nil {
		ingesthandler.New(pub, cfg.Ingestion.MaxTextBytes, m).Register(mux)
	}
	analytics.NewHandler(aggregator).Register(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())
	mux.Handle("GET /metrics", metrics.Handler())

	mws := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.Metrics(m),
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		mws = append(mws, middleware.CORS(cfg.Server.CORSOrigins))
	}
	if rl := cfg.Server.RateLimit; rl.Enabled {
		limiter := middleware.NewLimiter(rl.Requests, rl.Window)
		limiter.StartSweeper(ctx, 5*time.Minute)
		mws = append(mws, middleware.RateLimit(limiter))
	}
	mws = append(mws, middleware.Timeout(cfg.Server.RequestTimeout))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      middleware.Chain(mux, mws...),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var shutdownMetrics func(context.Context) error
	if cfg.Metrics.Enabled && cfg.Metrics.Port != cfg.Server.Port {
		shutdownMetrics = metrics.StartServer(cfg.Metrics.Port)
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		if shutdownMetrics != nil {
			shutdownMetrics(shutdownCtx)
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("search service stopped")
}

// ingestionPublisher picks how document writes reach the index: queued on
// Kafka when it is enabled, applied in process when the store accepts
// writes, otherwise the write API stays off.
func ingestionPublisher(cfg *config.Config, docStore store.DocumentStore, engine *indexer.Engine, producer kafka.Publisher) publisher.Publisher {
	if !cfg.Ingestion.Enabled {
		return nil
	}
	if producer != nil {
		slog.Info("document writes are queued", "topic", cfg.Kafka.Topics.DocumentIngest)
		return publisher.NewQueue(producer)
	}
	if writer, ok := docStore.(store.Writer); ok {
		slog.Info("document writes are applied in process")
		return publisher.NewDirect(writer, engine)
	}
	slog.Warn("document write API disabled: store is read-only", "store", cfg.Store.Backend)
	return nil
}
