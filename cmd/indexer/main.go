// Command indexer builds one index snapshot offline and prints its stats,
// optionally answering a query or seeding PostgreSQL from a corpus file.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/searcher/strategy"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/internal/store"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	file := flag.String("file", "", "line-per-document corpus; overrides the configured store")
	seed := flag.Bool("seed", false, "import -file into the postgres documents table and exit")
	query := flag.String("q", "", "query to run against the built snapshot")
	mode := flag.String("mode", "word", "query mode: word, phrase, prefix or boolean")
	strategyName := flag.String("strategy", "inverted", "search strategy: inverted, trie or naive")
	limit := flag.Int("limit", 20, "maximum ids to print")
	complete := flag.String("autocomplete", "", "prefix to complete against the built snapshot")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *seed {
		if err := seedPostgres(ctx, cfg, *file); err != nil {
			slog.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if *file != "" {
		cfg.Store = config.StoreConfig{Backend: config.StoreFile, Path: *file}
	}
	docStore, pg, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open document store", "error", err)
		os.Exit(1)
	}
	if pg != nil {
		defer pg.Close()
	}

	buildCtx, cancel := context.WithTimeout(ctx, cfg.Index.BuildTimeout)
	defer cancel()
	engine := indexer.NewEngine(docStore, indexer.WithRetry(resilience.RetryConfig{MaxAttempts: cfg.Index.ListRetries}))
	snap, err := engine.Rebuild(buildCtx)
	if err != nil {
		slog.Error("index build failed", "error", err)
		os.Exit(1)
	}

	out := map[string]any{"stats": snap.Stats()}
	exec := executor.New(engine, nil)
	if *query != "" {
		req, err := buildRequest(*query, *mode, *strategyName, *limit)
		if err != nil {
			slog.Error("invalid query", "error", err)
			os.Exit(2)
		}
		result, err := exec.Execute(ctx, snap, req)
		if err != nil {
			slog.Error("query failed", "error", err)
			os.Exit(1)
		}
		out["search"] = result
	}
	if *complete != "" {
		result, err := exec.Autocomplete(ctx, snap, *complete, *limit)
		if err != nil {
			slog.Error("autocomplete failed", "error", err)
			os.Exit(1)
		}
		out["autocomplete"] = result
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		slog.Error("failed to write output", "error", err)
		os.Exit(1)
	}
}

func buildRequest(query, modeName, strategyName string, limit int) (executor.Request, error) {
	mode, err := executor.ParseMode(modeName)
	if err != nil {
		return executor.Request{}, err
	}
	kind, err := strategy.ParseKind(strategyName)
	if err != nil {
		return executor.Request{}, err
	}
	return executor.Request{Query: query, Mode: mode, Strategy: kind, Limit: limit, Strict: true}, nil
}

// seedPostgres loads a corpus file into the documents table in one
// transaction, keeping file line numbers as ids.
func seedPostgres(ctx context.Context, cfg *config.Config, path string) error {
	if path == "" {
		return fmt.Errorf("-seed requires -file")
	}
	docs, err := store.NewLineFileStore(path).ListDocuments(ctx)
	if err != nil {
		return err
	}
	client, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer client.Close()
	if err := store.EnsureSchema(ctx, client.DB); err != nil {
		return err
	}
	err = client.InTx(ctx, func(tx *sql.Tx) error {
		return store.ImportDocuments(ctx, tx, docs)
	})
	if err != nil {
		return err
	}
	slog.Info("corpus imported", "path", path, "documents", len(docs))
	return nil
}
