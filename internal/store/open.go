package store

import (
	"context"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Text-Search-Core/pkg/postgres"
)

// Open builds the store selected by cfg.Store.Backend. For the postgres
// backend it also returns the client, which the caller must close; for
// the others the client is nil.
func Open(ctx context.Context, cfg *config.Config) (DocumentStore, *postgres.Client, error) {
	switch cfg.Store.Backend {
	case config.StoreFile:
		slog.Info("reading corpus from file", "path", cfg.Store.Path)
		return NewLineFileStore(cfg.Store.Path), nil, nil
	case config.StorePostgres:
		client, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := EnsureSchema(ctx, client.DB); err != nil {
			client.Close()
			return nil, nil, err
		}
		return NewPostgresStore(client.DB), client, nil
	default:
		slog.Info("serving the in-memory demo corpus")
		return NewMemoryStore(DemoCorpus()...), nil, nil
	}
}
