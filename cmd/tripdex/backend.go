package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tripdex/tripdex/internal/config"
	dbRedis "github.com/tripdex/tripdex/internal/db/redis"
	"github.com/tripdex/tripdex/internal/domain"
	"github.com/tripdex/tripdex/internal/metrics"
	"github.com/tripdex/tripdex/internal/repository/embcache"
	"github.com/tripdex/tripdex/internal/repository/locations"
	"github.com/tripdex/tripdex/internal/repository/memory"
	openaiTransport "github.com/tripdex/tripdex/internal/transport/openai"
	healthuc "github.com/tripdex/tripdex/internal/usecase/health"
	ingestuc "github.com/tripdex/tripdex/internal/usecase/ingest"
	searchuc "github.com/tripdex/tripdex/internal/usecase/search"
)

// backend bundles the driver-dependent pieces of the composition root.
// The redis driver runs the semantic pipeline; the memory driver runs the
// keyword-overlap index with no embedding provider at all.
type backend struct {
	index           searchuc.Index
	locator         searchuc.Locator
	indexer         ingestuc.Indexer
	pinger          healthuc.IndexPinger
	embedder        domain.Embedder
	embeddingHealth healthuc.EmbeddingChecker
	keyword         bool
	reset           func(ctx context.Context) error
	close           func()
}

// buildBackend assembles the index and embedder chain for the configured driver.
func buildBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*backend, error) {
	switch cfg.Database.Driver {
	case "redis":
		return buildRedisBackend(ctx, cfg, logger)
	case "memory":
		repo := memory.New()
		logger.Info("Using in-memory keyword index; vector search disabled")
		return &backend{
			index:   repo,
			locator: repo,
			indexer: repo,
			pinger:  repo,
			keyword: true,
			reset:   repo.Reset,
			close:   func() {},
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func buildRedisBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*backend, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}

	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		store.Close()
		return nil, fmt.Errorf("redis not ready: %w", err)
	}
	logger.Info("Connected to redis", zap.Strings("addrs", cfg.Database.Addrs))

	// Embedder chain: OpenAI-compatible provider -> cache decorator.
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	var embedder domain.Embedder = base
	if cfg.Embedding.Cache {
		embedder = embcache.New(base, store, cfg.Storage.KeyPrefix, metrics.EmbeddingCacheTotal, logger)
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cache", cfg.Embedding.Cache),
	)

	repo := locations.New(store, locations.Config{
		KeyPrefix:       cfg.Storage.KeyPrefix,
		Dimensions:      cfg.Embedding.Dimensions,
		HNSWM:           cfg.Search.HNSWM,
		HNSWEFConstruct: cfg.Search.HNSWEFConstruct,
	})

	return &backend{
		index:           repo,
		locator:         repo,
		indexer:         repo,
		pinger:          store,
		embedder:        embedder,
		embeddingHealth: base,
		reset:           repo.Reset,
		close:           store.Close,
	}, nil
}
