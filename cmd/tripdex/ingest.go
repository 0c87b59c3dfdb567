package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tripdex/tripdex/internal/config"
	logpkg "github.com/tripdex/tripdex/internal/logger"
	"github.com/tripdex/tripdex/internal/metrics"
	ingestuc "github.com/tripdex/tripdex/internal/usecase/ingest"
)

func newIngestCmd() *cobra.Command {
	var (
		file  string
		reset bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Vectorize and index a JSON file of locations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIngest(cmd.Context(), file, reset)
		},
	}
	cmd.Flags().StringVar(&file, "file", "data/seed.json", "JSON file of locations to index")
	cmd.Flags().BoolVar(&reset, "reset", false, "drop and recreate the location index before ingesting")
	return cmd
}

func runIngest(parent context.Context, file string, reset bool) error {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	b, err := buildBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.close()

	if reset {
		if err := b.reset(ctx); err != nil {
			return fmt.Errorf("reset index: %w", err)
		}
		logger.Info("Location index reset")
	}

	locs, err := loadSeedFile(file)
	if err != nil {
		return err
	}
	logger.Info("Loaded locations file",
		zap.String("file", file), zap.Int("count", len(locs)))

	bar := progressbar.Default(int64(len(locs)), "indexing")
	svc := ingestuc.New(b.indexer, b.embedder)
	summary, err := svc.Run(logpkg.ContextWithLogger(ctx, logger), locs, func() {
		_ = bar.Add(1)
	})
	_ = bar.Finish()
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	logger.Info("Ingest finished",
		zap.Int("indexed", summary.Indexed),
		zap.Int("failed", summary.Failed),
	)
	if summary.Failed > 0 {
		return fmt.Errorf("ingest finished with %d failed records", summary.Failed)
	}
	return nil
}
