// Package ingest loads location records into the index, vectorizing each
// record's embedding text along the way.
package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tripdex/tripdex/internal/domain"
	"github.com/tripdex/tripdex/internal/logger"
)

// Indexer is the consumer interface for index writes.
type Indexer interface {
	EnsureIndex(ctx context.Context) error
	Upsert(ctx context.Context, loc *domain.Location, vector []float32) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Summary reports how an ingest run went.
type Summary struct {
	Indexed int
	Failed  int
}

// Service ingests location records. embed may be nil in keyword mode, where
// the index ignores vectors.
type Service struct {
	index Indexer
	embed Embedder
}

// New creates an ingest service.
func New(index Indexer, embed Embedder) *Service {
	return &Service{index: index, embed: embed}
}

// Run ensures the index exists and upserts every location. Records without an
// id get a generated one. Per-record failures are logged and counted but do
// not abort the run; progress is called after each record when non-nil.
func (s *Service) Run(ctx context.Context, locations []domain.Location, progress func()) (Summary, error) {
	if err := s.index.EnsureIndex(ctx); err != nil {
		return Summary{}, fmt.Errorf("ensure index: %w", err)
	}

	log := logger.FromContext(ctx)
	var summary Summary

	for i := range locations {
		loc := &locations[i]
		if loc.ID == "" {
			loc.ID = uuid.NewString()
		}

		if err := s.ingestOne(ctx, loc); err != nil {
			log.Warn("Failed to ingest location",
				zap.String("id", loc.ID), zap.String("name", loc.Name), zap.Error(err))
			summary.Failed++
		} else {
			summary.Indexed++
		}

		if progress != nil {
			progress()
		}
	}

	return summary, nil
}

func (s *Service) ingestOne(ctx context.Context, loc *domain.Location) error {
	var vector []float32
	if s.embed != nil {
		result, err := s.embed.Embed(ctx, loc.EmbeddingText())
		if err != nil {
			return fmt.Errorf("embed location text: %w", err)
		}
		vector = result.Embedding
	}

	if err := s.index.Upsert(ctx, loc, vector); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}
