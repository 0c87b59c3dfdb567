package search

import (
	"context"

	"github.com/tripdex/tripdex/internal/domain"
)

// Index ranks stored locations against a query.
type Index interface {
	Query(ctx context.Context, query domain.IndexQuery) ([]domain.SearchResult, error)
}

// Locator fetches a single stored location by id. Implementations return
// domain.ErrLocationNotFound for an unknown id.
type Locator interface {
	Get(ctx context.Context, id string) (*domain.Location, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
