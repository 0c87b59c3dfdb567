// Package search implements the semantic search pipeline: embed the query,
// run a filtered nearest-neighbor lookup, augment hits with distance, and
// shape the response envelope with suggestions and timing.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tripdex/tripdex/internal/domain"
	"github.com/tripdex/tripdex/internal/domain/geo"
	"github.com/tripdex/tripdex/internal/logger"
	"github.com/tripdex/tripdex/internal/metrics"
)

// Mode selects how the index ranks records.
type Mode string

const (
	// ModeSemantic embeds the query and ranks by vector similarity.
	ModeSemantic Mode = "semantic"
	// ModeKeyword skips the embedding call and ranks by keyword overlap.
	// Selected explicitly when no vector backend is configured; never a
	// silent failover.
	ModeKeyword Mode = "keyword"
)

// Service orchestrates a single search call. Stateless; safe for concurrent use.
// The limit policy (default when unset, configured cap) is owned here, not by
// the request type.
type Service struct {
	index        Index
	embed        Embedder
	locator      Locator
	mode         Mode
	defaultLimit int
	maxLimit     int
}

// Option configures the search service.
type Option func(*Service)

// WithKeywordMode switches the service to the keyword ranking mode.
func WithKeywordMode() Option {
	return func(s *Service) { s.mode = ModeKeyword }
}

// WithLocator wires a record store for single-location lookups.
func WithLocator(l Locator) Option {
	return func(s *Service) { s.locator = l }
}

// WithLimits overrides the default and maximum result limits. Zero values
// keep the built-in limits. The maximum never exceeds domain.MaxSearchLimit.
func WithLimits(defaultLimit, maxLimit int) Option {
	return func(s *Service) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit > 0 && maxLimit <= domain.MaxSearchLimit {
			s.maxLimit = maxLimit
		}
	}
}

// New creates a search service in semantic mode.
func New(index Index, embed Embedder, opts ...Option) *Service {
	s := &Service{
		index:        index,
		embed:        embed,
		mode:         ModeSemantic,
		defaultLimit: domain.DefaultSearchLimit,
		maxLimit:     domain.MaxSearchLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the ranking mode the service was built with.
func (s *Service) Mode() Mode { return s.mode }

// Search runs the full pipeline. Any embedding or index failure aborts the
// call and surfaces under ErrSearchFailed; no partial response is returned.
func (s *Service) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(s.mode), "invalid").Inc()
		return nil, err
	}

	// The request stays read-only; the effective limit lives on the stack.
	limit := req.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		metrics.SearchRequestsTotal.WithLabelValues(string(s.mode), "invalid").Inc()
		return nil, fmt.Errorf("%w: limit must not exceed %d, got %d",
			domain.ErrInvalidRequest, s.maxLimit, limit)
	}

	start := time.Now()

	resp, err := s.run(ctx, req, limit, start)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(s.mode), "error").Inc()
		return nil, err
	}

	metrics.SearchRequestsTotal.WithLabelValues(string(s.mode), "success").Inc()
	metrics.SearchDuration.WithLabelValues(string(s.mode)).Observe(time.Since(start).Seconds())
	metrics.SearchResultsReturned.Observe(float64(resp.Total))
	return resp, nil
}

func (s *Service) run(ctx context.Context, req *domain.SearchRequest, limit int, start time.Time) (*domain.SearchResponse, error) {
	query := domain.IndexQuery{Limit: limit}

	if s.mode == ModeKeyword {
		query.Text = req.Query
	} else {
		embResult, err := s.embed.Embed(ctx, req.Query)
		if err != nil {
			return nil, fmt.Errorf("%w: vectorize query: %w", domain.ErrSearchFailed, err)
		}
		query.Vector = embResult.Embedding
	}

	filters, err := BuildFilter(req.Filters)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	query.Filters = filters

	results, err := s.index.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", domain.ErrSearchFailed, domain.ErrIndexQueryFailed, err)
	}

	if req.UserLocation != nil {
		augmentDistances(results, req.UserLocation)
	}

	logger.FromContext(ctx).Debug("Search completed",
		zap.String("mode", string(s.mode)),
		zap.Int("results", len(results)),
		zap.Duration("elapsed", time.Since(start)))

	return &domain.SearchResponse{
		Results:     results,
		Total:       len(results),
		QueryTimeMs: time.Since(start).Milliseconds(),
		Suggestions: Suggest(req.Query),
	}, nil
}

// Get fetches a single stored location by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Location, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrInvalidRequest)
	}
	if s.locator == nil {
		return nil, fmt.Errorf("%w: no location store configured", domain.ErrSearchFailed)
	}

	loc, err := s.locator.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrLocationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get location: %w", domain.ErrSearchFailed, err)
	}
	return loc, nil
}

// augmentDistances fills DistanceKm for every result that has coordinates.
// Records without coordinates keep a nil distance.
func augmentDistances(results []domain.SearchResult, from *domain.Coordinates) {
	for i := range results {
		if !results[i].HasCoordinates() {
			continue
		}
		d := geo.DistanceKm(from.Lat, from.Lng, *results[i].Latitude, *results[i].Longitude)
		results[i].DistanceKm = &d
	}
}
