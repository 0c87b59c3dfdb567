// Package locations stores tourism locations in the vector index and maps
// KNN hits back into domain search results.
package locations

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tripdex/tripdex/internal/db"
	"github.com/tripdex/tripdex/internal/domain"
)

// store is the consumer interface for location operations (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Config holds index layout settings for the locations repository.
type Config struct {
	KeyPrefix       string // e.g. "tripdex:"
	Dimensions      int    // embedding vector dimension (768 in production)
	HNSWM           int
	HNSWEFConstruct int
}

// Repo persists locations as Redis hashes under <prefix>loc:<id> and
// queries them via FT.SEARCH KNN.
type Repo struct {
	store store
	cfg   Config
}

// New creates a locations repository.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

func (r *Repo) indexName() string { return r.cfg.KeyPrefix + "loc:idx" }

func (r *Repo) key(id string) string { return r.cfg.KeyPrefix + "loc:" + id }

// EnsureIndex creates the FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return fmt.Errorf("index exists: %w", err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(r.indexName()).
		Prefix(r.cfg.KeyPrefix + "loc:").
		Tag(fieldCategory).
		Tag(fieldPriceRange).
		Tag(fieldVerified).
		Tag(fieldHalalCertified).
		Tag(fieldFamilyFriendly).
		TagWithSeparator(fieldTags, tagSeparator).
		Numeric(fieldRating).
		Numeric(fieldReviewCount).
		Numeric(fieldLatitude).
		Numeric(fieldLongitude).
		VectorHNSW(fieldVector, r.cfg.Dimensions, db.DistanceCosine, r.cfg.HNSWM, r.cfg.HNSWEFConstruct).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Reset drops and recreates the FT index. Stored location hashes are kept;
// the new index re-scans them by prefix.
func (r *Repo) Reset(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.indexName()); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index: %w", err)
	}
	return r.EnsureIndex(ctx)
}

// Get fetches a single location by id. An empty hash reply means the key does
// not exist.
func (r *Repo) Get(ctx context.Context, id string) (*domain.Location, error) {
	fields, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return nil, fmt.Errorf("get location %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrLocationNotFound, id)
	}

	loc := locationFromFields(id, fields)
	return &loc, nil
}

// Upsert writes a location and its embedding vector.
func (r *Repo) Upsert(ctx context.Context, loc *domain.Location, vector []float32) error {
	if len(vector) != r.cfg.Dimensions {
		return fmt.Errorf("%w: got %d, index expects %d",
			domain.ErrVectorDimMismatch, len(vector), r.cfg.Dimensions)
	}

	fields := locationToFields(loc)
	fields[fieldVector] = vectorToBytes(vector)

	if err := r.store.HSet(ctx, r.key(loc.ID), fields); err != nil {
		return fmt.Errorf("upsert location %s: %w", loc.ID, err)
	}
	return nil
}

// Query runs a KNN search and maps hits into search results ordered by the
// index's ranking (descending similarity; equal-score order is whatever the
// index returns and is not guaranteed to be stable).
func (r *Repo) Query(ctx context.Context, query domain.IndexQuery) ([]domain.SearchResult, error) {
	q := &db.KNNQuery{
		IndexName:    r.indexName(),
		Filters:      query.Filters,
		Vector:       query.Vector,
		K:            query.Limit,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		if errors.Is(err, db.ErrDimMismatch) {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorDimMismatch, err)
		}
		return nil, fmt.Errorf("search knn: %w", err)
	}

	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	prefix := r.cfg.KeyPrefix + "loc:"
	results := make([]domain.SearchResult, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		docID := strings.TrimPrefix(entry.Key, prefix)
		results = append(results, domain.SearchResult{
			Location:        locationFromFields(docID, entry.Fields),
			SimilarityScore: entry.Score,
		})
	}
	return results, nil
}

// vectorToBytes serializes []float32 to little-endian bytes for hash storage.
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
