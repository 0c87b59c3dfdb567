package domain

import (
	"fmt"

	"github.com/tripdex/tripdex/internal/domain/filter"
)

// DefaultSearchLimit is the result limit applied when a request leaves it unset.
const DefaultSearchLimit = 10

// MaxSearchLimit is the hard cap on the result limit.
const MaxSearchLimit = 50

// Coordinates is a geographic reference point supplied by the caller.
type Coordinates struct {
	Lat float64
	Lng float64
}

// SearchFilters narrows search results. All fields are optional; absence means
// no constraint on that attribute. Booleans are tri-state: nil is unset, an
// explicit false is a real filter value.
type SearchFilters struct {
	Category       string
	PriceRange     string
	Rating         *float64 // minimum threshold, inclusive
	HalalCertified *bool
	FamilyFriendly *bool
}

// IsEmpty reports whether no filter field is present.
func (f SearchFilters) IsEmpty() bool {
	return f.Category == "" && f.PriceRange == "" &&
		f.Rating == nil && f.HalalCertified == nil && f.FamilyFriendly == nil
}

// SearchRequest is a single semantic search call. Immutable, constructed per
// call. A zero Limit means "use the service default"; the default and the cap
// are applied by the search service, never written back here.
type SearchRequest struct {
	Query        string
	Filters      SearchFilters
	Limit        int
	UserLocation *Coordinates
}

// Validate checks the request fields.
func (r *SearchRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("%w: query is required", ErrInvalidRequest)
	}
	if r.Limit < 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidRequest, r.Limit)
	}
	return nil
}

// IndexQuery carries everything a location index needs to rank records.
// The semantic backend ranks by Vector; the explicitly-selected keyword
// fallback backend ranks by Text. Filters apply in either mode.
type IndexQuery struct {
	Text    string
	Vector  []float32
	Filters filter.Expression
	Limit   int
}

// SearchResult is a single search hit: the stored location plus its cosine
// similarity in [0,1] and an optional great-circle distance in kilometers.
// Distance is nil unless both the caller location and the record coordinates
// are present.
type SearchResult struct {
	Location
	SimilarityScore float64
	DistanceKm      *float64
}

// SearchResponse is the final search envelope. Results are ranked descending
// by similarity score; ties keep the index's native order, which is not
// guaranteed to be stable.
type SearchResponse struct {
	Results     []SearchResult
	Total       int
	QueryTimeMs int64
	Suggestions []string
}
