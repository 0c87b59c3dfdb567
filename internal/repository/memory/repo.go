// Package memory provides an in-process location index used as an explicit
// keyword fallback when no vector backend is configured. It ranks records by
// query-token overlap instead of embedding similarity, so callers get
// deterministic degraded results rather than a silent failover.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tripdex/tripdex/internal/domain"
	"github.com/tripdex/tripdex/internal/domain/filter"
)

type record struct {
	loc    domain.Location
	tokens map[string]struct{}
}

// Repo is a concurrency-safe in-memory location index.
type Repo struct {
	mu      sync.RWMutex
	records map[string]record
}

// New creates an empty in-memory repository.
func New() *Repo {
	return &Repo{records: make(map[string]record)}
}

// EnsureIndex is a no-op; the in-memory index needs no schema.
func (r *Repo) EnsureIndex(_ context.Context) error { return nil }

// Reset discards every stored record.
func (r *Repo) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]record)
	return nil
}

// Get fetches a single stored location by id.
func (r *Repo) Get(_ context.Context, id string) (*domain.Location, error) {
	r.mu.RLock()
	rec, ok := r.records[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLocationNotFound, id)
	}
	loc := rec.loc
	return &loc, nil
}

// Ping always succeeds while the process is alive.
func (r *Repo) Ping(_ context.Context) error { return nil }

// Upsert stores a location. The embedding vector is accepted for interface
// compatibility but ignored; ranking here is lexical.
func (r *Repo) Upsert(_ context.Context, loc *domain.Location, _ []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[loc.ID] = record{
		loc:    *loc,
		tokens: tokenize(loc.EmbeddingText()),
	}
	return nil
}

// Query ranks stored locations by the fraction of query tokens they contain,
// after applying the filter expression in-process. Results are ordered by
// score descending, ties broken by id ascending for determinism.
func (r *Repo) Query(_ context.Context, query domain.IndexQuery) ([]domain.SearchResult, error) {
	queryTokens := tokenize(query.Text)

	r.mu.RLock()
	matched := make([]domain.SearchResult, 0, len(r.records))
	for _, rec := range r.records {
		if !matchesFilters(&rec.loc, query.Filters) {
			continue
		}
		score := overlapScore(queryTokens, rec.tokens)
		if score == 0 {
			continue
		}
		matched = append(matched, domain.SearchResult{
			Location:        rec.loc,
			SimilarityScore: score,
		})
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].SimilarityScore != matched[j].SimilarityScore {
			return matched[i].SimilarityScore > matched[j].SimilarityScore
		}
		return matched[i].ID < matched[j].ID
	})

	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	if len(matched) == 0 {
		return nil, nil
	}
	return matched, nil
}

// matchesFilters evaluates a conjunctive filter expression against a location
// using the same field names the vector index schema uses.
func matchesFilters(loc *domain.Location, expr filter.Expression) bool {
	for _, cond := range expr.Conditions() {
		if !matchesCondition(loc, cond) {
			return false
		}
	}
	return true
}

func matchesCondition(loc *domain.Location, cond filter.Condition) bool {
	switch cond.Key() {
	case "category":
		return cond.IsMatch() && strings.EqualFold(loc.Category, cond.Match())
	case "price_range":
		return cond.IsMatch() && loc.PriceRange == cond.Match()
	case "rating":
		return cond.IsRange() && cond.Range().Matches(loc.Rating)
	case "halal_certified":
		return matchesBool(loc.HalalCertified, cond)
	case "family_friendly":
		return matchesBool(loc.FamilyFriendly, cond)
	default:
		return false
	}
}

// matchesBool mirrors the TAG semantics of the vector index: an unset boolean
// was never written, so it cannot satisfy any match value.
func matchesBool(v *bool, cond filter.Condition) bool {
	if v == nil || !cond.IsMatch() {
		return false
	}
	return strconv.FormatBool(*v) == cond.Match()
}

// overlapScore returns the fraction of query tokens present in the document.
func overlapScore(query, doc map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	hits := 0
	for tok := range query {
		if _, ok := doc[tok]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}

func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?\"'()")
		if tok != "" {
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}
