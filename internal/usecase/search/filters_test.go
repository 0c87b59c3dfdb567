package search

import (
	"testing"

	"github.com/tripdex/tripdex/internal/domain"
)

func f64(v float64) *float64 { return &v }
func bptr(v bool) *bool      { return &v }

func TestBuildFilter_Empty(t *testing.T) {
	expr, err := BuildFilter(domain.SearchFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expr.IsEmpty() {
		t.Errorf("expected empty expression, got %d conditions", len(expr.Conditions()))
	}
}

func TestBuildFilter_AllFields(t *testing.T) {
	expr, err := BuildFilter(domain.SearchFilters{
		Category:       "restaurant",
		PriceRange:     "$$$",
		Rating:         f64(4.5),
		HalalCertified: bptr(true),
		FamilyFriendly: bptr(false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conditions := expr.Conditions()
	if len(conditions) != 5 {
		t.Fatalf("expected 5 conditions, got %d", len(conditions))
	}

	byKey := map[string]int{}
	for i, c := range conditions {
		byKey[c.Key()] = i
	}

	cat := conditions[byKey[fieldCategory]]
	if !cat.IsMatch() || cat.Match() != "restaurant" {
		t.Errorf("unexpected category condition: %+v", cat)
	}

	rating := conditions[byKey[fieldRating]]
	if !rating.IsRange() {
		t.Fatal("expected rating range condition")
	}
	if gte := rating.Range().GTE(); gte == nil || *gte != 4.5 {
		t.Errorf("rating GTE = %v, want 4.5", gte)
	}
	if rating.Range().LTE() != nil {
		t.Error("rating filter must be a lower bound only")
	}

	ff := conditions[byKey[fieldFamilyFriendly]]
	if ff.Match() != "false" {
		t.Errorf("explicit false must become a match on \"false\", got %q", ff.Match())
	}
}

func TestBuildFilter_ExplicitFalseDiffersFromUnset(t *testing.T) {
	unset, err := BuildFilter(domain.SearchFilters{Category: "beach"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	explicit, err := BuildFilter(domain.SearchFilters{Category: "beach", HalalCertified: bptr(false)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(unset.Conditions()) != 1 {
		t.Errorf("unset boolean must produce no condition, got %d", len(unset.Conditions()))
	}
	if len(explicit.Conditions()) != 2 {
		t.Errorf("explicit false must produce a condition, got %d", len(explicit.Conditions()))
	}
}

func TestBuildFilter_RatingInclusive(t *testing.T) {
	expr, err := BuildFilter(domain.SearchFilters{Rating: f64(4.5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := expr.Conditions()[0].Range()
	if !r.Matches(4.5) {
		t.Error("rating threshold must be inclusive")
	}
	if r.Matches(4.49) {
		t.Error("rating below threshold must not match")
	}
}
