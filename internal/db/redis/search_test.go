package redis

import (
	"testing"

	"github.com/tripdex/tripdex/internal/db"
	"github.com/tripdex/tripdex/internal/domain/filter"
)

func f64(v float64) *float64 { return &v }

func TestSearchArgs_LimitCoversK(t *testing.T) {
	q := &db.KNNQuery{
		IndexName:    "tripdex:loc:idx",
		Vector:       []float32{0.1, 0.2},
		K:            20,
		ReturnFields: []string{"name"},
	}

	args := searchArgs(q)
	for i := 0; i+2 < len(args); i++ {
		if args[i] == "LIMIT" {
			if args[i+1] != "0" || args[i+2] != "20" {
				t.Fatalf("LIMIT = %s %s, want 0 20", args[i+1], args[i+2])
			}
			return
		}
	}
	t.Fatalf("no LIMIT clause in %v; the server would page at its default of 10", args)
}

func TestBuildFilter_Empty(t *testing.T) {
	if got := buildFilter(filter.Expression{}); got != "" {
		t.Errorf("expected empty filter, got %q", got)
	}
}

func TestBuildFilter_TagAndRange(t *testing.T) {
	cat, _ := filter.NewMatch("category", "restaurant")
	r, _ := filter.NewRangeFilter(f64(4.5), nil)
	rating, _ := filter.NewRange("rating", r)
	expr, _ := filter.NewExpression(cat, rating)

	got := buildFilter(expr)
	want := "@category:{restaurant} @rating:[4.5 +inf]"
	if got != want {
		t.Errorf("buildFilter = %q, want %q", got, want)
	}
}

func TestBuildFilter_BooleanTag(t *testing.T) {
	halal, _ := filter.NewMatch("halal_certified", "false")
	expr, _ := filter.NewExpression(halal)

	got := buildFilter(expr)
	if got != "@halal_certified:{false}" {
		t.Errorf("unexpected filter %q", got)
	}
}

func TestBuildTagFilter_EscapesSpecials(t *testing.T) {
	got := buildTagFilter("category", "kid-friendly park")
	want := `@category:{kid\-friendly\ park}`
	if got != want {
		t.Errorf("buildTagFilter = %q, want %q", got, want)
	}
}

func TestVectorToBytes_Length(t *testing.T) {
	b := vectorToBytes([]float32{0.1, 0.2, 0.3})
	if len(b) != 12 {
		t.Errorf("expected 12 bytes, got %d", len(b))
	}
}
