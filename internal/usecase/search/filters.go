package search

import (
	"fmt"
	"strconv"

	"github.com/tripdex/tripdex/internal/domain"
	"github.com/tripdex/tripdex/internal/domain/filter"
)

// Index field names the filter builder targets. They mirror the storage schema.
const (
	fieldCategory       = "category"
	fieldPriceRange     = "price_range"
	fieldRating         = "rating"
	fieldHalalCertified = "halal_certified"
	fieldFamilyFriendly = "family_friendly"
)

// BuildFilter translates request filters into an index filter expression.
// Absent fields produce no condition; an explicit boolean false produces a
// real condition, matching only records that stored false.
func BuildFilter(f domain.SearchFilters) (filter.Expression, error) {
	if f.IsEmpty() {
		return filter.Expression{}, nil
	}

	conditions := make([]filter.Condition, 0, 5)

	if f.Category != "" {
		c, err := filter.NewMatch(fieldCategory, f.Category)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("category filter: %w", err)
		}
		conditions = append(conditions, c)
	}
	if f.PriceRange != "" {
		c, err := filter.NewMatch(fieldPriceRange, f.PriceRange)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("price_range filter: %w", err)
		}
		conditions = append(conditions, c)
	}
	if f.Rating != nil {
		r, err := filter.NewRangeFilter(f.Rating, nil)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("rating filter: %w", err)
		}
		c, err := filter.NewRange(fieldRating, r)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("rating filter: %w", err)
		}
		conditions = append(conditions, c)
	}
	if f.HalalCertified != nil {
		c, err := filter.NewMatch(fieldHalalCertified, strconv.FormatBool(*f.HalalCertified))
		if err != nil {
			return filter.Expression{}, fmt.Errorf("halal_certified filter: %w", err)
		}
		conditions = append(conditions, c)
	}
	if f.FamilyFriendly != nil {
		c, err := filter.NewMatch(fieldFamilyFriendly, strconv.FormatBool(*f.FamilyFriendly))
		if err != nil {
			return filter.Expression{}, fmt.Errorf("family_friendly filter: %w", err)
		}
		conditions = append(conditions, c)
	}

	expr, err := filter.NewExpression(conditions...)
	if err != nil {
		return filter.Expression{}, fmt.Errorf("build filter expression: %w", err)
	}
	return expr, nil
}
