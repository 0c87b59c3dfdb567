package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tripdex/tripdex/internal/domain"
)

// seedLocation is the on-disk JSON shape of a location record. Field names
// follow the dataset convention (snake_case), not the API convention.
type seedLocation struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"review_count"`
	PriceRange     string   `json:"price_range"`
	ImageURL       string   `json:"image_url"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Verified       bool     `json:"verified"`
	HalalCertified *bool    `json:"halal_certified"`
	FamilyFriendly *bool    `json:"family_friendly"`
	OpeningHours   string   `json:"opening_hours"`
}

// loadSeedFile reads a JSON array of location records.
func loadSeedFile(path string) ([]domain.Location, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seeds []seedLocation
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	locs := make([]domain.Location, len(seeds))
	for i, s := range seeds {
		locs[i] = domain.Location{
			ID:             s.ID,
			Name:           s.Name,
			Description:    s.Description,
			Category:       s.Category,
			Tags:           s.Tags,
			Rating:         s.Rating,
			ReviewCount:    s.ReviewCount,
			PriceRange:     s.PriceRange,
			ImageURL:       s.ImageURL,
			Latitude:       s.Latitude,
			Longitude:      s.Longitude,
			Verified:       s.Verified,
			HalalCertified: s.HalalCertified,
			FamilyFriendly: s.FamilyFriendly,
			OpeningHours:   s.OpeningHours,
		}
	}
	return locs, nil
}
