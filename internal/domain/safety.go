package domain

import (
	"fmt"

	"github.com/tripdex/tripdex/internal/domain/geo"
)

// Risk levels for a safety assessment.
const (
	RiskLevelLow      = "low"
	RiskLevelMedium   = "medium"
	RiskLevelHigh     = "high"
	RiskLevelCritical = "critical"
)

// SafetyRequest asks for a safety assessment of a named place at a given time
// of day.
type SafetyRequest struct {
	LocationName string
	Coordinates  Coordinates
	TimeOfDay    string
}

var validTimesOfDay = map[string]struct{}{
	"morning": {}, "afternoon": {}, "evening": {}, "night": {},
}

// Validate checks the safety request.
func (r *SafetyRequest) Validate() error {
	if r.LocationName == "" {
		return fmt.Errorf("%w: location_name is required", ErrInvalidRequest)
	}
	if !geo.ValidateCoordinates(r.Coordinates.Lat, r.Coordinates.Lng) {
		return fmt.Errorf("%w: coordinates out of range", ErrInvalidRequest)
	}
	if _, ok := validTimesOfDay[r.TimeOfDay]; !ok {
		return fmt.Errorf("%w: time_of_day must be morning, afternoon, evening or night", ErrInvalidRequest)
	}
	return nil
}

// SafetyReport is a structured safety assessment. RiskScore is 0-100 where 0
// is safest; RiskLevel buckets the score into low/medium/high/critical.
type SafetyReport struct {
	RiskScore       int
	RiskLevel       string
	Analysis        string
	Recommendations []string
	Location        string
	TimeOfDay       string
}
