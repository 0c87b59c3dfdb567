// Package safety produces AI-assisted safety assessments for locations,
// reducing free-text analysis to a structured risk report via keyword
// heuristics.
package safety

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tripdex/tripdex/internal/domain"
	"github.com/tripdex/tripdex/internal/logger"
)

const systemPrompt = "You are a safety analyst for tourists visiting Dubai. " +
	"Give practical, specific assessments."

// Service assesses location safety. Stateless.
type Service struct {
	completer domain.ChatCompleter
}

// New creates a safety service.
func New(completer domain.ChatCompleter) *Service {
	return &Service{completer: completer}
}

// Check analyzes a location and returns a structured risk report. A provider
// failure degrades to a neutral medium-risk report rather than an error, so
// the caller always gets an assessment.
func (s *Service) Check(ctx context.Context, req *domain.SafetyRequest) (*domain.SafetyReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	analysis, err := s.completer.Complete(ctx, systemPrompt, nil, buildPrompt(req))
	if err != nil {
		logger.FromContext(ctx).Warn("Safety analysis unavailable, returning neutral report",
			zap.String("location", req.LocationName), zap.Error(err))
		return neutralReport(req), nil
	}

	score := estimateRiskScore(analysis)
	return &domain.SafetyReport{
		RiskScore:       score,
		RiskLevel:       riskLevel(score),
		Analysis:        analysis,
		Recommendations: extractRecommendations(analysis),
		Location:        req.LocationName,
		TimeOfDay:       req.TimeOfDay,
	}, nil
}

func buildPrompt(req *domain.SafetyRequest) string {
	return fmt.Sprintf(`Analyze the safety of this Dubai location:

Location: %s
Coordinates: %g, %g
Time of Day: %s

Provide a safety assessment with:
1. Overall risk score (0-100, where 0 is safest)
2. Risk level (low/medium/high/critical)
3. Specific safety recommendations
4. Time-sensitive concerns

Consider factors like:
- Tourist safety in Dubai
- Time of day risks
- General area safety
- Cultural considerations
- Emergency services availability`,
		req.LocationName, req.Coordinates.Lat, req.Coordinates.Lng, req.TimeOfDay)
}

func neutralReport(req *domain.SafetyRequest) *domain.SafetyReport {
	return &domain.SafetyReport{
		RiskScore:       50,
		RiskLevel:       domain.RiskLevelMedium,
		Analysis:        "Safety analysis is temporarily unavailable",
		Recommendations: []string{"Unable to assess safety at this time"},
		Location:        req.LocationName,
		TimeOfDay:       req.TimeOfDay,
	}
}
