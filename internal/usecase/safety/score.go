package safety

import "strings"

var safeKeywords = []string{"safe", "low risk", "secure", "protected", "tourist-friendly"}

var dangerKeywords = []string{"danger", "high risk", "avoid", "caution", "unsafe", "critical"}

var recommendationKeywords = []string{"should", "recommend", "consider", "avoid", "ensure"}

var defaultRecommendations = []string{
	"Stay aware of your surroundings",
	"Follow local customs and laws",
}

const maxRecommendations = 5

// estimateRiskScore derives a 0-100 risk score from the analysis text by
// counting safety and danger keywords. Danger keywords push the score toward
// 95, safety keywords toward 5; a tie lands at a neutral 40.
func estimateRiskScore(analysis string) int {
	lowered := strings.ToLower(analysis)

	safeCount := 0
	for _, kw := range safeKeywords {
		if strings.Contains(lowered, kw) {
			safeCount++
		}
	}
	dangerCount := 0
	for _, kw := range dangerKeywords {
		if strings.Contains(lowered, kw) {
			dangerCount++
		}
	}

	switch {
	case dangerCount > safeCount:
		return min(70+dangerCount*10, 95)
	case safeCount > dangerCount:
		return max(20-safeCount*5, 5)
	default:
		return 40
	}
}

// riskLevel buckets a 0-100 score into a human-readable level.
func riskLevel(score int) string {
	switch {
	case score < 30:
		return "low"
	case score < 60:
		return "medium"
	case score < 80:
		return "high"
	default:
		return "critical"
	}
}

// extractRecommendations picks lines of the analysis that read like advice.
// Falls back to a fixed default set when nothing matches.
func extractRecommendations(analysis string) []string {
	recommendations := make([]string, 0, maxRecommendations)

	for _, line := range strings.Split(analysis, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lowered := strings.ToLower(line)
		for _, kw := range recommendationKeywords {
			if strings.Contains(lowered, kw) {
				recommendations = append(recommendations, line)
				break
			}
		}
		if len(recommendations) == maxRecommendations {
			break
		}
	}

	if len(recommendations) == 0 {
		return defaultRecommendations
	}
	return recommendations
}
