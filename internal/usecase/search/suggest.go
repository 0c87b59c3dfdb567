package search

import "strings"

// suggestionRule maps theme keywords to a fixed suggestion set. Rules are
// checked in order; the first rule with a matching keyword wins and only that
// rule's suggestions are returned.
type suggestionRule struct {
	keywords    []string
	suggestions []string
}

var suggestionRules = []suggestionRule{
	{
		keywords: []string{"romantic", "sunset"},
		suggestions: []string{
			"sunset dinner cruises",
			"rooftop lounges with skyline views",
			"beachfront spots for couples",
		},
	},
	{
		keywords: []string{"family", "kids"},
		suggestions: []string{
			"family-friendly theme parks",
			"kids activities and play areas",
			"parks with picnic spots",
		},
	},
	{
		keywords: []string{"luxury", "expensive"},
		suggestions: []string{
			"five-star hotel experiences",
			"fine dining restaurants",
			"private yacht charters",
		},
	},
	{
		keywords: []string{"cheap", "budget"},
		suggestions: []string{
			"free attractions and public beaches",
			"affordable street food spots",
			"budget-friendly souks and markets",
		},
	},
}

var defaultSuggestions = []string{
	"top-rated attractions",
	"best restaurants nearby",
	"popular cultural experiences",
}

// Suggest returns exactly three related query strings for the given query.
// Pure and deterministic: case-insensitive substring matching against the
// theme keywords, first matching theme wins, no match returns the default set.
func Suggest(query string) []string {
	lowered := strings.ToLower(query)
	for _, rule := range suggestionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.suggestions
			}
		}
	}
	return defaultSuggestions
}
