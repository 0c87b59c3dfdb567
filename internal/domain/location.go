package domain

import "strings"

// Location is a tourism location record. The vector index exclusively owns
// persisted locations; search returns ephemeral copies.
//
// Latitude/Longitude and the boolean attributes are pointers because absence
// is meaningful: a record without coordinates gets no distance augmentation,
// and an unset HalalCertified is distinct from an explicit false.
type Location struct {
	ID             string
	Name           string
	Description    string
	Category       string
	Tags           []string
	Rating         float64
	ReviewCount    int
	PriceRange     string
	ImageURL       string
	Latitude       *float64
	Longitude      *float64
	Verified       bool
	HalalCertified *bool
	FamilyFriendly *bool
	OpeningHours   string
}

// HasCoordinates reports whether both latitude and longitude are present.
func (l *Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// EmbeddingText composes the text that is vectorized for this location:
// name + description + tags + category.
func (l *Location) EmbeddingText() string {
	parts := make([]string, 0, 3+len(l.Tags))
	parts = append(parts, l.Name, l.Description)
	parts = append(parts, l.Tags...)
	parts = append(parts, l.Category)
	return strings.Join(parts, " ")
}
