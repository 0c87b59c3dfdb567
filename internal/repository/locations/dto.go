package locations

import (
	"strconv"
	"strings"

	"github.com/tripdex/tripdex/internal/domain"
)

// Hash field names for a stored location. Booleans are stored as "true"/"false"
// TAG values; absent optional fields are simply not written, so an unset
// HalalCertified never becomes a filterable value.
const (
	fieldName           = "name"
	fieldDescription    = "description"
	fieldCategory       = "category"
	fieldTags           = "tags"
	fieldRating         = "rating"
	fieldReviewCount    = "review_count"
	fieldPriceRange     = "price_range"
	fieldImageURL       = "image_url"
	fieldLatitude       = "latitude"
	fieldLongitude      = "longitude"
	fieldVerified       = "verified"
	fieldHalalCertified = "halal_certified"
	fieldFamilyFriendly = "family_friendly"
	fieldOpeningHours   = "opening_hours"
	fieldOriginalID     = "original_id"
	fieldVector         = "__vector"
	fieldVectorScore    = "__vector_score"
)

const tagSeparator = ","

// returnFields lists everything the KNN query asks the index to return.
var returnFields = []string{
	fieldName, fieldDescription, fieldCategory, fieldTags,
	fieldRating, fieldReviewCount, fieldPriceRange, fieldImageURL,
	fieldLatitude, fieldLongitude, fieldVerified,
	fieldHalalCertified, fieldFamilyFriendly, fieldOpeningHours,
	fieldOriginalID, fieldVectorScore,
}

// locationToFields flattens a location into hash fields for storage.
func locationToFields(loc *domain.Location) map[string]string {
	fields := map[string]string{
		fieldName:        loc.Name,
		fieldDescription: loc.Description,
		fieldCategory:    loc.Category,
		fieldRating:      strconv.FormatFloat(loc.Rating, 'g', -1, 64),
		fieldReviewCount: strconv.Itoa(loc.ReviewCount),
		fieldVerified:    strconv.FormatBool(loc.Verified),
		fieldOriginalID:  loc.ID,
	}
	if len(loc.Tags) > 0 {
		fields[fieldTags] = strings.Join(loc.Tags, tagSeparator)
	}
	if loc.PriceRange != "" {
		fields[fieldPriceRange] = loc.PriceRange
	}
	if loc.ImageURL != "" {
		fields[fieldImageURL] = loc.ImageURL
	}
	if loc.OpeningHours != "" {
		fields[fieldOpeningHours] = loc.OpeningHours
	}
	if loc.Latitude != nil {
		fields[fieldLatitude] = strconv.FormatFloat(*loc.Latitude, 'g', -1, 64)
	}
	if loc.Longitude != nil {
		fields[fieldLongitude] = strconv.FormatFloat(*loc.Longitude, 'g', -1, 64)
	}
	if loc.HalalCertified != nil {
		fields[fieldHalalCertified] = strconv.FormatBool(*loc.HalalCertified)
	}
	if loc.FamilyFriendly != nil {
		fields[fieldFamilyFriendly] = strconv.FormatBool(*loc.FamilyFriendly)
	}
	return fields
}

// locationFromFields rebuilds a location from hash fields. The original_id
// passthrough wins over the storage key so caller-meaningful ids round-trip.
func locationFromFields(docID string, fields map[string]string) domain.Location {
	loc := domain.Location{
		ID:           docID,
		Name:         fields[fieldName],
		Description:  fields[fieldDescription],
		Category:     fields[fieldCategory],
		PriceRange:   fields[fieldPriceRange],
		ImageURL:     fields[fieldImageURL],
		OpeningHours: fields[fieldOpeningHours],
	}
	if original := fields[fieldOriginalID]; original != "" {
		loc.ID = original
	}
	if tags := fields[fieldTags]; tags != "" {
		loc.Tags = strings.Split(tags, tagSeparator)
	}
	if v, err := strconv.ParseFloat(fields[fieldRating], 64); err == nil {
		loc.Rating = v
	}
	if v, err := strconv.Atoi(fields[fieldReviewCount]); err == nil {
		loc.ReviewCount = v
	}
	if v, err := strconv.ParseBool(fields[fieldVerified]); err == nil {
		loc.Verified = v
	}
	loc.Latitude = parseOptionalFloat(fields, fieldLatitude)
	loc.Longitude = parseOptionalFloat(fields, fieldLongitude)
	loc.HalalCertified = parseOptionalBool(fields, fieldHalalCertified)
	loc.FamilyFriendly = parseOptionalBool(fields, fieldFamilyFriendly)
	return loc
}

func parseOptionalFloat(fields map[string]string, key string) *float64 {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseOptionalBool(fields map[string]string, key string) *bool {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
