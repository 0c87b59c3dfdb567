package httpapi

import (
	"github.com/tripdex/tripdex/internal/domain"
)

// --- Requests ---

type coordinatesDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type searchFiltersDTO struct {
	Category       string   `json:"category,omitempty"`
	PriceRange     string   `json:"priceRange,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	HalalCertified *bool    `json:"halalCertified,omitempty"`
	FamilyFriendly *bool    `json:"familyFriendly,omitempty"`
}

type searchRequestDTO struct {
	Query        string            `json:"query"`
	Filters      *searchFiltersDTO `json:"filters,omitempty"`
	Limit        int               `json:"limit,omitempty"`
	UserLocation *coordinatesDTO   `json:"userLocation,omitempty"`
}

func (r *searchRequestDTO) toDomain() *domain.SearchRequest {
	req := &domain.SearchRequest{
		Query: r.Query,
		Limit: r.Limit,
	}
	if r.Filters != nil {
		req.Filters = domain.SearchFilters{
			Category:       r.Filters.Category,
			PriceRange:     r.Filters.PriceRange,
			Rating:         r.Filters.Rating,
			HalalCertified: r.Filters.HalalCertified,
			FamilyFriendly: r.Filters.FamilyFriendly,
		}
	}
	if r.UserLocation != nil {
		req.UserLocation = &domain.Coordinates{
			Lat: r.UserLocation.Lat,
			Lng: r.UserLocation.Lng,
		}
	}
	return req
}

type chatMessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequestDTO struct {
	Message string           `json:"message"`
	History []chatMessageDTO `json:"history,omitempty"`
}

func (r *chatRequestDTO) toDomain() *domain.ChatRequest {
	req := &domain.ChatRequest{Message: r.Message}
	for _, m := range r.History {
		req.History = append(req.History, domain.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return req
}

type safetyRequestDTO struct {
	LocationName string         `json:"locationName"`
	Coordinates  coordinatesDTO `json:"coordinates"`
	TimeOfDay    string         `json:"timeOfDay"`
}

func (r *safetyRequestDTO) toDomain() *domain.SafetyRequest {
	return &domain.SafetyRequest{
		LocationName: r.LocationName,
		Coordinates:  domain.Coordinates{Lat: r.Coordinates.Lat, Lng: r.Coordinates.Lng},
		TimeOfDay:    r.TimeOfDay,
	}
}

// --- Responses ---

type locationDTO struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Category       string   `json:"category,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"reviewCount"`
	PriceRange     string   `json:"priceRange,omitempty"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Verified       bool     `json:"verified"`
	HalalCertified *bool    `json:"halalCertified,omitempty"`
	FamilyFriendly *bool    `json:"familyFriendly,omitempty"`
	OpeningHours   string   `json:"openingHours,omitempty"`
}

func locationFromDomain(loc *domain.Location) locationDTO {
	return locationDTO{
		ID:             loc.ID,
		Name:           loc.Name,
		Description:    loc.Description,
		Category:       loc.Category,
		Tags:           loc.Tags,
		Rating:         loc.Rating,
		ReviewCount:    loc.ReviewCount,
		PriceRange:     loc.PriceRange,
		ImageURL:       loc.ImageURL,
		Latitude:       loc.Latitude,
		Longitude:      loc.Longitude,
		Verified:       loc.Verified,
		HalalCertified: loc.HalalCertified,
		FamilyFriendly: loc.FamilyFriendly,
		OpeningHours:   loc.OpeningHours,
	}
}

type locationResponseDTO struct {
	Success  bool        `json:"success"`
	Location locationDTO `json:"location"`
}

type searchResultDTO struct {
	locationDTO
	SimilarityScore float64  `json:"similarityScore"`
	DistanceKm      *float64 `json:"distanceKm,omitempty"`
}

type searchResponseDTO struct {
	Results     []searchResultDTO `json:"results"`
	Total       int               `json:"total"`
	QueryTimeMs int64             `json:"queryTimeMs"`
	Suggestions []string          `json:"suggestions"`
}

func searchResponseFromDomain(resp *domain.SearchResponse) searchResponseDTO {
	results := make([]searchResultDTO, len(resp.Results))
	for i := range resp.Results {
		results[i] = searchResultFromDomain(&resp.Results[i])
	}
	return searchResponseDTO{
		Results:     results,
		Total:       resp.Total,
		QueryTimeMs: resp.QueryTimeMs,
		Suggestions: resp.Suggestions,
	}
}

func searchResultFromDomain(r *domain.SearchResult) searchResultDTO {
	return searchResultDTO{
		locationDTO:     locationFromDomain(&r.Location),
		SimilarityScore: r.SimilarityScore,
		DistanceKm:      r.DistanceKm,
	}
}

type chatResponseDTO struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

type safetyResponseDTO struct {
	Success         bool     `json:"success"`
	RiskScore       int      `json:"riskScore"`
	RiskLevel       string   `json:"riskLevel"`
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
	Location        string   `json:"location"`
	TimeOfDay       string   `json:"timeOfDay"`
}

type healthResponseDTO struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorEnvelope is the failure shape for every endpoint.
type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
