package domain

type Suggestion struct {
	Type      string   `json:"type,omitempty"`
	Value     string   `json:"value"`
	Subtext   string   `json:"subtext"`
	DataID    string   `json:"data_id"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// SuggestionRequest is the POST /api/suggestions body. Coordinates are
// serialised as null when the location is unknown.
type SuggestionRequest struct {
	Value     string   `json:"value"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type SuggestionResult struct {
	Status      string       `json:"status,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
	Suggestions []Suggestion `json:"suggestions"`
}

type Coords struct{ Lat, Lon float64 }
