// internal/models/result.go
package models

// DimensionMatch explains how a single dimension contributed to a score.
type DimensionMatch struct {
	Dimension    Dimension `json:"dimension"`
	Preference   string    `json:"preference"`
	CountryValue string    `json:"countryValue"`
	Score        float64   `json:"score"`
	Weight       float64   `json:"weight"`
	Evaluated    bool      `json:"evaluated"`
}

// ScoredCountry is created per recommendation request and discarded after rendering.
type ScoredCountry struct {
	Country
	Score        float64          `json:"score"`
	Rank         int              `json:"rank"`
	MatchDetails []DimensionMatch `json:"matchDetails,omitempty"`
}
