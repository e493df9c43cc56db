// internal/workers/recommendation/recommend-countries/models.go
package recommendcountries

import "country-match-workers/internal/models"

// Input takes mapped preferences, or raw quiz answers keyed by question id
// when no preference is set.
type Input struct {
	Preferences models.Preferences `json:"preferences"`
	Answers     map[string]string  `json:"answers,omitempty"`
	// MaxResults may lower the configured cap for this request.
	MaxResults int `json:"maxResults,omitempty"`
}

type Output struct {
	RecommendationID string                 `json:"recommendationId"`
	Results          []models.ScoredCountry `json:"results"`
	TotalMatches     int                    `json:"totalMatches"`
	Evaluated        int                    `json:"evaluated"`
	NoMatches        bool                   `json:"noMatches"`
}
