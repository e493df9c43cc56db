// internal/workers/recommendation/build-recommendation-response/models.go
package buildrecommendationresponse

import (
	"country-match-workers/internal/models"
	"country-match-workers/internal/presentation"
)

type Input struct {
	RecommendationID string                 `json:"recommendationId,omitempty"`
	Results          []models.ScoredCountry `json:"results"`
}

type Output struct {
	RecommendationID string              `json:"recommendationId,omitempty"`
	NoMatches        bool                `json:"noMatches"`
	Message          string              `json:"message,omitempty"`
	Cards            []presentation.Card `json:"cards"`
	Count            int                 `json:"count"`
	Summary          string              `json:"summary"`
}
