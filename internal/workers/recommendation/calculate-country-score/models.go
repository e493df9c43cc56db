// internal/workers/recommendation/calculate-country-score/models.go
package calculatecountryscore

import "country-match-workers/internal/models"

// Input names a catalog country, or carries the record inline in CountryData.
type Input struct {
	Country     string             `json:"country,omitempty"`
	CountryData *models.Country    `json:"countryData,omitempty"`
	Preferences models.Preferences `json:"preferences"`
}

type Output struct {
	Country      string                  `json:"country"`
	Score        float64                 `json:"score"`
	Evidence     int                     `json:"evidence"`
	Qualified    bool                    `json:"qualified"`
	MatchDetails []models.DimensionMatch `json:"matchDetails"`
}
