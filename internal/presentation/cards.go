// internal/presentation/cards.go
package presentation

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"country-match-workers/internal/models"
)

const NoMatchesMessage = "No countries match your preferences."

// Score labels for values on the 0-10 scale.
const (
	LabelExcellent = "Excellent"
	LabelGood      = "Good"
	LabelFair      = "Fair"
	LabelLimited   = "Limited"
)

// Cost labels for the 1-10 cost index.
const (
	CostLow    = "Low"
	CostMedium = "Medium"
	CostHigh   = "High"
)

func FormatScore(score float64) string {
	switch {
	case score >= 8:
		return LabelExcellent
	case score >= 6:
		return LabelGood
	case score >= 4:
		return LabelFair
	default:
		return LabelLimited
	}
}

func FormatCost(cost float64) string {
	switch {
	case cost <= 3:
		return CostLow
	case cost <= 5:
		return CostMedium
	default:
		return CostHigh
	}
}

var dimensionLabels = map[models.Dimension]string{
	models.DimensionEducation:  "Education Quality",
	models.DimensionCost:       "Living Cost",
	models.DimensionJobs:       "Job Opportunities",
	models.DimensionSafety:     "Safety",
	models.DimensionHealthcare: "Healthcare",
	models.DimensionClimate:    "Climate",
}

func DimensionLabel(d models.Dimension) string {
	if l, ok := dimensionLabels[d]; ok {
		return l
	}
	return string(d)
}

// Attribute is one labelled country value on a card.
type Attribute struct {
	Dimension  models.Dimension `json:"dimension"`
	Label      string           `json:"label"`
	Value      string           `json:"value"`
	Display    string           `json:"display"`
	MatchScore *float64         `json:"matchScore,omitempty"`
	MatchLabel string           `json:"matchLabel,omitempty"`
}

type Card struct {
	Name         string      `json:"name"`
	Code         string      `json:"code,omitempty"`
	Rank         int         `json:"rank"`
	Score        float64     `json:"score"`
	ScoreLabel   string      `json:"scoreLabel"`
	MatchPercent int         `json:"matchPercent"`
	Attributes   []Attribute `json:"attributes"`
	Population   *float64    `json:"population,omitempty"`
	GDPPerCapita *float64    `json:"gdpPerCapita,omitempty"`
}

// BuildCards renders ranked results. The result is never nil.
func BuildCards(results []models.ScoredCountry) []Card {
	cards := make([]Card, 0, len(results))
	for _, r := range results {
		cards = append(cards, BuildCard(r))
	}
	return cards
}

func BuildCard(r models.ScoredCountry) Card {
	matches := make(map[models.Dimension]models.DimensionMatch, len(r.MatchDetails))
	for _, m := range r.MatchDetails {
		matches[m.Dimension] = m
	}

	attrs := make([]Attribute, 0, len(models.AllDimensions))
	for _, d := range models.AllDimensions {
		value := r.Attribute(d)
		a := Attribute{
			Dimension: d,
			Label:     DimensionLabel(d),
			Value:     value,
			Display:   displayValue(d, r.Country),
		}
		if m, ok := matches[d]; ok && m.Evaluated {
			score := m.Score
			a.MatchScore = &score
			a.MatchLabel = FormatScore(score)
		}
		attrs = append(attrs, a)
	}

	return Card{
		Name:         r.Name,
		Code:         r.Code,
		Rank:         r.Rank,
		Score:        r.Score,
		ScoreLabel:   FormatScore(r.Score),
		MatchPercent: int(math.Round(r.Score * 10)),
		Attributes:   attrs,
		Population:   r.Population,
		GDPPerCapita: r.GDPPerCapita,
	}
}

func displayValue(d models.Dimension, c models.Country) string {
	if d == models.DimensionCost {
		v, ok := c.CostLevel.Value()
		if !ok {
			return "Unknown"
		}
		return FormatCost(v)
	}
	value := strings.TrimSpace(c.Attribute(d))
	if value == "" {
		return "Unknown"
	}
	return capitalize(value)
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(value string) string {
	r, size := utf8.DecodeRuneInString(value)
	return string(unicode.ToUpper(r)) + strings.ToLower(value[size:])
}

// RenderText formats up to max cards as a plain-text summary. max <= 0 means all.
func RenderText(cards []Card, max int) string {
	if len(cards) == 0 {
		return NoMatchesMessage
	}
	if max > 0 && len(cards) > max {
		cards = cards[:max]
	}

	var b strings.Builder
	b.WriteString("Your top country matches:\n")
	for _, c := range cards {
		fmt.Fprintf(&b, "\n#%d %s - %d%% match (%s)\n", c.Rank, c.Name, c.MatchPercent, c.ScoreLabel)
		for _, a := range c.Attributes {
			fmt.Fprintf(&b, "  %s: %s\n", a.Label, a.Display)
		}
	}
	return b.String()
}

// RenderSMS is a one-line summary for short messages.
func RenderSMS(cards []Card, max int) string {
	if len(cards) == 0 {
		return NoMatchesMessage
	}
	if max > 0 && len(cards) > max {
		cards = cards[:max]
	}
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, fmt.Sprintf("%d. %s (%d%%)", c.Rank, c.Name, c.MatchPercent))
	}
	return "Top matches: " + strings.Join(parts, ", ")
}
