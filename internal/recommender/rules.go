// internal/recommender/rules.go
package recommender

import (
	"strings"

	"country-match-workers/internal/models"
)

// Rule scores one dimension for a present preference. It reports false when
// either side lacks usable data, in which case the returned score is neutral.
type Rule func(cfg *Config, preference string, country models.Country) (float64, bool)

// defaultRules is the strategy table consulted for every dimension.
var defaultRules = map[models.Dimension]Rule{
	models.DimensionEducation:  levelRule(func(c models.Country) string { return c.EducationLevel }),
	models.DimensionCost:       costRule,
	models.DimensionJobs:       levelRule(func(c models.Country) string { return c.JobsLevel }),
	models.DimensionSafety:     levelRule(func(c models.Country) string { return c.SafetyLevel }),
	models.DimensionHealthcare: levelRule(func(c models.Country) string { return c.HealthcareLevel }),
	models.DimensionClimate:    climateRule,
}

func levelRule(attr func(models.Country) string) Rule {
	return func(cfg *Config, preference string, country models.Country) (float64, bool) {
		want, ok := models.ParseLevel(preference)
		if !ok {
			return cfg.NeutralScore, false
		}
		have, ok := models.ParseLevel(attr(country))
		if !ok {
			return cfg.NeutralScore, false
		}
		return ladderScore(cfg, want, have), true
	}
}

// ladderScore degrades with the distance between two levels.
func ladderScore(cfg *Config, want, have models.Level) float64 {
	w, _ := want.Rank()
	h, _ := have.Rank()
	switch distance(w, h) {
	case 0:
		return cfg.ExactMatchScore
	case 1:
		return cfg.AdjacentMatchScore
	default:
		return cfg.OppositeMatchScore
	}
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// costRule is directional: the preferred level selects a numeric band rather
// than requiring equality.
func costRule(cfg *Config, preference string, country models.Country) (float64, bool) {
	want, ok := models.ParseLevel(preference)
	if !ok {
		return cfg.NeutralScore, false
	}
	rule, ok := cfg.CostRules[want]
	if !ok {
		return cfg.NeutralScore, false
	}
	cost, ok := country.CostLevel.Value()
	if !ok {
		return cfg.NeutralScore, false
	}
	switch {
	case rule.Best.Contains(cost):
		return cfg.ExactMatchScore, true
	case rule.Fair.Contains(cost):
		return cfg.AdjacentMatchScore, true
	default:
		return cfg.OppositeMatchScore, true
	}
}

func climateRule(cfg *Config, preference string, country models.Country) (float64, bool) {
	want := normalizeCategory(preference)
	have := normalizeCategory(country.Climate)
	if want == "" || have == "" {
		return cfg.NeutralScore, false
	}
	if want == have {
		return cfg.ClimateMatchScore, true
	}
	return cfg.ClimateMismatchScore, true
}

func normalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
