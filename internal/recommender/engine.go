// internal/recommender/engine.go
package recommender

import (
	"math"
	"sort"

	"country-match-workers/internal/models"
)

// Engine scores and ranks countries. It holds no mutable state once built and
// is safe to share between goroutines.
type Engine struct {
	cfg   Config
	rules map[models.Dimension]Rule
}

// Evaluation is the full outcome of scoring one country.
type Evaluation struct {
	Score    float64
	Evidence int
	Details  []models.DimensionMatch
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	weights := make(map[models.Dimension]float64, len(cfg.Weights))
	for d, w := range cfg.Weights {
		weights[d] = w
	}
	cfg.Weights = weights

	costRules := make(map[models.Level]CostRule, len(cfg.CostRules))
	for l, r := range cfg.CostRules {
		costRules[l] = r
	}
	cfg.CostRules = costRules

	return &Engine{cfg: cfg, rules: defaultRules}, nil
}

// Config returns a copy of the configuration the engine was built with.
func (e *Engine) Config() Config {
	cfg := e.cfg
	cfg.Weights = make(map[models.Dimension]float64, len(e.cfg.Weights))
	for d, w := range e.cfg.Weights {
		cfg.Weights[d] = w
	}
	cfg.CostRules = make(map[models.Level]CostRule, len(e.cfg.CostRules))
	for l, r := range e.cfg.CostRules {
		cfg.CostRules[l] = r
	}
	return cfg
}

// Score returns the match score of country against prefs on the 0-10 scale.
func (e *Engine) Score(country models.Country, prefs models.Preferences) float64 {
	return e.Evaluate(country, prefs).Score
}

// Evaluate scores every dimension the user expressed a preference for and
// normalizes by the weights actually applied.
func (e *Engine) Evaluate(country models.Country, prefs models.Preferences) Evaluation {
	var (
		weighted    float64
		totalWeight float64
		ev          Evaluation
	)

	for _, dim := range models.AllDimensions {
		pref := prefs.Value(dim)
		if pref == "" {
			continue
		}
		weight := e.cfg.Weights[dim]
		if weight <= 0 {
			continue
		}
		rule, ok := e.rules[dim]
		if !ok {
			continue
		}

		score, evaluated := rule(&e.cfg, pref, country)
		weighted += score * weight
		totalWeight += weight
		if evaluated {
			ev.Evidence++
		}

		ev.Details = append(ev.Details, models.DimensionMatch{
			Dimension:    dim,
			Preference:   pref,
			CountryValue: country.Attribute(dim),
			Score:        score,
			Weight:       weight,
			Evaluated:    evaluated,
		})
	}

	if totalWeight == 0 || ev.Evidence < e.cfg.MinEvidence {
		ev.Score = MinScore
		return ev
	}

	ev.Score = clamp(round(weighted/totalWeight, e.cfg.ScorePrecision))
	return ev
}

// Recommend scores all countries, drops non-matches, and ranks the rest by
// descending score. Countries with equal scores keep their input order.
func (e *Engine) Recommend(countries []models.Country, prefs models.Preferences) []models.ScoredCountry {
	results := make([]models.ScoredCountry, 0, len(countries))
	for _, country := range countries {
		ev := e.Evaluate(country, prefs)
		if ev.Score <= 0 {
			continue
		}
		results = append(results, models.ScoredCountry{
			Country:      country,
			Score:        ev.Score,
			MatchDetails: ev.Details,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

func round(v float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(v*p) / p
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return MinScore
	}
	return math.Max(MinScore, math.Min(MaxScore, v))
}

var defaultEngine = mustEngine(DefaultConfig())

func mustEngine(cfg Config) *Engine {
	e, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return e
}

// Score uses the default configuration.
func Score(country models.Country, prefs models.Preferences) float64 {
	return defaultEngine.Score(country, prefs)
}

// Recommend uses the default configuration.
func Recommend(countries []models.Country, prefs models.Preferences) []models.ScoredCountry {
	return defaultEngine.Recommend(countries, prefs)
}
