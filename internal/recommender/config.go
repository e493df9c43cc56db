// internal/recommender/config.go
package recommender

import (
	"errors"
	"fmt"

	"country-match-workers/internal/models"
)

// Per-dimension scores on the 0-10 scale.
const (
	ExactMatchScore      = 10.0
	AdjacentMatchScore   = 6.0
	OppositeMatchScore   = 2.0
	NeutralScore         = 5.0
	ClimateMatchScore    = 10.0
	ClimateMismatchScore = 3.0

	MaxScore = 10.0
	MinScore = 0.0
)

// DefaultMinEvidence is the number of dimensions that must have usable data on
// both sides before a country can receive a non-zero score.
const DefaultMinEvidence = 3

// ScorePrecision is the number of decimals kept on final scores.
const ScorePrecision = 1

// MaxScorePrecision bounds ScorePrecision so rounding stays exact in float64.
const MaxScorePrecision = 6

// Default importance weights.
const (
	WeightEducation  = 0.25
	WeightCost       = 0.25
	WeightJobs       = 0.20
	WeightSafety     = 0.15
	WeightHealthcare = 0.10
	WeightClimate    = 0.05
)

// CostBand is an inclusive numeric range on the cost index.
type CostBand struct {
	Min float64
	Max float64
}

func (b CostBand) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// CostRule holds the bands used for one cost preference. A cost inside Best
// scores ExactMatch, inside Fair scores AdjacentMatch, anything else OppositeMatch.
type CostRule struct {
	Best CostBand
	Fair CostBand
}

// DefaultCostRules rewards low, middle or high cost indexes depending on the preference.
func DefaultCostRules() map[models.Level]CostRule {
	return map[models.Level]CostRule{
		models.LevelLow: {
			Best: CostBand{Min: models.MinCostLevel, Max: 4},
			Fair: CostBand{Min: models.MinCostLevel, Max: 6},
		},
		models.LevelMedium: {
			Best: CostBand{Min: 4, Max: 7},
			Fair: CostBand{Min: 2, Max: 9},
		},
		models.LevelHigh: {
			Best: CostBand{Min: 7, Max: models.MaxCostLevel},
			Fair: CostBand{Min: 5, Max: models.MaxCostLevel},
		},
	}
}

// Config carries every tunable constant of the engine.
type Config struct {
	Weights              map[models.Dimension]float64
	CostRules            map[models.Level]CostRule
	MinEvidence          int
	ExactMatchScore      float64
	AdjacentMatchScore   float64
	OppositeMatchScore   float64
	NeutralScore         float64
	ClimateMatchScore    float64
	ClimateMismatchScore float64
	ScorePrecision       int
}

func DefaultWeights() map[models.Dimension]float64 {
	return map[models.Dimension]float64{
		models.DimensionEducation:  WeightEducation,
		models.DimensionCost:       WeightCost,
		models.DimensionJobs:       WeightJobs,
		models.DimensionSafety:     WeightSafety,
		models.DimensionHealthcare: WeightHealthcare,
		models.DimensionClimate:    WeightClimate,
	}
}

func DefaultConfig() Config {
	return Config{
		Weights:              DefaultWeights(),
		CostRules:            DefaultCostRules(),
		MinEvidence:          DefaultMinEvidence,
		ExactMatchScore:      ExactMatchScore,
		AdjacentMatchScore:   AdjacentMatchScore,
		OppositeMatchScore:   OppositeMatchScore,
		NeutralScore:         NeutralScore,
		ClimateMatchScore:    ClimateMatchScore,
		ClimateMismatchScore: ClimateMismatchScore,
		ScorePrecision:       ScorePrecision,
	}
}

var (
	ErrInvalidWeight = errors.New("invalid weight")
	ErrInvalidScore  = errors.New("invalid score constant")
)

// Validate checks that the configuration can produce scores in range.
func (c Config) Validate() error {
	total := 0.0
	for d, w := range c.Weights {
		if !d.Valid() {
			return fmt.Errorf("%w: unknown dimension %q", ErrInvalidWeight, d)
		}
		if w < 0 {
			return fmt.Errorf("%w: %s has negative weight %v", ErrInvalidWeight, d, w)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("%w: weights sum to zero", ErrInvalidWeight)
	}
	if c.MinEvidence < 0 {
		return fmt.Errorf("min evidence must not be negative, got %d", c.MinEvidence)
	}
	if c.ScorePrecision < 0 || c.ScorePrecision > MaxScorePrecision {
		return fmt.Errorf("score precision must be within [0, %d], got %d", MaxScorePrecision, c.ScorePrecision)
	}

	scores := map[string]float64{
		"exact":            c.ExactMatchScore,
		"adjacent":         c.AdjacentMatchScore,
		"opposite":         c.OppositeMatchScore,
		"neutral":          c.NeutralScore,
		"climate match":    c.ClimateMatchScore,
		"climate mismatch": c.ClimateMismatchScore,
	}
	for name, s := range scores {
		if s < MinScore || s > MaxScore {
			return fmt.Errorf("%w: %s score %v outside [0, 10]", ErrInvalidScore, name, s)
		}
	}
	if !(c.ExactMatchScore > c.AdjacentMatchScore && c.AdjacentMatchScore > c.OppositeMatchScore) {
		return fmt.Errorf("%w: exact > adjacent > opposite must hold", ErrInvalidScore)
	}
	if c.OppositeMatchScore <= MinScore {
		return fmt.Errorf("%w: opposite score must be above zero, got %v", ErrInvalidScore, c.OppositeMatchScore)
	}
	if !(c.NeutralScore > c.OppositeMatchScore && c.NeutralScore < c.ExactMatchScore) {
		return fmt.Errorf("%w: neutral score %v must lie between opposite and exact", ErrInvalidScore, c.NeutralScore)
	}
	if c.ClimateMismatchScore <= MinScore {
		return fmt.Errorf("%w: climate mismatch score must be above zero, got %v", ErrInvalidScore, c.ClimateMismatchScore)
	}
	if c.ClimateMismatchScore >= c.ClimateMatchScore {
		return fmt.Errorf("%w: climate match must beat mismatch", ErrInvalidScore)
	}
	for level, rule := range c.CostRules {
		if _, ok := level.Rank(); !ok {
			return fmt.Errorf("%w: unknown cost preference %q", ErrInvalidScore, level)
		}
		if rule.Best.Min > rule.Best.Max || rule.Fair.Min > rule.Fair.Max {
			return fmt.Errorf("%w: empty cost band for %q", ErrInvalidScore, level)
		}
	}
	return nil
}
