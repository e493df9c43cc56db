// internal/recommender/engine_test.go
package recommender

import (
	"fmt"
	"math/rand"
	"testing"

	"country-match-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Fixtures
// ==========================

func idealPreferences() models.Preferences {
	return models.Preferences{
		Education:  "high",
		Cost:       "low",
		Jobs:       "high",
		Safety:     "high",
		Healthcare: "high",
		Climate:    "temperate",
	}
}

func country(name, level string, cost float64, climate string) models.Country {
	return models.Country{
		Name:            name,
		EducationLevel:  level,
		CostLevel:       models.NewCostLevel(cost),
		JobsLevel:       level,
		SafetyLevel:     level,
		HealthcareLevel: level,
		Climate:         climate,
	}
}

func fixtureCountries() []models.Country {
	return []models.Country{
		country("Germany", "medium", 6, "temperate"),
		country("Norway", "high", 3, "temperate"),
		country("Brazil", "low", 4, "tropical"),
		country("Canada", "high", 7, "cold"),
	}
}

// ==========================
// Score
// ==========================

func TestScore_PerfectMatch(t *testing.T) {
	score := Score(country("Norway", "high", 3, "temperate"), idealPreferences())
	assert.GreaterOrEqual(t, score, 9.0)
	assert.Equal(t, 10.0, score)
}

func TestScore_CategoricalLadder(t *testing.T) {
	prefs := models.Preferences{Education: "high", Jobs: "high", Safety: "high"}

	tests := []struct {
		level    string
		expected float64
	}{
		{"high", ExactMatchScore},
		{"medium", AdjacentMatchScore},
		{"low", OppositeMatchScore},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			c := models.Country{EducationLevel: tt.level, JobsLevel: tt.level, SafetyLevel: tt.level}
			assert.Equal(t, tt.expected, Score(c, prefs))
		})
	}
}

func TestScore_LadderIsCaseInsensitive(t *testing.T) {
	prefs := models.Preferences{Education: " HIGH ", Jobs: "High", Safety: "high"}
	c := models.Country{EducationLevel: "high", JobsLevel: "HIGH", SafetyLevel: " high"}
	assert.Equal(t, 10.0, Score(c, prefs))
}

func TestScore_CostIsDirectional(t *testing.T) {
	base := models.Country{EducationLevel: "high", JobsLevel: "high"}

	tests := []struct {
		name     string
		pref     string
		cost     float64
		expected float64
	}{
		{"low pref, cheap", "low", 2, ExactMatchScore},
		{"low pref, border", "low", 4, ExactMatchScore},
		{"low pref, fair", "low", 5.5, AdjacentMatchScore},
		{"low pref, expensive", "low", 9, OppositeMatchScore},
		{"medium pref, middle", "medium", 5, ExactMatchScore},
		{"medium pref, fair", "medium", 8, AdjacentMatchScore},
		{"medium pref, extreme", "medium", 10, OppositeMatchScore},
		{"high pref, expensive", "high", 8, ExactMatchScore},
		{"high pref, fair", "high", 6, AdjacentMatchScore},
		{"high pref, cheap", "high", 2, OppositeMatchScore},
	}

	e := mustEngine(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			c.CostLevel = models.NewCostLevel(tt.cost)
			ev := e.Evaluate(c, models.Preferences{Education: "high", Jobs: "high", Cost: tt.pref})

			require.Len(t, ev.Details, 3)
			var costMatch models.DimensionMatch
			for _, d := range ev.Details {
				if d.Dimension == models.DimensionCost {
					costMatch = d
				}
			}
			assert.Equal(t, tt.expected, costMatch.Score)
			assert.True(t, costMatch.Evaluated)
		})
	}
}

func TestScore_CostRewardsCheaperForLowPreference(t *testing.T) {
	prefs := models.Preferences{Education: "high", Jobs: "high", Cost: "low"}
	cheap := models.Country{EducationLevel: "high", JobsLevel: "high", CostLevel: models.NewCostLevel(2)}
	mid := cheap
	mid.CostLevel = models.NewCostLevel(6)
	dear := cheap
	dear.CostLevel = models.NewCostLevel(9)

	assert.Greater(t, Score(cheap, prefs), Score(mid, prefs))
	assert.Greater(t, Score(mid, prefs), Score(dear, prefs))
}

func TestScore_ClimateMismatchIsSoft(t *testing.T) {
	prefs := idealPreferences()
	matching := country("A", "high", 3, "temperate")
	mismatching := country("B", "high", 3, "tropical")

	assert.Equal(t, 10.0, Score(matching, prefs))
	// (0.95*10 + 0.05*3) / 1.0 = 9.65 before rounding
	assert.InDelta(t, 9.65, Score(mismatching, prefs), 0.051)
	assert.Greater(t, Score(mismatching, prefs), 9.0)
}

func TestScore_EmptyPreferences(t *testing.T) {
	for _, c := range fixtureCountries() {
		assert.Equal(t, 0.0, Score(c, models.Preferences{}))
	}
}

func TestScore_MinimumEvidence(t *testing.T) {
	c := country("Norway", "high", 3, "temperate")

	two := models.Preferences{Education: "high", Jobs: "high"}
	assert.Equal(t, 0.0, Score(c, two))

	three := models.Preferences{Education: "high", Jobs: "high", Safety: "high"}
	assert.Equal(t, 10.0, Score(c, three))
}

func TestScore_MissingDataCountsAsNeutral(t *testing.T) {
	e := mustEngine(DefaultConfig())
	prefs := idealPreferences()

	c := country("Norway", "high", 3, "temperate")
	c.HealthcareLevel = ""
	ev := e.Evaluate(c, prefs)

	assert.Equal(t, 5, ev.Evidence)
	require.Len(t, ev.Details, 6)
	for _, d := range ev.Details {
		if d.Dimension == models.DimensionHealthcare {
			assert.Equal(t, NeutralScore, d.Score)
			assert.False(t, d.Evaluated)
		}
	}
	// (0.90*10 + 0.10*5) / 1.0
	assert.Equal(t, 9.5, ev.Score)
}

func TestScore_MalformedValuesAreMissing(t *testing.T) {
	prefs := idealPreferences()
	prefs.Education = "very-high"

	c := country("Norway", "high", 3, "temperate")
	c.CostLevel = models.ParseCostLevel("cheap")
	c.JobsLevel = "lots"

	ev := mustEngine(DefaultConfig()).Evaluate(c, prefs)
	assert.Equal(t, 3, ev.Evidence)
	// (0.25*5 + 0.25*5 + 0.20*5 + 0.15*10 + 0.10*10 + 0.05*10) / 1.0 = 6.5
	assert.Equal(t, 6.5, ev.Score)
}

func TestScore_PartialPreferencesNormalizeByAppliedWeight(t *testing.T) {
	prefs := models.Preferences{Education: "high", Jobs: "medium", Safety: "low"}
	c := models.Country{EducationLevel: "high", JobsLevel: "high", SafetyLevel: "high"}

	// (0.25*10 + 0.20*6 + 0.15*2) / 0.60 = 6.666..
	assert.Equal(t, 6.7, Score(c, prefs))
}

func TestScore_AlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := []string{"", "low", "medium", "high", "HIGH", "bogus", "temperate", "tropical"}
	costs := []string{"", "0", "1", "3.5", "7", "10", "11", "-4", "NaN", "abc"}

	pick := func() string { return values[rng.Intn(len(values))] }

	for i := 0; i < 2000; i++ {
		c := models.Country{
			Name:            fmt.Sprintf("c%d", i),
			EducationLevel:  pick(),
			CostLevel:       models.ParseCostLevel(costs[rng.Intn(len(costs))]),
			JobsLevel:       pick(),
			SafetyLevel:     pick(),
			HealthcareLevel: pick(),
			Climate:         pick(),
		}
		p := models.Preferences{
			Education:  pick(),
			Cost:       pick(),
			Jobs:       pick(),
			Safety:     pick(),
			Healthcare: pick(),
			Climate:    pick(),
		}
		s := Score(c, p)
		assert.GreaterOrEqual(t, s, MinScore)
		assert.LessOrEqual(t, s, MaxScore)
	}
}

func TestScore_MissingDataNeutrality(t *testing.T) {
	prefs := idealPreferences()
	for _, dim := range models.AllDimensions {
		t.Run(string(dim), func(t *testing.T) {
			twin := country("Twin", "medium", 6, "cold")
			stripped := twin

			switch dim {
			case models.DimensionEducation:
				twin.EducationLevel, stripped.EducationLevel = "high", ""
			case models.DimensionCost:
				twin.CostLevel, stripped.CostLevel = models.NewCostLevel(2), models.CostLevel{}
			case models.DimensionJobs:
				twin.JobsLevel, stripped.JobsLevel = "high", ""
			case models.DimensionSafety:
				twin.SafetyLevel, stripped.SafetyLevel = "high", ""
			case models.DimensionHealthcare:
				twin.HealthcareLevel, stripped.HealthcareLevel = "high", ""
			case models.DimensionClimate:
				twin.Climate, stripped.Climate = "temperate", ""
			}

			e := mustEngine(DefaultConfig())
			full := e.Evaluate(twin, prefs)
			missing := e.Evaluate(stripped, prefs)

			assert.GreaterOrEqual(t, full.Score, missing.Score)
			for _, d := range missing.Details {
				if d.Dimension == dim {
					assert.Equal(t, NeutralScore, d.Score)
				}
			}
		})
	}
}

// ==========================
// Recommend
// ==========================

func TestRecommend_RanksBestMatchFirst(t *testing.T) {
	results := Recommend(fixtureCountries(), idealPreferences())

	require.NotEmpty(t, results)
	assert.Equal(t, "Norway", results[0].Name)
	assert.Equal(t, 1, results[0].Rank)
	assert.GreaterOrEqual(t, results[0].Score, 9.0)
	for _, r := range results[1:] {
		assert.Less(t, r.Score, results[0].Score)
	}
}

func TestRecommend_Invariants(t *testing.T) {
	results := Recommend(fixtureCountries(), idealPreferences())

	for i, r := range results {
		assert.Greater(t, r.Score, 0.0)
		assert.Equal(t, i+1, r.Rank)
		if i > 0 {
			assert.LessOrEqual(t, r.Score, results[i-1].Score)
		}
		assert.NotEmpty(t, r.MatchDetails)
	}
}

func TestRecommend_UnattainablePreferencesYieldEmptyList(t *testing.T) {
	countries := []models.Country{
		country("A", "high", 3, "temperate"),
		country("B", "medium", 5, "cold"),
		country("C", "low", 8, "tropical"),
	}
	prefs := models.Preferences{
		Education:  "very-high",
		Cost:       "free",
		Jobs:       "very-high",
		Safety:     "very-high",
		Healthcare: "very-high",
		Climate:    "arctic",
	}

	results := Recommend(countries, prefs)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRecommend_EmptyPreferencesYieldEmptyList(t *testing.T) {
	results := Recommend(fixtureCountries(), models.Preferences{})
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRecommend_TiesKeepInputOrder(t *testing.T) {
	countries := []models.Country{
		country("First", "high", 3, "temperate"),
		country("Weaker", "low", 9, "cold"),
		country("Second", "high", 3, "temperate"),
		country("Third", "high", 3, "temperate"),
	}

	results := Recommend(countries, idealPreferences())

	require.Len(t, results, 4)
	assert.Equal(t, "First", results[0].Name)
	assert.Equal(t, "Second", results[1].Name)
	assert.Equal(t, "Third", results[2].Name)
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Equal(t, results[1].Score, results[2].Score)
	assert.Equal(t, []int{1, 2, 3}, []int{results[0].Rank, results[1].Rank, results[2].Rank})
	assert.Equal(t, "Weaker", results[3].Name)
}

func TestRecommend_IsIdempotentAndDoesNotMutateInput(t *testing.T) {
	countries := fixtureCountries()
	snapshot := fixtureCountries()

	first := Recommend(countries, idealPreferences())
	second := Recommend(countries, idealPreferences())

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, countries)
}

func TestRecommend_NilInput(t *testing.T) {
	results := Recommend(nil, idealPreferences())
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

// ==========================
// Engine configuration
// ==========================

func TestNewEngine_CustomWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights[models.DimensionClimate] = 0.5

	e, err := NewEngine(cfg)
	require.NoError(t, err)

	// Mutating the caller's map after construction must not affect the engine.
	cfg.Weights[models.DimensionClimate] = 0

	c := country("A", "high", 3, "cold")
	// (0.95*10 + 0.5*3) / 1.45
	assert.Equal(t, 7.6, e.Score(c, idealPreferences()))
	assert.Equal(t, 0.5, e.Config().Weights[models.DimensionClimate])
}

func TestNewEngine_ZeroWeightDimensionIsIgnored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights[models.DimensionClimate] = 0

	e, err := NewEngine(cfg)
	require.NoError(t, err)

	ev := e.Evaluate(country("A", "high", 3, "cold"), idealPreferences())
	assert.Equal(t, 10.0, ev.Score)
	assert.Len(t, ev.Details, 5)
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights[models.DimensionJobs] = -1

	_, err := NewEngine(cfg)
	assert.ErrorIs(t, err, ErrInvalidWeight)
}

func TestNewEngine_MinEvidenceZero(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinEvidence = 0

	e, err := NewEngine(cfg)
	require.NoError(t, err)

	// A single neutral dimension still produces a score once the policy is off.
	assert.Equal(t, NeutralScore, e.Score(models.Country{}, models.Preferences{Education: "high"}))
}
