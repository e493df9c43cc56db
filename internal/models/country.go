// internal/models/country.go
package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Level is a categorical rating shared by countries and preferences.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

var levelRank = map[Level]int{
	LevelLow:    0,
	LevelMedium: 1,
	LevelHigh:   2,
}

// ParseLevel normalizes s and reports whether it is a known level.
func ParseLevel(s string) (Level, bool) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	_, ok := levelRank[l]
	return l, ok
}

// Rank returns the ordinal position of a known level (low=0 .. high=2).
func (l Level) Rank() (int, bool) {
	r, ok := levelRank[l]
	return r, ok
}

const (
	MinCostLevel = 1.0
	MaxCostLevel = 10.0
)

// CostLevel is the numeric cost-of-living index (1 = cheapest, 10 = most expensive).
// Values that cannot be read as a number in range are kept as missing.
type CostLevel struct {
	value float64
	valid bool
}

func NewCostLevel(v float64) CostLevel {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < MinCostLevel || v > MaxCostLevel {
		return CostLevel{}
	}
	return CostLevel{value: v, valid: true}
}

// ParseCostLevel never fails; unreadable input yields a missing cost level.
func ParseCostLevel(s string) CostLevel {
	s = strings.TrimSpace(s)
	if s == "" {
		return CostLevel{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return CostLevel{}
	}
	return NewCostLevel(v)
}

func (c CostLevel) Value() (float64, bool) {
	return c.value, c.valid
}

func (c CostLevel) String() string {
	if !c.valid {
		return ""
	}
	return strconv.FormatFloat(c.value, 'f', -1, 64)
}

func (c CostLevel) MarshalJSON() ([]byte, error) {
	if !c.valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.value)
}

func (c *CostLevel) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*c = CostLevel{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*c = ParseCostLevel(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*c = NewCostLevel(v)
	return nil
}

// Country is an immutable reference record loaded once at startup.
type Country struct {
	Name            string    `json:"name"`
	Code            string    `json:"code,omitempty"`
	EducationLevel  string    `json:"education_level,omitempty"`
	CostLevel       CostLevel `json:"cost_level"`
	JobsLevel       string    `json:"economic_opportunity_level,omitempty"`
	SafetyLevel     string    `json:"safety_level,omitempty"`
	HealthcareLevel string    `json:"healthcare_level,omitempty"`
	Climate         string    `json:"climate_preference,omitempty"`

	// Display-only economy data, filled by the enrichment tool.
	Population   *float64 `json:"population,omitempty"`
	GDPPerCapita *float64 `json:"gdp_per_capita,omitempty"`
}

// Attribute returns the raw display value the country holds for d.
func (c Country) Attribute(d Dimension) string {
	switch d {
	case DimensionEducation:
		return c.EducationLevel
	case DimensionCost:
		return c.CostLevel.String()
	case DimensionJobs:
		return c.JobsLevel
	case DimensionSafety:
		return c.SafetyLevel
	case DimensionHealthcare:
		return c.HealthcareLevel
	case DimensionClimate:
		return c.Climate
	}
	return ""
}
