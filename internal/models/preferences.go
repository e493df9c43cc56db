// internal/models/preferences.go
package models

// Dimension is one scoring criterion.
type Dimension string

const (
	DimensionEducation  Dimension = "education"
	DimensionCost       Dimension = "cost"
	DimensionJobs       Dimension = "jobs"
	DimensionSafety     Dimension = "safety"
	DimensionHealthcare Dimension = "healthcare"
	DimensionClimate    Dimension = "climate"
)

// AllDimensions lists every dimension in descending default weight order.
var AllDimensions = []Dimension{
	DimensionEducation,
	DimensionCost,
	DimensionJobs,
	DimensionSafety,
	DimensionHealthcare,
	DimensionClimate,
}

func (d Dimension) Valid() bool {
	for _, known := range AllDimensions {
		if d == known {
			return true
		}
	}
	return false
}

// Preferences holds one optional value per dimension. An empty string means
// the user expressed no preference and the dimension is left out of scoring.
type Preferences struct {
	Education  string `json:"education,omitempty"`
	Cost       string `json:"cost,omitempty"`
	Jobs       string `json:"jobs,omitempty"`
	Safety     string `json:"safety,omitempty"`
	Healthcare string `json:"healthcare,omitempty"`
	Climate    string `json:"climate,omitempty"`
}

func (p Preferences) Value(d Dimension) string {
	switch d {
	case DimensionEducation:
		return p.Education
	case DimensionCost:
		return p.Cost
	case DimensionJobs:
		return p.Jobs
	case DimensionSafety:
		return p.Safety
	case DimensionHealthcare:
		return p.Healthcare
	case DimensionClimate:
		return p.Climate
	}
	return ""
}

// With returns a copy of p with d set to value.
func (p Preferences) With(d Dimension, value string) Preferences {
	switch d {
	case DimensionEducation:
		p.Education = value
	case DimensionCost:
		p.Cost = value
	case DimensionJobs:
		p.Jobs = value
	case DimensionSafety:
		p.Safety = value
	case DimensionHealthcare:
		p.Healthcare = value
	case DimensionClimate:
		p.Climate = value
	}
	return p
}

// Count returns how many dimensions carry a preference.
func (p Preferences) Count() int {
	n := 0
	for _, d := range AllDimensions {
		if p.Value(d) != "" {
			n++
		}
	}
	return n
}
