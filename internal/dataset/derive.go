// internal/dataset/derive.go
package dataset

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"country-match-workers/internal/common/logger"
	"country-match-workers/internal/models"
)

// Index names of the raw score files a dataset is derived from.
const (
	IndexCostOfLiving        = "cost_of_living"
	IndexEconomicOpportunity = "economic_opportunity"
	IndexSafety              = "safety"
	IndexHealthcare          = "healthcare"
	IndexEducation           = "education"
	IndexClimate             = "climate"
)

// IndexFiles maps each index to its file name in a raw data directory. The
// cost-of-living file lists the countries; the others are joined onto it.
var IndexFiles = map[string]string{
	IndexCostOfLiving:        "2-cost-of-living.csv",
	IndexEconomicOpportunity: "1-economic-opportunity.csv",
	IndexSafety:              "4-safety-index.csv",
	IndexHealthcare:          "5-health-index.csv",
	IndexEducation:           "6-education-index.csv",
	IndexClimate:             "8-climate-index.csv",
}

var joinOrder = []string{
	IndexEconomicOpportunity,
	IndexSafety,
	IndexHealthcare,
	IndexEducation,
	IndexClimate,
}

var ErrMissingBaseIndex = stderrors.New("cost of living index is required")

// Level thresholds on the 1-10 scale.
const (
	HighThreshold   = 7.0
	MediumThreshold = 4.0

	TropicalThreshold  = 8.0
	TemperateThreshold = 5.0
)

// DeriveConfig is the range the raw index scores are reported on.
type DeriveConfig struct {
	ScaleMin float64
	ScaleMax float64
}

func DefaultDeriveConfig() DeriveConfig {
	return DeriveConfig{ScaleMin: 0, ScaleMax: 100}
}

// RawIndices holds one country's source scores. Nil means the source had no
// usable value.
type RawIndices struct {
	Name                string
	CostOfLiving        *float64
	EconomicOpportunity *float64
	Safety              *float64
	Healthcare          *float64
	Education           *float64
	Climate             *float64
}

func (r *RawIndices) set(index string, v *float64) {
	switch index {
	case IndexCostOfLiving:
		r.CostOfLiving = v
	case IndexEconomicOpportunity:
		r.EconomicOpportunity = v
	case IndexSafety:
		r.Safety = v
	case IndexHealthcare:
		r.Healthcare = v
	case IndexEducation:
		r.Education = v
	case IndexClimate:
		r.Climate = v
	}
}

// NormalizeToTen maps v linearly from [min, max] onto [1, 10] and clamps the
// result. A degenerate range maps everything to 5.
func NormalizeToTen(v, min, max float64) float64 {
	if max == min {
		return 5
	}
	n := (v-min)/(max-min)*9 + 1
	n = math.Max(models.MinCostLevel, math.Min(models.MaxCostLevel, n))
	return math.Round(n*100) / 100
}

// LevelFor buckets a 1-10 score.
func LevelFor(score float64) models.Level {
	switch {
	case score >= HighThreshold:
		return models.LevelHigh
	case score >= MediumThreshold:
		return models.LevelMedium
	default:
		return models.LevelLow
	}
}

// CostCategory buckets a 1-10 cost index where a higher index is more
// expensive: cheap countries are "low".
func CostCategory(score float64) models.Level {
	switch inverted := 11 - score; {
	case inverted >= HighThreshold:
		return models.LevelLow
	case inverted >= MediumThreshold:
		return models.LevelMedium
	default:
		return models.LevelHigh
	}
}

// ClimateFor maps a 1-10 climate index to a climate category.
func ClimateFor(score float64) string {
	switch {
	case score >= TropicalThreshold:
		return "tropical"
	case score >= TemperateThreshold:
		return "temperate"
	default:
		return "cold"
	}
}

// DeriveCountry builds a dataset record from raw scores. Missing scores
// leave the attribute missing.
func DeriveCountry(raw RawIndices, cfg DeriveConfig) models.Country {
	level := func(v *float64) string {
		if v == nil {
			return ""
		}
		return string(LevelFor(NormalizeToTen(*v, cfg.ScaleMin, cfg.ScaleMax)))
	}

	c := models.Country{
		Name:            raw.Name,
		EducationLevel:  level(raw.Education),
		JobsLevel:       level(raw.EconomicOpportunity),
		SafetyLevel:     level(raw.Safety),
		HealthcareLevel: level(raw.Healthcare),
	}
	if raw.CostOfLiving != nil {
		c.CostLevel = models.NewCostLevel(NormalizeToTen(*raw.CostOfLiving, cfg.ScaleMin, cfg.ScaleMax))
	}
	if raw.Climate != nil {
		c.Climate = ClimateFor(NormalizeToTen(*raw.Climate, cfg.ScaleMin, cfg.ScaleMax))
	}
	return c
}

func DeriveCountries(raws []RawIndices, cfg DeriveConfig) []models.Country {
	out := make([]models.Country, 0, len(raws))
	for _, r := range raws {
		out = append(out, DeriveCountry(r, cfg))
	}
	return out
}

// Scores is one index file: scores by country name, plus the file's row order.
type Scores struct {
	Order  []string
	Values map[string]*float64
}

// ReadScoresCSV reads a "Country Name","Score" file. Rows without a name are
// skipped and unreadable scores (such as "N/A") are kept as missing.
func ReadScoresCSV(r io.Reader) (*Scores, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	nameCol, scoreCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "country name", "country_name", "country":
			nameCol = i
		case "score":
			scoreCol = i
		}
	}
	if nameCol < 0 || scoreCol < 0 {
		return nil, fmt.Errorf("header must contain Country Name and Score columns, got %v", header)
	}

	scores := &Scores{Values: make(map[string]*float64)}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if nameCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}
		var value *float64
		if scoreCol < len(row) {
			value = parseOptionalFloat(strings.TrimSpace(row[scoreCol]))
		}
		if value != nil && (math.IsNaN(*value) || math.IsInf(*value, 0)) {
			value = nil
		}
		if _, seen := scores.Values[name]; !seen {
			scores.Order = append(scores.Order, name)
		}
		scores.Values[name] = value
	}
	return scores, nil
}

// JoinIndices joins every index onto the cost-of-living country list, in its
// order. Countries missing from another index get a nil score for it.
func JoinIndices(indices map[string]*Scores) ([]RawIndices, error) {
	base, ok := indices[IndexCostOfLiving]
	if !ok || base == nil {
		return nil, ErrMissingBaseIndex
	}

	out := make([]RawIndices, 0, len(base.Order))
	for _, name := range base.Order {
		raw := RawIndices{Name: name, CostOfLiving: base.Values[name]}
		for _, index := range joinOrder {
			if s := indices[index]; s != nil {
				raw.set(index, s.Values[name])
			}
		}
		out = append(out, raw)
	}
	return out, nil
}

// LoadIndexDir reads the IndexFiles found in dir. Only the cost-of-living
// file is required.
func LoadIndexDir(dir string, log logger.Logger) ([]RawIndices, error) {
	indices := make(map[string]*Scores, len(IndexFiles))
	for index, file := range IndexFiles {
		path := filepath.Join(dir, file)
		f, err := os.Open(path)
		if stderrors.Is(err, os.ErrNotExist) && index != IndexCostOfLiving {
			log.Warn("index file missing, attribute left empty", map[string]interface{}{"index": index, "path": path})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		scores, err := ReadScoresCSV(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		log.Debug("index file loaded", map[string]interface{}{"index": index, "rows": len(scores.Order)})
		indices[index] = scores
	}
	return JoinIndices(indices)
}

// Coverage counts, per attribute, how many countries have a value.
func Coverage(countries []models.Country) map[string]int {
	out := map[string]int{}
	for _, c := range countries {
		for _, d := range models.AllDimensions {
			if strings.TrimSpace(c.Attribute(d)) != "" {
				out[string(d)]++
			}
		}
	}
	return out
}
