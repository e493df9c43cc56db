// internal/dataset/source.go
package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"country-match-workers/internal/common/errors"
	"country-match-workers/internal/common/validation"
	"country-match-workers/internal/models"
)

// Source supplies the country records in their dataset order.
type Source interface {
	Countries(ctx context.Context) ([]models.Country, error)
}

// FileSource reads a static JSON or CSV dataset.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) String() string {
	return "file:" + s.path
}

func (s *FileSource) Countries(ctx context.Context) ([]models.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", s.path, err)
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".json":
		return DecodeJSON(data)
	case ".csv":
		return DecodeCSV(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(s.path))
	}
}

// DecodeJSON validates data against the dataset schema and decodes it.
func DecodeJSON(data []byte) ([]models.Country, error) {
	result, err := validation.CountryDataset.ValidateBytes(data)
	if err != nil {
		return nil, errors.NewDatasetValidationFailedError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewDatasetValidationFailedError(result.Summary())
	}

	var countries []models.Country
	if err := json.Unmarshal(data, &countries); err != nil {
		return nil, errors.NewDatasetValidationFailedError(err.Error())
	}
	return countries, nil
}

// DecodeCSV reads a header row of JSON field names followed by one country
// per row. Unknown columns are ignored and unreadable numbers become missing.
func DecodeCSV(r io.Reader) ([]models.Country, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []models.Country{}, nil
	}
	if err != nil {
		return nil, errors.NewDatasetValidationFailedError(err.Error())
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["name"]; !ok {
		return nil, errors.NewDatasetValidationFailedError("csv header has no name column")
	}

	countries := []models.Country{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.NewDatasetValidationFailedError(err.Error())
		}

		get := func(col string) string {
			i, ok := columns[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		name := get("name")
		if name == "" {
			return nil, errors.NewDatasetValidationFailedError(fmt.Sprintf("line %d: name is empty", line))
		}

		countries = append(countries, models.Country{
			Name:            name,
			Code:            get("code"),
			EducationLevel:  get("education_level"),
			CostLevel:       models.ParseCostLevel(get("cost_level")),
			JobsLevel:       get("economic_opportunity_level"),
			SafetyLevel:     get("safety_level"),
			HealthcareLevel: get("healthcare_level"),
			Climate:         get("climate_preference"),
			Population:      parseOptionalFloat(get("population")),
			GDPPerCapita:    parseOptionalFloat(get("gdp_per_capita")),
		})
	}
	return countries, nil
}

func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
