// internal/dataset/catalog.go
package dataset

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"country-match-workers/internal/common/errors"
	"country-match-workers/internal/common/logger"
	"country-match-workers/internal/common/metrics"
	"country-match-workers/internal/models"
)

// Catalog is the immutable, loaded-once list of countries.
type Catalog struct {
	countries []models.Country
	index     map[string]int
}

// NewCatalog copies countries. The first record wins when names or codes repeat.
func NewCatalog(countries []models.Country) *Catalog {
	c := &Catalog{
		countries: append([]models.Country(nil), countries...),
		index:     make(map[string]int, len(countries)*2),
	}
	for i, country := range c.countries {
		for _, key := range []string{country.Name, country.Code} {
			key = normalizeKey(key)
			if key == "" {
				continue
			}
			if _, exists := c.index[key]; !exists {
				c.index[key] = i
			}
		}
	}
	return c
}

// LoadCatalog reads src once. Errors are returned as DATASET_* errors.
func LoadCatalog(ctx context.Context, src Source, log logger.Logger) (*Catalog, error) {
	name := describe(src)

	countries, err := src.Countries(ctx)
	if err != nil {
		var stdErr *errors.StandardError
		if stderrors.As(err, &stdErr) {
			return nil, stdErr
		}
		return nil, errors.NewDatasetLoadFailedError(name, err)
	}

	for i, c := range countries {
		if strings.TrimSpace(c.Name) == "" {
			return nil, errors.NewDatasetValidationFailedError(fmt.Sprintf("record %d has no name", i))
		}
	}

	catalog := NewCatalog(countries)
	metrics.DatasetCountries.Set(float64(catalog.Len()))
	log.Info("country dataset loaded", map[string]interface{}{
		"source":    name,
		"countries": catalog.Len(),
	})
	return catalog, nil
}

func (c *Catalog) Len() int {
	return len(c.countries)
}

// All returns a copy in dataset order.
func (c *Catalog) All() []models.Country {
	return append([]models.Country(nil), c.countries...)
}

// Find looks a country up by name or code, ignoring case.
func (c *Catalog) Find(nameOrCode string) (models.Country, bool) {
	i, ok := c.index[normalizeKey(nameOrCode)]
	if !ok {
		return models.Country{}, false
	}
	return c.countries[i], true
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func describe(src Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}
