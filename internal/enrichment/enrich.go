// internal/enrichment/enrich.go
package enrichment

import (
	"context"

	"country-match-workers/internal/common/errors"
	"country-match-workers/internal/models"
)

// EconomyData is one row of the economy report.
type EconomyData struct {
	CountryName  string   `json:"country_name"`
	CountryCode  string   `json:"country_code,omitempty"`
	Year         string   `json:"year,omitempty"`
	GDP          *float64 `json:"gdp"`
	GDPPerCapita *float64 `json:"gdp_per_capita"`
	Population   *float64 `json:"population"`
	Inflation    *float64 `json:"inflation"`
	GNIPerCapita *float64 `json:"gni_per_capita"`
	Error        string   `json:"error,omitempty"`
}

// Economy fetches every indicator for a country. Lookup failures are
// reported in the Error field; individual indicator failures leave nil values.
func (c *Client) Economy(ctx context.Context, name string) EconomyData {
	out := EconomyData{CountryName: name}

	code, err := c.CountryCode(ctx, name)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.CountryCode = code
	out.Year = c.cfg.Year

	for _, ind := range Indicators {
		v, err := c.Indicator(ctx, code, ind)
		if err != nil {
			c.logFailure(name, err)
			continue
		}
		switch ind {
		case IndicatorGDP:
			out.GDP = v
		case IndicatorGDPPerCapita:
			out.GDPPerCapita = v
		case IndicatorPopulation:
			out.Population = v
		case IndicatorInflation:
			out.Inflation = v
		case IndicatorGNIPerCapita:
			out.GNIPerCapita = v
		}
	}
	return out
}

// Enrich returns a copy of countries with Code, Population and GDPPerCapita
// filled where the APIs know them. Existing values are kept when a lookup fails.
func (c *Client) Enrich(ctx context.Context, countries []models.Country) []models.Country {
	out := make([]models.Country, len(countries))
	copy(out, countries)

	for i := range out {
		if ctx.Err() != nil {
			break
		}
		country := &out[i]

		code := country.Code
		if code == "" {
			resolved, err := c.CountryCode(ctx, country.Name)
			if err != nil {
				c.logFailure(country.Name, err)
				continue
			}
			code = resolved
			country.Code = resolved
		}

		if v, err := c.Indicator(ctx, code, IndicatorPopulation); err != nil {
			c.logFailure(country.Name, err)
		} else if v != nil {
			country.Population = v
		}

		if v, err := c.Indicator(ctx, code, IndicatorGDPPerCapita); err != nil {
			c.logFailure(country.Name, err)
		} else if v != nil {
			country.GDPPerCapita = v
		}

		c.logger.Debug("country enriched", map[string]interface{}{"country": country.Name, "code": code})
	}
	return out
}

func (c *Client) logFailure(country string, err error) {
	stdErr := errors.NewEnrichmentFailedError(country, err)
	c.logger.Warn("enrichment lookup failed", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"country":   country,
		"error":     err,
	})
}
