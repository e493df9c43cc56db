// internal/enrichment/client.go
package enrichment

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"country-match-workers/internal/common/config"
	apphttp "country-match-workers/internal/common/http"
	"country-match-workers/internal/common/logger"
	"country-match-workers/internal/common/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	apiRestCountries = "restcountries"
	apiWorldBank     = "worldbank"
)

var ErrCountryCodeNotFound = stderrors.New("country code not found")

// Indicator is one World Bank series.
type Indicator struct {
	Key string
	ID  string
}

var (
	IndicatorGDP          = Indicator{Key: "gdp", ID: "NY.GDP.MKTP.CD"}
	IndicatorGDPPerCapita = Indicator{Key: "gdp_per_capita", ID: "NY.GDP.PCAP.CD"}
	IndicatorPopulation   = Indicator{Key: "population", ID: "SP.POP.TOTL"}
	IndicatorInflation    = Indicator{Key: "inflation", ID: "FP.CPI.TOTL.ZG"}
	IndicatorGNIPerCapita = Indicator{Key: "gni_per_capita", ID: "NY.GNP.PCAP.CD"}
)

var Indicators = []Indicator{
	IndicatorGDP,
	IndicatorGDPPerCapita,
	IndicatorPopulation,
	IndicatorInflation,
	IndicatorGNIPerCapita,
}

type Config struct {
	RestCountriesURL  string
	WorldBankURL      string
	Year              string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	BreakerFailures   uint32
	BreakerTimeout    time.Duration
}

func DefaultConfig() Config {
	return Config{
		RestCountriesURL:  "https://restcountries.com",
		WorldBankURL:      "https://api.worldbank.org",
		Year:              "2022",
		RequestsPerSecond: 2,
		Burst:             1,
		Timeout:           10 * time.Second,
		BreakerFailures:   5,
		BreakerTimeout:    30 * time.Second,
	}
}

func FromAppConfig(c config.EnrichmentConfig) Config {
	return Config{
		RestCountriesURL:  c.RestCountriesURL,
		WorldBankURL:      c.WorldBankURL,
		Year:              c.Year,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
		Timeout:           config.GetDuration(c.Timeout),
		BreakerFailures:   c.BreakerFailures,
		BreakerTimeout:    config.GetDuration(c.BreakerTimeout),
	}
}

// Client talks to REST Countries and the World Bank API. All requests share
// one rate limiter and one circuit breaker.
type Client struct {
	cfg     Config
	http    *apphttp.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  logger.Logger
}

// NewClient builds a client. httpClient may be nil.
func NewClient(cfg Config, httpClient *apphttp.Client, log logger.Logger) *Client {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.Year == "" {
		cfg.Year = "2022"
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = apphttp.NewClient(timeout)
	}

	c := &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  log.WithFields(map[string]interface{}{"component": "enrichment"}),
	}

	c.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "economy-apis",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isNotFound(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})
	return c
}

func isNotFound(err error) bool {
	var statusErr *apphttp.StatusError
	return stderrors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

func (c *Client) get(ctx context.Context, api, endpoint string, v interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.http.GetJSON(ctx, endpoint, v)
	})

	status := "ok"
	switch {
	case err == nil:
	case isNotFound(err):
		status = "not_found"
	case stderrors.Is(err, gobreaker.ErrOpenState), stderrors.Is(err, gobreaker.ErrTooManyRequests):
		status = "rejected"
	default:
		status = "error"
	}
	metrics.EnrichmentRequests.WithLabelValues(api, status).Inc()
	return err
}

// CountryCode resolves a country name to its ISO 3166-1 alpha-3 code.
func (c *Client) CountryCode(ctx context.Context, name string) (string, error) {
	endpoint := strings.TrimRight(c.cfg.RestCountriesURL, "/") + "/v3.1/name/" + url.PathEscape(name)

	var matches []struct {
		CCA3 string `json:"cca3"`
	}
	if err := c.get(ctx, apiRestCountries, endpoint, &matches); err != nil {
		if isNotFound(err) {
			return "", ErrCountryCodeNotFound
		}
		return "", err
	}
	if len(matches) == 0 || matches[0].CCA3 == "" {
		return "", ErrCountryCodeNotFound
	}
	return matches[0].CCA3, nil
}

type indicatorPoint struct {
	Value *float64 `json:"value"`
}

// Indicator returns the value of one series for the configured year. A
// missing or empty series yields nil without error.
func (c *Client) Indicator(ctx context.Context, code string, ind Indicator) (*float64, error) {
	endpoint := fmt.Sprintf("%s/v2/country/%s/indicator/%s?format=json&per_page=1&date=%s",
		strings.TrimRight(c.cfg.WorldBankURL, "/"), url.PathEscape(code), ind.ID, url.QueryEscape(c.cfg.Year))

	var pages []json.RawMessage
	if err := c.get(ctx, apiWorldBank, endpoint, &pages); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(pages) < 2 {
		return nil, nil
	}

	var points []indicatorPoint
	if err := json.Unmarshal(pages[1], &points); err != nil || len(points) == 0 {
		return nil, nil
	}
	return points[0].Value, nil
}
