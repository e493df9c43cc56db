// internal/workers/recommendation/recommend-countries/config.go
package recommendcountries

import (
	"time"

	"country-match-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// MaxResults caps the returned list. Zero returns every match.
	MaxResults int
	// SlowThreshold is the duration above which a run is logged as slow.
	SlowThreshold time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{
		Timeout:       10 * time.Second,
		MaxResults:    10,
		SlowThreshold: 500 * time.Millisecond,
	}
	if appCfg == nil {
		return cfg
	}
	if w := config.GetWorkerConfig(appCfg, TaskType); w.Timeout > 0 {
		cfg.Timeout = config.GetDuration(w.Timeout)
	}
	cfg.MaxResults = appCfg.Scoring.MaxResults
	if appCfg.Scoring.SlowThreshold > 0 {
		cfg.SlowThreshold = config.GetDuration(appCfg.Scoring.SlowThreshold)
	}
	return cfg
}
