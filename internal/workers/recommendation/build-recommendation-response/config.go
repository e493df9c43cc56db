// internal/workers/recommendation/build-recommendation-response/config.go
package buildrecommendationresponse

import (
	"time"

	"country-match-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// SummaryCards limits how many cards the text summary lists. Zero lists all.
	SummaryCards int
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{
		Timeout:      5 * time.Second,
		SummaryCards: 3,
	}
	if appCfg == nil {
		return cfg
	}
	if w := config.GetWorkerConfig(appCfg, TaskType); w.Timeout > 0 {
		cfg.Timeout = config.GetDuration(w.Timeout)
	}
	if appCfg.Notifications.MaxCards > 0 {
		cfg.SummaryCards = appCfg.Notifications.MaxCards
	}
	return cfg
}
