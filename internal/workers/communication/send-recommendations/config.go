// internal/workers/communication/send-recommendations/config.go
package sendrecommendations

import (
	"time"

	"country-match-workers/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	SMSEnabled   bool
	Subject      string
	// MaxCards limits how many cards each message lists.
	MaxCards int
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{
		Timeout:  15 * time.Second,
		Subject:  "Your country recommendations",
		MaxCards: 3,
	}
	if appCfg == nil {
		return cfg
	}
	if w := config.GetWorkerConfig(appCfg, TaskType); w.Timeout > 0 {
		cfg.Timeout = config.GetDuration(w.Timeout)
	}
	cfg.EmailEnabled = appCfg.Notifications.Email.Enabled
	cfg.SMSEnabled = appCfg.Notifications.SMS.Enabled
	if appCfg.Notifications.MaxCards > 0 {
		cfg.MaxCards = appCfg.Notifications.MaxCards
	}
	return cfg
}
