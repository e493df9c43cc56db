// internal/workers/quiz/map-quiz-answers/config.go
package mapquizanswers

import (
	"time"

	"country-match-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// RequireComplete rejects answer sets that leave a catalog question unanswered.
	RequireComplete bool
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{Timeout: 10 * time.Second}
	if appCfg == nil {
		return cfg
	}
	if w := config.GetWorkerConfig(appCfg, TaskType); w.Timeout > 0 {
		cfg.Timeout = config.GetDuration(w.Timeout)
	}
	return cfg
}
