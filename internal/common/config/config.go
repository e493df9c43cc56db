// internal/common/config/config.go
package config

import (
	"fmt"

	"country-match-workers/internal/models"
	"country-match-workers/internal/recommender"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Dataset       DatasetConfig           `mapstructure:"dataset"`
	Scoring       ScoringConfig           `mapstructure:"scoring"`
	Quiz          QuizConfig              `mapstructure:"quiz"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Enrichment    EnrichmentConfig        `mapstructure:"enrichment"`
	Server        ServerConfig            `mapstructure:"server"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the URL field or the first address.
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

// --- Country dataset ---

const (
	DatasetSourceFile          = "file"
	DatasetSourcePostgres      = "postgres"
	DatasetSourceElasticsearch = "elasticsearch"
)

type DatasetConfig struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
	Table  string `mapstructure:"table"`
	Index  string `mapstructure:"index"`
	Cache  struct {
		Enabled    bool   `mapstructure:"enabled"`
		Key        string `mapstructure:"key"`
		TTLSeconds int    `mapstructure:"ttl_seconds"`
	} `mapstructure:"cache"`
	LoadTimeout int `mapstructure:"load_timeout"` // milliseconds
}

// --- Scoring ---

// CostBandConfig is one cost preference's Best and Fair bands.
type CostBandConfig struct {
	BestMin float64 `mapstructure:"best_min"`
	BestMax float64 `mapstructure:"best_max"`
	FairMin float64 `mapstructure:"fair_min"`
	FairMax float64 `mapstructure:"fair_max"`
}

// ScoringConfig overrides recommender defaults. Zero values keep the default,
// except MinEvidence which is a pointer so 0 can disable the policy.
type ScoringConfig struct {
	Weights              map[string]float64        `mapstructure:"weights"`
	CostBands            map[string]CostBandConfig `mapstructure:"cost_bands"`
	MinEvidence          *int                      `mapstructure:"min_evidence"`
	ExactMatchScore      float64                   `mapstructure:"exact_match_score"`
	AdjacentMatchScore   float64                   `mapstructure:"adjacent_match_score"`
	OppositeMatchScore   float64                   `mapstructure:"opposite_match_score"`
	NeutralScore         float64                   `mapstructure:"neutral_score"`
	ClimateMatchScore    float64                   `mapstructure:"climate_match_score"`
	ClimateMismatchScore float64                   `mapstructure:"climate_mismatch_score"`
	MaxResults           int                       `mapstructure:"max_results"`
	SlowThreshold        int                       `mapstructure:"slow_threshold"` // milliseconds
}

// ToRecommenderConfig overlays the configured values on recommender.DefaultConfig.
func (s ScoringConfig) ToRecommenderConfig() (recommender.Config, error) {
	cfg := recommender.DefaultConfig()

	for name, w := range s.Weights {
		d := models.Dimension(name)
		if !d.Valid() {
			return cfg, fmt.Errorf("scoring.weights: unknown dimension %q", name)
		}
		cfg.Weights[d] = w
	}
	for name, b := range s.CostBands {
		level, ok := models.ParseLevel(name)
		if !ok {
			return cfg, fmt.Errorf("scoring.cost_bands: unknown level %q", name)
		}
		cfg.CostRules[level] = recommender.CostRule{
			Best: recommender.CostBand{Min: b.BestMin, Max: b.BestMax},
			Fair: recommender.CostBand{Min: b.FairMin, Max: b.FairMax},
		}
	}
	if s.MinEvidence != nil {
		cfg.MinEvidence = *s.MinEvidence
	}

	overlay := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	overlay(&cfg.ExactMatchScore, s.ExactMatchScore)
	overlay(&cfg.AdjacentMatchScore, s.AdjacentMatchScore)
	overlay(&cfg.OppositeMatchScore, s.OppositeMatchScore)
	overlay(&cfg.NeutralScore, s.NeutralScore)
	overlay(&cfg.ClimateMatchScore, s.ClimateMatchScore)
	overlay(&cfg.ClimateMismatchScore, s.ClimateMismatchScore)

	return cfg, cfg.Validate()
}

// --- Quiz sessions ---

type QuizConfig struct {
	SessionStore      string `mapstructure:"session_store"` // "redis" or "none"
	SessionTTLSeconds int    `mapstructure:"session_ttl_seconds"`
	KeyPrefix         string `mapstructure:"key_prefix"`
}

// NotificationConfig holds settings for the send-recommendations worker.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	MaxCards int `mapstructure:"max_cards"`
}

// EnrichmentConfig configures the economy data fetcher.
type EnrichmentConfig struct {
	RestCountriesURL  string  `mapstructure:"rest_countries_url"`
	WorldBankURL      string  `mapstructure:"world_bank_url"`
	Year              string  `mapstructure:"year"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
	Timeout           int     `mapstructure:"timeout"` // milliseconds
	BreakerFailures   uint32  `mapstructure:"breaker_failures"`
	BreakerTimeout    int     `mapstructure:"breaker_timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig is the health and metrics listener.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}
