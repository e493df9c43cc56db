// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	paths := []string{".env", "../.env", "../../.env"}
	if root := findProjectRoot(); root != "" {
		paths = append(paths, filepath.Join(root, ".env"))
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory to the first go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string settings.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		s, ok := v.Get(key).(string)
		if !ok || !strings.Contains(s, "$") {
			continue
		}
		if expanded := os.ExpandEnv(s); expanded != s {
			v.Set(key, expanded)
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "country-match-workers"
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	if cfg.Dataset.Source == "" {
		cfg.Dataset.Source = DatasetSourceFile
	}
	if cfg.Dataset.Source == DatasetSourceFile && cfg.Dataset.Path == "" {
		cfg.Dataset.Path = "data/countries.json"
	}
	if cfg.Dataset.Table == "" {
		cfg.Dataset.Table = "countries"
	}
	if cfg.Dataset.Index == "" {
		cfg.Dataset.Index = "countries"
	}
	if cfg.Dataset.Cache.Key == "" {
		cfg.Dataset.Cache.Key = "countries:dataset:v1"
	}
	if cfg.Dataset.Cache.TTLSeconds == 0 {
		cfg.Dataset.Cache.TTLSeconds = 3600
	}
	if cfg.Dataset.LoadTimeout == 0 {
		cfg.Dataset.LoadTimeout = 30000
	}

	if cfg.Scoring.MaxResults == 0 {
		cfg.Scoring.MaxResults = 10
	}
	if cfg.Scoring.SlowThreshold == 0 {
		cfg.Scoring.SlowThreshold = 500
	}

	if cfg.Quiz.SessionStore == "" {
		cfg.Quiz.SessionStore = "redis"
	}
	if cfg.Quiz.SessionTTLSeconds == 0 {
		cfg.Quiz.SessionTTLSeconds = 86400
	}
	if cfg.Quiz.KeyPrefix == "" {
		cfg.Quiz.KeyPrefix = "quiz:session:"
	}

	if cfg.Notifications.AWS.Region == "" {
		cfg.Notifications.AWS.Region = "us-east-1"
	}
	if cfg.Notifications.MaxCards == 0 {
		cfg.Notifications.MaxCards = 5
	}

	if cfg.Enrichment.RestCountriesURL == "" {
		cfg.Enrichment.RestCountriesURL = "https://restcountries.com"
	}
	if cfg.Enrichment.WorldBankURL == "" {
		cfg.Enrichment.WorldBankURL = "https://api.worldbank.org"
	}
	if cfg.Enrichment.Year == "" {
		cfg.Enrichment.Year = "2022"
	}
	if cfg.Enrichment.RequestsPerSecond == 0 {
		cfg.Enrichment.RequestsPerSecond = 2
	}
	if cfg.Enrichment.Burst == 0 {
		cfg.Enrichment.Burst = 1
	}
	if cfg.Enrichment.Timeout == 0 {
		cfg.Enrichment.Timeout = 10000
	}
	if cfg.Enrichment.BreakerFailures == 0 {
		cfg.Enrichment.BreakerFailures = 5
	}
	if cfg.Enrichment.BreakerTimeout == 0 {
		cfg.Enrichment.BreakerTimeout = 30000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	for key, w := range cfg.Workers {
		if w.MaxJobsActive == 0 {
			w.MaxJobsActive = 5
		}
		if w.Timeout == 0 {
			w.Timeout = 30000
		}
		if w.MaxRetries == 0 {
			w.MaxRetries = 3
		}
		cfg.Workers[key] = w
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}

	switch cfg.Dataset.Source {
	case DatasetSourceFile:
		if cfg.Dataset.Path == "" {
			return fmt.Errorf("dataset.path is required for file source")
		}
	case DatasetSourcePostgres:
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	case DatasetSourceElasticsearch:
		if cfg.Database.Elasticsearch.GetURL() == "" {
			return fmt.Errorf("database.elasticsearch.addresses or url is required")
		}
	default:
		return fmt.Errorf("dataset.source must be one of file, postgres, elasticsearch (got %q)", cfg.Dataset.Source)
	}

	if cfg.NeedsRedis() && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when the dataset cache or quiz sessions are enabled")
	}

	if cfg.Notifications.Email.Enabled && cfg.Notifications.Email.FromEmail == "" {
		return fmt.Errorf("notifications.email.from_email is required when email is enabled")
	}

	if _, err := cfg.Scoring.ToRecommenderConfig(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}

	return nil
}

// NeedsRedis reports whether any enabled component uses Redis.
func (c *Config) NeedsRedis() bool {
	return c.Dataset.Cache.Enabled || c.Quiz.SessionStore == "redis"
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if w, exists := cfg.Workers[workerName]; exists {
		return w
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if w, exists := cfg.Workers[workerName]; exists {
		return w.Enabled
	}
	return true
}
