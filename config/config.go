package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// common is embedded by both service configs so the two binaries share one
// set of env/validate tags for the concerns they have in common.
type common struct {
	Env  string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port string `env:"PORT" envDefault:"8080" validate:"required"`

	DatabaseURL        string `env:"DATABASE_URL,required" validate:"required"`
	DatabaseMaxConns   int    `env:"DATABASE_MAX_CONNECTIONS" envDefault:"25" validate:"min=1,max=200"`
	CacheURL           string `env:"CACHE_URL" envDefault:"redis://localhost:6379/0"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"required,oneof=debug info warn error"`
}

func (c *common) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DataServiceConfig configures cmd/dataservice.
type DataServiceConfig struct {
	common
}

func LoadDataService() (*DataServiceConfig, error) {
	cfg := &DataServiceConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SchedulingConfig configures cmd/schedulingservice, including the rule
// engine parameters and the upstream data-service address (§6.4).
type SchedulingConfig struct {
	common

	DataServiceHost string `env:"DATA_SERVICE_HOST" envDefault:"localhost"`
	DataServicePort string `env:"DATA_SERVICE_PORT" envDefault:"8080"`

	MinDaysOffPerWeek     int `env:"MIN_DAYS_OFF_PER_WEEK" envDefault:"2" validate:"min=0,max=7"`
	MaxDaysOffPerWeek     int `env:"MAX_DAYS_OFF_PER_WEEK" envDefault:"2" validate:"min=0,max=7"`
	MaxDailyShiftDiff     int `env:"MAX_DAILY_SHIFT_DIFFERENCE" envDefault:"1" validate:"min=0"`

	QueueCapacity     int    `env:"QUEUE_CAPACITY" envDefault:"100" validate:"min=1,max=10000"`
	ReaperCronExpr    string `env:"REAPER_CRON_EXPR" envDefault:"@every 30s"`
	StaleJobTimeoutSec int   `env:"STALE_JOB_TIMEOUT_SEC" envDefault:"900" validate:"min=1"`
}

func (c *SchedulingConfig) DataServiceBaseURL() string {
	return fmt.Sprintf("http://%s:%s", c.DataServiceHost, c.DataServicePort)
}

func LoadScheduling() (*SchedulingConfig, error) {
	cfg := &SchedulingConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if c := cfg.MinDaysOffPerWeek; c > cfg.MaxDaysOffPerWeek {
		return nil, fmt.Errorf("invalid config: MIN_DAYS_OFF_PER_WEEK (%d) exceeds MAX_DAYS_OFF_PER_WEEK (%d)", c, cfg.MaxDaysOffPerWeek)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
