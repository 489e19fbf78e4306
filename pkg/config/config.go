// Package config loads application configuration from the environment,
// with optional .env file support for local development.
package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig aggregates all runtime configuration.
type AppConfig struct {
	Env          string
	ServerAddr   string
	DB           DBConfig
	ExchangeRate ExchangeRateConfig
	Scheduler    SchedulerConfig
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Url string
}

// ExchangeRateConfig holds the live rate provider settings. The HTTP
// timeout bounds every provider call; expiry is a hard failure for the
// operation that needed the rate.
type ExchangeRateConfig struct {
	ApiUrl      string
	ApiKey      string
	HTTPTimeout time.Duration
}

// SchedulerConfig holds the cron specs for the periodic budget checks.
type SchedulerConfig struct {
	Enabled         bool
	BudgetCheckSpec string // recompute sweep over active/exceeded budgets
	ThresholdSpec   string // threshold re-evaluation sweep
}

// LoadEnv loads environment variables from a .env file if present.
func LoadEnv(logger *slog.Logger) {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system environment variables")
	} else {
		logger.Info("Environment variables loaded from .env file")
	}
}

// Load builds the AppConfig from the environment.
func Load(logger *slog.Logger) *AppConfig {
	LoadEnv(logger)
	return &AppConfig{
		Env:        GetEnv("APP_ENV", "development"),
		ServerAddr: GetEnv("SERVER_ADDR", ":3000"),
		DB: DBConfig{
			Url: GetEnv("DATABASE_URL", ""),
		},
		ExchangeRate: ExchangeRateConfig{
			ApiUrl:      GetEnv("EXCHANGE_RATE_API_URL", "https://v6.exchangerate-api.com/v6"),
			ApiKey:      GetEnv("EXCHANGE_RATE_API_KEY", ""),
			HTTPTimeout: GetEnvAsDuration("EXCHANGE_RATE_HTTP_TIMEOUT", 10*time.Second),
		},
		Scheduler: SchedulerConfig{
			Enabled:         GetEnvAsBool("SCHEDULER_ENABLED", true),
			BudgetCheckSpec: GetEnv("SCHEDULER_BUDGET_CHECK_SPEC", "@hourly"),
			ThresholdSpec:   GetEnv("SCHEDULER_THRESHOLD_SPEC", "@daily"),
		},
	}
}
