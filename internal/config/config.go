// internal/config/config.go
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel            string        `mapstructure:"LOG_LEVEL"`
	DBURL               string        `mapstructure:"DB_URL"`
	GithubToken         string        `mapstructure:"GITHUB_TOKEN"`
	WebhookSecret       string        `mapstructure:"WEBHOOK_SECRET"`
	HTTPAddr            string        `mapstructure:"HTTP_ADDR"`
	EventTimeout        time.Duration `mapstructure:"EVENT_TIMEOUT"`
	BackfillConcurrency int           `mapstructure:"BACKFILL_CONCURRENCY"`
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	// Set default values
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("EVENT_TIMEOUT", "10m")
	viper.SetDefault("BACKFILL_CONCURRENCY", 5)

	// Load from .env file if it exists
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL is a required configuration field")
	}
	if cfg.GithubToken == "" {
		return nil, errors.New("GITHUB_TOKEN is a required configuration field")
	}
	if cfg.WebhookSecret == "" {
		return nil, errors.New("WEBHOOK_SECRET is a required configuration field")
	}
	if cfg.EventTimeout <= 0 {
		return nil, errors.New("EVENT_TIMEOUT must be a positive duration")
	}
	if cfg.BackfillConcurrency <= 0 {
		return nil, errors.New("BACKFILL_CONCURRENCY must be a positive integer")
	}

	return &cfg, nil
}
