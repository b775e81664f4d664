// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// AWS settings. Region is picked up by the SDK's default chain as well;
	// the explicit value wins when set.
	AWSRegion string `env:"AWS_REGION" envDefault:""`

	// DynamoDB tables holding customer and interaction records.
	CustomerTable    string `env:"CUSTOMER_TABLE" envDefault:"CUSTOMER_TABLE"`
	InteractionTable string `env:"INTERACTION_TABLE" envDefault:"INTERACTION_TABLE"`

	// Name of the Secrets Manager secret holding the shared API key that
	// callers must present in the x-api-key header.
	APIKeySecretName string `env:"API_KEY_SECRET_NAME" envDefault:"shared-api-key"`

	// Optional Redis URL for the authorization decision cache. When empty,
	// every request consults Secrets Manager directly.
	RedisURL string `env:"REDIS_URL" envDefault:""`

	// TTL for cached authorization decisions.
	AuthCacheTTL time.Duration `env:"AUTH_CACHE_TTL" envDefault:"300s"`

	// Timeout applied to outbound issue tracker calls. Kept well under the
	// invocation budget so a hung upstream cannot exhaust it.
	TrackerTimeout time.Duration `env:"TRACKER_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// CacheEnabled reports whether the authorization decision cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
