// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server configuration.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `env:"ADDR" envDefault:":8080"`

	// DBPath is the SQLite database file path.
	DBPath string `env:"DB_PATH" envDefault:"./data/divvy.db"`

	// JWTSecret signs session tokens. Override the default outside of
	// local development.
	JWTSecret string `env:"JWT_SECRET" envDefault:"divvy-dev-secret-change-in-production"`

	// TokenTTL is how long session tokens remain valid.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
