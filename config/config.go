package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime settings. Environment variables use the TRACKER_
// prefix, e.g. TRACKER_DATABASE_DSN.
type Config struct {
	// DatabaseDSN selects the backend: a postgres:// URL or key=value
	// DSN opens PostgreSQL, anything else is treated as a SQLite path.
	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"tracker.db"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("TRACKER", &cfg); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
