// Package config loads the process configuration.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvConfigFile names an optional YAML config file.
	EnvConfigFile = "SCOUT_CONFIG"
	envPrefix     = "SCOUT_"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

type Config struct {
	// Port the web server listens on.
	Port int `koanf:"port"`

	// DBDriver is either sqlite or postgres.
	DBDriver        string `koanf:"db_driver"`
	PostgresConnStr string `koanf:"postgres_conn_str"`
	SQLiteFile      string `koanf:"sqlite_file"`

	// RequestTimeout bounds the handling of a single request.
	RequestTimeout time.Duration `koanf:"request_timeout"`
	// ShutdownTimeout bounds how long a graceful shutdown may take.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New returns the default config.
func New() *Config {
	return &Config{
		Port:            3000,
		DBDriver:        DriverSQLite,
		SQLiteFile:      "draft_scout.db",
		RequestTimeout:  10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds a Config by layering the defaults, the YAML file named by
// SCOUT_CONFIG when set and the SCOUT_ environment variables, in that order.
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: error reading %s: %w", ErrLoadConfig, path, err)
		}
	}

	// SCOUT_DB_DRIVER -> db_driver
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: error reading environment: %w", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d is out of range", ErrInvalidConfig, c.Port)
	}

	switch c.DBDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.SQLiteFile) == "" {
			return fmt.Errorf("%w: sqlite_file must not be empty", ErrInvalidConfig)
		}
	case DriverPostgres:
		if strings.TrimSpace(c.PostgresConnStr) == "" {
			return fmt.Errorf("%w: postgres_conn_str must be set for the postgres driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown db_driver '%s'", ErrInvalidConfig, c.DBDriver)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown_timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
