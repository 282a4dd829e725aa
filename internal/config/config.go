// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned when a setting holds an unusable value.
var ErrInvalidConfig = errors.New("invalid configuration")

// Store drivers understood by the category slot backend.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds every setting used by cmd/api and cmd/catalogctl.
type Config struct {
	Port           string
	CatalogBaseURL string
	CatalogTimeout time.Duration
	PageSize       int

	StoreDriver  string
	SQLitePath   string
	DatabaseURL  string
	RedisURL     string
	RedisPrefix  string
	CategorySlot string

	LogLevel  string
	LogFormat string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("CATALOG_API_BASE", "https://dummyjson.com")
	v.SetDefault("CATALOG_API_TIMEOUT", "15s")
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("STORE_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_PATH", "data/catalog.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("REDIS_PREFIX", "catalog:")
	v.SetDefault("CATEGORY_SLOT", "categories")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads .env files (when present) into the process environment and then
// resolves settings through viper. Missing .env files are not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug("no .env file loaded, using process environment", "error", err)
	}
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:           v.GetString("APP_PORT"),
		CatalogBaseURL: strings.TrimRight(v.GetString("CATALOG_API_BASE"), "/"),
		CatalogTimeout: v.GetDuration("CATALOG_API_TIMEOUT"),
		PageSize:       v.GetInt("PAGE_SIZE"),
		StoreDriver:    strings.ToLower(v.GetString("STORE_DRIVER")),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		RedisURL:       v.GetString("REDIS_URL"),
		RedisPrefix:    v.GetString("REDIS_PREFIX"),
		CategorySlot:   v.GetString("CATEGORY_SLOT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.CatalogBaseURL == "" {
		return fmt.Errorf("%w: CATALOG_API_BASE is empty", ErrInvalidConfig)
	}
	if c.CatalogTimeout <= 0 {
		return fmt.Errorf("%w: CATALOG_API_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: PAGE_SIZE must be positive", ErrInvalidConfig)
	}
	if c.CategorySlot == "" {
		return fmt.Errorf("%w: CATEGORY_SLOT is empty", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH is required for the sqlite driver", ErrInvalidConfig)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the postgres driver", ErrInvalidConfig)
		}
	case DriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: REDIS_URL is required for the redis driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown STORE_DRIVER %q", ErrInvalidConfig, c.StoreDriver)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
