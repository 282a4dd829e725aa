package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := fromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "https://dummyjson.com", cfg.CatalogBaseURL)
	assert.Equal(t, 15*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "categories", cfg.CategorySlot)
	assert.Equal(t, "catalog:", cfg.RedisPrefix)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CATALOG_API_BASE", "http://catalog.local/")
	t.Setenv("CATALOG_API_TIMEOUT", "2s")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("STORE_DRIVER", "MEMORY")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://catalog.local", cfg.CatalogBaseURL)
	assert.Equal(t, 2*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
}

func TestLoadFromDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CATEGORY_SLOT=test-categories\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CATEGORY_SLOT") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test-categories", cfg.CategorySlot)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			CatalogBaseURL: "https://dummyjson.com",
			CatalogTimeout: time.Second,
			PageSize:       10,
			StoreDriver:    DriverMemory,
			CategorySlot:   "categories",
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.StoreDriver = "mongo" }},
		{"postgres without url", func(c *Config) { c.StoreDriver = DriverPostgres }},
		{"redis without url", func(c *Config) { c.StoreDriver = DriverRedis }},
		{"sqlite without path", func(c *Config) { c.StoreDriver = DriverSQLite }},
		{"zero page size", func(c *Config) { c.PageSize = 0 }},
		{"empty slot", func(c *Config) { c.CategorySlot = "" }},
		{"zero timeout", func(c *Config) { c.CatalogTimeout = 0 }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
