package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "bitcraft", cfg.DBName)
	assert.Equal(t, 30*time.Second, cfg.PriceCacheTTL)
	assert.Equal(t, 16, cfg.CatalogCacheSize)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestLoad_InvalidCacheTTL(t *testing.T) {
	t.Setenv("PRICE_CACHE_TTL", "eleven")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRICE_CACHE_TTL")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PRICE_CACHE_TTL", "2m")
	t.Setenv("DB_NAME", "bitcraft_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.PriceCacheTTL)
	assert.Equal(t, "bitcraft_test", cfg.DBName)
}

func TestGetDBConnString(t *testing.T) {
	cfg := &Config{
		DBUser:     "u",
		DBPassword: "p",
		DBHost:     "db",
		DBPort:     "5433",
		DBName:     "bitcraft",
	}

	assert.Equal(t, "postgres://u:p@db:5433/bitcraft?sslmode=disable", cfg.GetDBConnString())
}
