package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	// APIKey protects mutating endpoints; an empty key disables auth for
	// local development
	APIKey string
	// TrustedProxies lists proxy IPs whose X-Forwarded-For headers are honored
	TrustedProxies []string
	// PriceCacheTTL bounds how stale a city's cached prices may get before a
	// background refresh is triggered
	PriceCacheTTL time.Duration
	// CatalogCacheSize/TTL bound the in-memory item catalog snapshot cache
	CatalogCacheSize int
	CatalogCacheTTL  time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		ServiceName: getEnv("SERVICE_NAME", "bitcraft-optimizer"),
		Version:     getEnv("VERSION", "dev"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "bitcraft"),
		APIKey:      getEnv("API_KEY", ""),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			cfg.TrustedProxies = append(cfg.TrustedProxies, strings.TrimSpace(p))
		}
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	ttl, err := time.ParseDuration(getEnv("PRICE_CACHE_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRICE_CACHE_TTL value: %w", err)
	}
	cfg.PriceCacheTTL = ttl

	catalogSize, err := strconv.Atoi(getEnv("CATALOG_CACHE_SIZE", "16"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_CACHE_SIZE value: %w", err)
	}
	cfg.CatalogCacheSize = catalogSize

	catalogTTL, err := time.ParseDuration(getEnv("CATALOG_CACHE_TTL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_CACHE_TTL value: %w", err)
	}
	cfg.CatalogCacheTTL = catalogTTL

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
