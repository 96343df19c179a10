// Package config reads process settings from the environment. A .env file in
// the working directory, when present, seeds variables that are not already
// set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CartStoreMemory = "memory"
	CartStoreRedis  = "redis"
	CartStoreSQLite = "sqlite"
)

type Config struct {
	HTTPAddr string

	CatalogBaseURL string
	CatalogTimeout time.Duration
	TrendingMaxAge time.Duration

	CartStore  string
	RedisAddr  string
	SQLitePath string
	CartSlot   string

	SessionIdleTimeout time.Duration

	LogLevel       slog.Level
	TracingEnabled bool
	ServiceName    string
}

// Load reads the configuration. Files listed in envFiles are loaded first;
// with none given, ".env" is tried and silently skipped when absent.
func Load(envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "https://fakestoreapi.com"),
		CartStore:      strings.ToLower(getEnv("CART_STORE", CartStoreMemory)),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		SQLitePath:     getEnv("SQLITE_PATH", "./data/storefront.db"),
		CartSlot:       getEnv("CART_SLOT", "cart"),
		ServiceName:    getEnv("OTEL_SERVICE_NAME", "storefront"),
	}

	var err error
	if cfg.CatalogTimeout, err = getEnvDuration("CATALOG_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.TrendingMaxAge, err = getEnvDuration("TRENDING_MAX_AGE", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTimeout, err = getEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.TracingEnabled, err = getEnvBool("TRACING_ENABLED", true); err != nil {
		return nil, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}

	switch cfg.CartStore {
	case CartStoreMemory, CartStoreRedis, CartStoreSQLite:
	default:
		return nil, fmt.Errorf("config: CART_STORE must be one of memory, redis, sqlite; got %q", cfg.CartStore)
	}

	return cfg, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("config: load env files: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}
