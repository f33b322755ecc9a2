// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/validate"
)

// Storage backends selectable through STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all configuration values for the trip log server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `validate:"required|number"`

	// LogLevel controls the minimum log level. Defaults to "info".
	LogLevel string `validate:"required|in:debug,info,warn,error"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreBackend picks the key-value store. Defaults to "sqlite".
	StoreBackend string `validate:"required|in:memory,sqlite,postgres,redis"`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string

	// RedisAddr is host:port of the Redis server. Required for redis.
	RedisAddr string

	// RedisPrefix namespaces every key written to Redis.
	RedisPrefix string

	// MemoryQuota caps the bytes held by the memory backend. 0 is unlimited.
	MemoryQuota int `validate:"min:0"`

	// CacheSizeMB sizes the read cache in front of the store. 0 disables it.
	CacheSizeMB int `validate:"min:0"`

	// GeocoderURL is the base URL of a Nominatim-compatible service.
	GeocoderURL string `validate:"required|fullUrl"`

	// GeocoderTimeout bounds each geocoder request.
	GeocoderTimeout time.Duration

	// MetricsEnabled exposes /metrics when true.
	MetricsEnabled bool

	// MaxBodyBytes limits request bodies.
	MaxBodyBytes int64 `validate:"min:1"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first validation failure.
func Load() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StoreBackend: getEnv("STORE_BACKEND", BackendSQLite),
		SQLitePath:   getEnv("SQLITE_PATH", "data/triplog.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPrefix:  getEnv("REDIS_PREFIX", "triplog:"),
		GeocoderURL:  getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
	}

	var errs []string
	var err error

	if cfg.MemoryQuota, err = getEnvInt("MEMORY_QUOTA_BYTES", 0); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.CacheSizeMB, err = getEnvInt("CACHE_SIZE_MB", 0); err != nil {
		errs = append(errs, err.Error())
	}
	maxBody, err := getEnvInt("MAX_BODY_BYTES", 1<<20)
	if err != nil {
		errs = append(errs, err.Error())
	}
	cfg.MaxBodyBytes = int64(maxBody)
	if cfg.GeocoderTimeout, err = time.ParseDuration(getEnv("GEOCODER_TIMEOUT", "5s")); err != nil || cfg.GeocoderTimeout <= 0 {
		errs = append(errs, "GEOCODER_TIMEOUT must be a positive duration")
	}
	if cfg.MetricsEnabled, err = strconv.ParseBool(getEnv("METRICS_ENABLED", "false")); err != nil {
		errs = append(errs, "METRICS_ENABLED must be a boolean")
	}
	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}

	var missing []string
	switch cfg.StoreBackend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendRedis:
		if cfg.RedisAddr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct tag rules on c.
func (c *Config) Validate() error {
	v := validate.Struct(c)
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %s", v.Errors.One())
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt is getEnv for integer variables.
func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
