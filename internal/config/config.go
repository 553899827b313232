// Package config loads server settings from POKER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/mcoot/pokernight/internal/services/auth"
	"github.com/mcoot/pokernight/internal/storage/postgres"
	redisstorage "github.com/mcoot/pokernight/internal/storage/redis"
)

// Prefix is prepended to every variable name, e.g. POKER_HTTP_PORT
const Prefix = "POKER"

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config holds every server setting
type Config struct {
	// --- HTTP ---
	HTTPHost            string        `envconfig:"HTTP_HOST"`
	HTTPPort            int           `envconfig:"HTTP_PORT" default:"8080"`
	HTTPReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	HTTPWriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
	HTTPShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`

	// --- Logging ---
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// --- Storage ---
	StorageType string `envconfig:"STORAGE_TYPE" default:"memory"`

	RedisURL       string `envconfig:"REDIS_URL" default:"redis://localhost:6379"`
	RedisPoolSize  int    `envconfig:"REDIS_POOL_SIZE" default:"10"`
	RedisKeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"poker"`

	DatabaseURL       string        `envconfig:"DATABASE_URL"`
	DBMaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns        int32         `envconfig:"DB_MIN_CONNS" default:"1"`
	DBMaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// --- Admin ---
	// Bcrypt hash of the admin password; empty leaves mutations open
	AdminPasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH"`
	AdminSessionTTL   time.Duration `envconfig:"ADMIN_SESSION_TTL" default:"24h"`
}

// LoadDotEnv copies variables from a dotenv file into the environment.
// Variables already set win, and a missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads the environment and validates the result
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.StorageType = strings.ToLower(strings.TrimSpace(cfg.StorageType))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("%s_HTTP_PORT must be between 1 and 65535", Prefix)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%s_REDIS_URL required when %s_STORAGE_TYPE=redis", Prefix, Prefix)
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%s_DATABASE_URL required when %s_STORAGE_TYPE=postgres", Prefix, Prefix)
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("invalid %s_DB_MIN_CONNS/%s_DB_MAX_CONNS", Prefix, Prefix)
		}
	default:
		return fmt.Errorf("invalid %s_STORAGE_TYPE %q: must be memory, redis or postgres", Prefix, c.StorageType)
	}

	if c.AdminPasswordHash != "" && !strings.HasPrefix(c.AdminPasswordHash, "$2") {
		return fmt.Errorf("%s_ADMIN_PASSWORD_HASH must be a bcrypt hash", Prefix)
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.HTTPHost, strconv.Itoa(c.HTTPPort))
}

// SlogLevel parses LogLevel
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid %s_LOG_LEVEL %q", Prefix, c.LogLevel)
	}
	return level, nil
}

// Redis returns the Redis store settings
func (c *Config) Redis() redisstorage.Config {
	cfg := redisstorage.DefaultConfig()
	cfg.URL = c.RedisURL
	cfg.PoolSize = c.RedisPoolSize
	if c.RedisKeyPrefix != "" {
		cfg.KeyPrefix = c.RedisKeyPrefix
	}
	return cfg
}

// Postgres returns the PostgreSQL store settings
func (c *Config) Postgres() postgres.Config {
	cfg := postgres.DefaultConfig()
	cfg.URL = c.DatabaseURL
	cfg.MaxConns = c.DBMaxConns
	cfg.MinConns = c.DBMinConns
	cfg.MaxConnLifetime = c.DBMaxConnLifetime
	return cfg
}

// Auth returns the admin auth settings
func (c *Config) Auth() auth.Config {
	return auth.Config{
		AdminPasswordHash: c.AdminPasswordHash,
		SessionDuration:   c.AdminSessionTTL,
	}
}
