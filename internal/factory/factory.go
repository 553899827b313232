package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/pokernight/internal/dependencies/clock"
	"github.com/mcoot/pokernight/internal/dependencies/idgen"
	"github.com/mcoot/pokernight/internal/services/aggregator"
	"github.com/mcoot/pokernight/internal/services/auth"
	"github.com/mcoot/pokernight/internal/services/leaderboard"
	"github.com/mcoot/pokernight/internal/services/player"
	"github.com/mcoot/pokernight/internal/services/session"
	"github.com/mcoot/pokernight/internal/storage"
	"github.com/mcoot/pokernight/internal/storage/memory"
	"github.com/mcoot/pokernight/internal/storage/postgres"
	redisstorage "github.com/mcoot/pokernight/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   idgen.Generator

	// Services
	Aggregator         *aggregator.Service
	PlayerService      *player.Service
	SessionController  *session.Controller
	LeaderboardService *leaderboard.Service
	AuthService        *auth.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig() with authentication disabled
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds database settings (required if StorageType is "postgres")
	PostgresConfig *postgres.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		pgStore, err := postgres.New(ctx, *cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		store = pgStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	logger.Info("storage ready", slog.String("storage_type", storageType))

	return newWithDependencies(store, clock.New(), idgen.New(), cfg.AuthConfig, logger), nil
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	ids idgen.Generator,
	authCfg auth.Config,
	logger *slog.Logger,
) *App {
	agg := aggregator.New(store, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		IDs:                ids,
		Aggregator:         agg,
		PlayerService:      player.New(store, clk, ids, logger),
		SessionController:  session.NewController(store, agg, clk, ids, logger),
		LeaderboardService: leaderboard.New(store),
		AuthService:        auth.New(clk, authCfg),
	}
}
