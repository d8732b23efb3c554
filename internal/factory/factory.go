package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/tmcnicol/playtrace/internal/dependencies/clock"
	"github.com/tmcnicol/playtrace/internal/dependencies/random"
	"github.com/tmcnicol/playtrace/internal/services/auth"
	"github.com/tmcnicol/playtrace/internal/services/gameplay"
	"github.com/tmcnicol/playtrace/internal/services/leaderboard"
	"github.com/tmcnicol/playtrace/internal/services/player"
	"github.com/tmcnicol/playtrace/internal/services/project"
	"github.com/tmcnicol/playtrace/internal/storage"
	"github.com/tmcnicol/playtrace/internal/storage/memory"
	postgresstorage "github.com/tmcnicol/playtrace/internal/storage/postgres"
	redisstorage "github.com/tmcnicol/playtrace/internal/storage/redis"
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
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService        *auth.Service
	ProjectService     *project.Service
	PlayerService      *player.Service
	GameplayService    *gameplay.Service
	LeaderboardService *leaderboard.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds Postgres connection settings (required if StorageType is "postgres")
	PostgresConfig *postgresstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
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
		postgresStore, err := postgresstorage.New(*cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		store = postgresStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	// Create services
	authService := auth.New(store, clk, authCfg, logger)
	projectService := project.New(store, clk, rnd, logger)
	playerService := player.New(store, clk, logger)
	gameplayService := gameplay.New(store, clk, logger)
	leaderboardService := leaderboard.New(store, clk, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		AuthService:        authService,
		ProjectService:     projectService,
		PlayerService:      playerService,
		GameplayService:    gameplayService,
		LeaderboardService: leaderboardService,
	}
}
