package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/chirpygame/internal/config"
	"github.com/mcoot/chirpygame/internal/dependencies/clock"
	"github.com/mcoot/chirpygame/internal/services/shell"
	"github.com/mcoot/chirpygame/internal/storage"
	"github.com/mcoot/chirpygame/internal/storage/memory"
	redisstorage "github.com/mcoot/chirpygame/internal/storage/redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Sessions
	Shells *shell.Manager

	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// ShellConfig configures every player session (optional)
	// If zero value, defaults to shell.DefaultConfig()
	ShellConfig shell.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
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
	var closer io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	switch storageType {
	case config.StorageTypeMemory:
		store = memory.New()
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closer = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	app := newWithDependencies(store, clock.New(), cfg.ShellConfig, logger)
	app.closer = closer
	return app, nil
}

// FromEnv builds the factory configuration from the server's environment
func FromEnv(env config.Server, logger *slog.Logger) (Config, error) {
	lifetime, err := env.Lifetime()
	if err != nil {
		return Config{}, err
	}

	shellCfg := shell.DefaultConfig()
	shellCfg.Auth.TestPortalSecret = env.TestPortalSecret
	shellCfg.Auth.AccountLifetime = lifetime

	cfg := Config{
		ShellConfig: shellCfg,
		Logger:      logger,
		StorageType: env.StorageType,
	}
	if env.StorageType == config.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = env.RedisURL
		redisCfg.EphemeralTTL = env.EphemeralTTL
		cfg.RedisConfig = &redisCfg
	}
	return cfg, nil
}

// Close releases the storage backend
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, shellCfg shell.Config, logger *slog.Logger) *App {
	return &App{
		Storage: store,
		Clock:   clk,
		Shells:  shell.NewManager(store, clk, shellCfg, logger),
	}
}
