package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/chirpygame/internal/storage"
)

// Storage backends
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Server is the server's environment configuration
type Server struct {
	Port             int           `env:"PORT"               envDefault:"8080"`
	StorageType      string        `env:"STORAGE_TYPE"       envDefault:"memory"`
	RedisURL         string        `env:"REDIS_URL"`
	TestPortalSecret string        `env:"TEST_PORTAL_SECRET" envDefault:"test123"`
	AccountLifetime  string        `env:"ACCOUNT_LIFETIME"   envDefault:"durable"`
	EphemeralTTL     time.Duration `env:"EPHEMERAL_TTL"      envDefault:"12h"`
	LogLevel         string        `env:"LOG_LEVEL"          envDefault:"info"`
	SecureCookies    bool          `env:"SECURE_COOKIES"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT"   envDefault:"30s"`
}

// Load reads and validates the server configuration from the environment
func Load() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks that the settings are consistent
func (s Server) Validate() error {
	switch s.StorageType {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if s.RedisURL == "" {
			return fmt.Errorf("REDIS_URL required when STORAGE_TYPE=%s", StorageTypeRedis)
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be %q or %q", s.StorageType, StorageTypeMemory, StorageTypeRedis)
	}
	if _, err := s.Lifetime(); err != nil {
		return err
	}
	if _, err := s.Level(); err != nil {
		return err
	}
	return nil
}

// Lifetime returns the storage lifetime of the active account record
func (s Server) Lifetime() (storage.Lifetime, error) {
	switch strings.ToLower(s.AccountLifetime) {
	case "durable":
		return storage.Durable, nil
	case "ephemeral":
		return storage.Ephemeral, nil
	default:
		return storage.Durable, fmt.Errorf("invalid ACCOUNT_LIFETIME %q: must be durable or ephemeral", s.AccountLifetime)
	}
}

// Level returns the configured log level
func (s Server) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", s.LogLevel, err)
	}
	return level, nil
}
