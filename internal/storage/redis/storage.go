package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/chirpygame/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) ttl(lifetime storage.Lifetime) time.Duration {
	if lifetime == storage.Ephemeral {
		return s.cfg.EphemeralTTL
	}
	return 0
}

func (s *Storage) Get(ctx context.Context, lifetime storage.Lifetime, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, valueKey(lifetime, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Storage) Put(ctx context.Context, lifetime storage.Lifetime, key string, data []byte) error {
	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, valueKey(lifetime, key), data, s.ttl(lifetime))
	pipe.SAdd(ctx, lifetimeIndexKey(lifetime), key)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) Delete(ctx context.Context, lifetime storage.Lifetime, key string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, valueKey(lifetime, key))
	pipe.SRem(ctx, lifetimeIndexKey(lifetime), key)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) Clear(ctx context.Context, lifetime storage.Lifetime) error {
	indexKey := lifetimeIndexKey(lifetime)
	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, key := range keys {
		pipe.Del(ctx, valueKey(lifetime, key))
	}
	pipe.Del(ctx, indexKey)
	_, err = pipe.Exec(ctx)
	return err
}
