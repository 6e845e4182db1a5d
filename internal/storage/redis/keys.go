package redis

import (
	"fmt"

	"github.com/mcoot/chirpygame/internal/storage"
)

// Key prefix for all game-related data
const keyPrefix = "chirpy"

// valueKey returns the Redis key for a stored value
func valueKey(lifetime storage.Lifetime, key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, lifetime, key)
}

// lifetimeIndexKey returns the Redis key for the SET of keys stored with a lifetime
func lifetimeIndexKey(lifetime storage.Lifetime) string {
	return fmt.Sprintf("%s:idx:%s", keyPrefix, lifetime)
}
