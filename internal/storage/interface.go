package storage

import (
	"context"
	"errors"
	"net/url"
)

// ErrNotFound is returned by Get when no value is stored under a key
var ErrNotFound = errors.New("storage: key not found")

// Lifetime selects how long a stored value survives
type Lifetime int

const (
	// Durable values survive restarts
	Durable Lifetime = iota
	// Ephemeral values are dropped when the session ends
	Ephemeral
)

// String returns the lifetime's name
func (l Lifetime) String() string {
	switch l {
	case Durable:
		return "durable"
	case Ephemeral:
		return "ephemeral"
	default:
		return "unknown"
	}
}

// Keys used by the game core
const (
	KeyUserData    = "userData"
	KeyGithubUsers = "githubUsers"
	KeyBattleState = "battleState"
	keyNormalUser  = "normalUser"
)

// LocalAccountKey returns the key of a Local account's credential record.
// The username is escaped so it cannot add key separators of its own.
func LocalAccountKey(username string) string {
	return keyNormalUser + ":" + url.QueryEscape(username)
}

// Storage defines the interface for data persistence. Values are opaque
// blobs; callers own their encoding.
type Storage interface {
	Get(ctx context.Context, lifetime Lifetime, key string) ([]byte, error)
	Put(ctx context.Context, lifetime Lifetime, key string, data []byte) error
	// Delete is a no-op for absent keys
	Delete(ctx context.Context, lifetime Lifetime, key string) error
	// Clear drops every value of the given lifetime
	Clear(ctx context.Context, lifetime Lifetime) error
}
