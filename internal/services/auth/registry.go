package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/storage"
)

// Registry is the process-wide set of gameplay usernames claimed by GitHub
// accounts, persisted as a flat JSON list in durable storage.
type Registry struct {
	storage storage.Storage
	logger  *slog.Logger

	// mu makes check-and-claim atomic across clients
	mu sync.Mutex
}

// NewRegistry creates a registry over the given storage
func NewRegistry(storage storage.Storage, logger *slog.Logger) *Registry {
	return &Registry{
		storage: storage,
		logger:  logger,
	}
}

// Usernames returns every claimed username
func (r *Registry) Usernames(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Contains reports whether a username has been claimed
func (r *Registry) Contains(ctx context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(names, username), nil
}

// Claim registers a username. A username can be claimed only once.
func (r *Registry) Claim(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.load(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(names, username) {
		return model.ErrUsernameTaken
	}

	data, err := json.Marshal(append(names, username))
	if err != nil {
		return err
	}
	if err := r.storage.Put(ctx, storage.Durable, storage.KeyGithubUsers, data); err != nil {
		r.logger.Error("failed to save username registry",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return err
	}

	r.logger.Info("github username claimed", slog.String("username", username))
	return nil
}

// Release gives up a claim, as when the account claiming it could not be
// saved. Releasing an unclaimed username is a no-op.
func (r *Registry) Release(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.load(ctx)
	if err != nil {
		return err
	}
	i := slices.Index(names, username)
	if i < 0 {
		return nil
	}

	data, err := json.Marshal(slices.Delete(names, i, i+1))
	if err != nil {
		return err
	}
	if err := r.storage.Put(ctx, storage.Durable, storage.KeyGithubUsers, data); err != nil {
		return err
	}

	r.logger.Info("github username released", slog.String("username", username))
	return nil
}

func (r *Registry) load(ctx context.Context) ([]string, error) {
	data, err := r.storage.Get(ctx, storage.Durable, storage.KeyGithubUsers)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("%w: username registry: %v", model.ErrInvalidFormat, err)
	}
	return names, nil
}
