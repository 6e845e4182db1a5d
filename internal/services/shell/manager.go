package shell

import (
	"log/slog"
	"sync"

	"github.com/mcoot/chirpygame/internal/dependencies/clock"
	"github.com/mcoot/chirpygame/internal/services/auth"
	"github.com/mcoot/chirpygame/internal/storage"
)

// Manager hands out one Shell per client. Every shell sees its own
// namespace of the store; the username registry is shared.
type Manager struct {
	storage  storage.Storage
	registry *auth.Registry
	clock    clock.Clock
	cfg      Config
	logger   *slog.Logger

	mu     sync.Mutex
	shells map[string]*Shell
}

// NewManager creates a new Manager
func NewManager(store storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Manager {
	return &Manager{
		storage:  store,
		registry: auth.NewRegistry(store, logger),
		clock:    clock,
		cfg:      cfg,
		logger:   logger,
		shells:   make(map[string]*Shell),
	}
}

// Registry returns the shared username registry
func (m *Manager) Registry() *auth.Registry {
	return m.registry
}

// Shell returns the client's shell, creating it on first use
func (m *Manager) Shell(clientID string) *Shell {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sh, ok := m.shells[clientID]; ok {
		return sh
	}

	store := storage.WithPrefix(m.storage, clientPrefix(clientID))
	logger := m.logger.With(slog.String("client_id", clientID))
	sh := New(store, m.registry, m.clock, m.cfg, logger)
	m.shells[clientID] = sh

	m.logger.Debug("shell created", slog.String("client_id", clientID))
	return sh
}

// Len returns the number of live shells
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.shells)
}

func clientPrefix(clientID string) string {
	return "client:" + clientID + ":"
}
