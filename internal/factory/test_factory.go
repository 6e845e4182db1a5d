package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/chirpygame/internal/dependencies/mocks"
	"github.com/mcoot/chirpygame/internal/services/shell"
	"github.com/mcoot/chirpygame/internal/storage/memory"
	"github.com/mcoot/chirpygame/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	Memory    *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(
		memory.New(),
		mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
	)
}

// NewTestAppWithStorage creates a test App over existing storage, as if the
// server had restarted
func NewTestAppWithStorage(store *memory.Storage, mockClock *mocks.MockClock) *TestApp {
	cfg := shell.DefaultConfig()
	cfg.Auth.PasswordCost = bcrypt.MinCost

	app := newWithDependencies(store, mockClock, cfg, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		Memory:    store,
	}
}
