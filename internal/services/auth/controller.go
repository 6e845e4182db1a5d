package auth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/chirpygame/internal/dependencies/clock"
	"github.com/mcoot/chirpygame/internal/dependencies/prompt"
	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/storage"
)

// Phase is the authentication state of a session
type Phase string

const (
	PhaseUnauthenticated      Phase = "unauthenticated"
	PhaseGithubProfilePending Phase = "github_profile_pending"
	PhaseAuthenticated        Phase = "authenticated"
)

// State is a snapshot of the session. Account is a copy and nil when
// unauthenticated.
type State struct {
	Phase   Phase
	Account *model.Account
}

// IdentityClaim is the success signal handed over by the OAuth collaborator.
// Nothing in it is verified; the controller always builds the same
// placeholder profile from it.
type IdentityClaim struct {
	Code string
}

// Config holds configuration for the account controller
type Config struct {
	TestPortalSecret   string
	TestPortalDuration time.Duration
	// AccountLifetime is where the active account record is kept
	AccountLifetime storage.Lifetime
	// DefaultCharacter is used when a GitHub player declines to choose one
	DefaultCharacter    string
	PlaceholderUsername string
	PlaceholderEmail    string
	TestUsername        string
	PasswordCost        int
}

// DefaultConfig returns default controller configuration
func DefaultConfig() Config {
	return Config{
		TestPortalSecret:    "test123",
		TestPortalDuration:  30 * 24 * time.Hour,
		AccountLifetime:     storage.Durable,
		DefaultCharacter:    "DefaultHero",
		PlaceholderUsername: "GitHubUser",
		PlaceholderEmail:    "githubuser@example.com",
		TestUsername:        "TestUser",
		PasswordCost:        bcrypt.DefaultCost,
	}
}

// state is replaced as a whole on every transition, never edited in place
type state struct {
	phase   Phase
	account *model.Account
}

// Controller owns the account-mode state machine and the active account.
// It is not safe for concurrent use; callers serialize events.
type Controller struct {
	storage  storage.Storage
	registry *Registry
	clock    clock.Clock
	logger   *slog.Logger
	cfg      Config

	state state
}

// New creates a new account Controller
func New(storage storage.Storage, registry *Registry, clock clock.Clock, cfg Config, logger *slog.Logger) *Controller {
	defaults := DefaultConfig()
	if cfg.TestPortalDuration == 0 {
		cfg.TestPortalDuration = defaults.TestPortalDuration
	}
	if cfg.DefaultCharacter == "" {
		cfg.DefaultCharacter = defaults.DefaultCharacter
	}
	if cfg.PlaceholderUsername == "" {
		cfg.PlaceholderUsername = defaults.PlaceholderUsername
	}
	if cfg.PlaceholderEmail == "" {
		cfg.PlaceholderEmail = defaults.PlaceholderEmail
	}
	if cfg.TestUsername == "" {
		cfg.TestUsername = defaults.TestUsername
	}
	if cfg.PasswordCost == 0 {
		cfg.PasswordCost = defaults.PasswordCost
	}
	return &Controller{
		storage:  storage,
		registry: registry,
		clock:    clock,
		logger:   logger,
		cfg:      cfg,
		state:    state{phase: PhaseUnauthenticated},
	}
}

// Phase returns the current authentication phase
func (c *Controller) Phase() Phase {
	return c.state.phase
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	return State{
		Phase:   c.state.phase,
		Account: c.state.account.Clone(),
	}
}

// Current returns the session state, first logging out a test account
// whose grant has lapsed
func (c *Controller) Current(ctx context.Context) State {
	acc := c.state.account
	if c.state.phase == PhaseAuthenticated && acc.IsTest() && acc.Test.Expired(c.clock.Now()) {
		c.purgeExpired(ctx, acc)
	}
	return c.Snapshot()
}

// Active returns a copy of the authenticated account. An expired test
// account is logged out on access.
func (c *Controller) Active(ctx context.Context) (*model.Account, error) {
	switch c.state.phase {
	case PhaseAuthenticated:
	case PhaseGithubProfilePending:
		return nil, model.ErrProfilePending
	default:
		return nil, model.ErrNotAuthenticated
	}

	acc := c.state.account
	if acc.IsTest() && acc.Test.Expired(c.clock.Now()) {
		c.purgeExpired(ctx, acc)
		return nil, model.ErrTestPortalExpired
	}
	return acc.Clone(), nil
}

// Mutate applies fn to a copy of the active account, writes the copy through
// to storage and only then makes it the active account. If fn or the write
// fails, the active account is unchanged.
func (c *Controller) Mutate(ctx context.Context, fn func(acc *model.Account) error) (*model.Account, error) {
	acc, err := c.Active(ctx)
	if err != nil {
		return nil, err
	}
	previous := acc.Username
	if err := fn(acc); err != nil {
		return nil, err
	}
	if err := c.persist(ctx, acc); err != nil {
		return nil, err
	}
	c.state = state{phase: PhaseAuthenticated, account: acc}

	// A renamed local account leaves no record under its old name
	if acc.Mode == model.ModeLocal && acc.Username != previous {
		if err := c.storage.Delete(ctx, storage.Durable, storage.LocalAccountKey(previous)); err != nil {
			c.logger.Error("failed to remove renamed local account",
				slog.String("username", previous),
				slog.String("error", err.Error()),
			)
		}
	}
	return acc.Clone(), nil
}

// SignUpLocal creates a locally stored account and signs it in
func (c *Controller) SignUpLocal(ctx context.Context, username, password, character string) (*model.Account, error) {
	username = strings.TrimSpace(username)
	character = strings.TrimSpace(character)
	if username == "" {
		return nil, model.ErrUsernameRequired
	}
	if character == "" {
		return nil, model.ErrCharacterRequired
	}

	hash, err := hashPassword(password, c.cfg.PasswordCost)
	if err != nil {
		return nil, err
	}

	acc := &model.Account{
		Mode:         model.ModeLocal,
		Username:     username,
		PasswordHash: hash,
		Character:    character,
		CreatedAt:    c.clock.Now(),
	}

	if err := c.persist(ctx, acc); err != nil {
		return nil, err
	}
	c.state = state{phase: PhaseAuthenticated, account: acc}

	c.logger.Info("local account created",
		slog.String("username", username),
		slog.Bool("has_password", acc.HasPassword()),
	)
	return acc.Clone(), nil
}

// SignInLocal signs in to a previously created local account
func (c *Controller) SignInLocal(ctx context.Context, username, password string) (*model.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, model.ErrUsernameRequired
	}

	data, err := c.storage.Get(ctx, storage.Durable, storage.LocalAccountKey(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	acc, err := model.DecodeAccount(data)
	if err != nil {
		return nil, err
	}
	if !passwordMatches(acc.PasswordHash, password) {
		return nil, model.ErrWrongPassword
	}
	if strings.TrimSpace(acc.Character) == "" {
		return nil, model.ErrCharacterRequired
	}

	if err := c.persist(ctx, acc); err != nil {
		return nil, err
	}
	c.state = state{phase: PhaseAuthenticated, account: acc}

	c.logger.Info("local account signed in", slog.String("username", username))
	return acc.Clone(), nil
}

// ClaimGithubIdentity starts a GitHub session from an identity claim. The
// session stays pending until CompleteGithubProfile succeeds.
func (c *Controller) ClaimGithubIdentity(ctx context.Context, claim IdentityClaim) (*model.Account, error) {
	acc := &model.Account{
		Mode:      model.ModeGithub,
		Username:  c.cfg.PlaceholderUsername,
		CreatedAt: c.clock.Now(),
		Github:    &model.GithubProfile{Email: c.cfg.PlaceholderEmail},
	}

	taken, err := c.registry.Contains(ctx, acc.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrUsernameTaken
	}

	if err := c.persist(ctx, acc); err != nil {
		return nil, err
	}
	c.state = state{phase: PhaseGithubProfilePending, account: acc}

	c.logger.Info("github identity claimed", slog.String("username", acc.Username))
	return acc.Clone(), nil
}

// CompleteGithubProfile registers the gameplay username and avatar of a
// pending GitHub session and authenticates it. If the account still has no
// character, the prompter is asked for one.
func (c *Controller) CompleteGithubProfile(ctx context.Context, gameplayUsername, avatar string, prompter prompt.CharacterPrompter) (*model.Account, error) {
	if c.state.phase != PhaseGithubProfilePending {
		return nil, model.ErrNoProfilePending
	}

	gameplayUsername = strings.TrimSpace(gameplayUsername)
	avatar = strings.TrimSpace(avatar)
	if gameplayUsername == "" {
		return nil, model.ErrUsernameRequired
	}
	if avatar == "" {
		return nil, model.ErrAvatarRequired
	}

	if err := c.registry.Claim(ctx, gameplayUsername); err != nil {
		return nil, err
	}

	acc := c.state.account.Clone()
	acc.Username = gameplayUsername
	acc.Avatar = avatar

	if err := c.persist(ctx, acc); err != nil {
		if releaseErr := c.registry.Release(ctx, gameplayUsername); releaseErr != nil {
			c.logger.Error("failed to release github username",
				slog.String("username", gameplayUsername),
				slog.String("error", releaseErr.Error()),
			)
		}
		return nil, err
	}
	c.state = state{phase: PhaseAuthenticated, account: acc}

	if err := c.ResolveCharacter(ctx, prompter); err != nil {
		return nil, err
	}
	return c.state.account.Clone(), nil
}

// ResolveCharacter makes sure an authenticated GitHub account has a
// character, asking the prompter when it does not. An empty answer, or no
// prompter at all, selects the default character.
func (c *Controller) ResolveCharacter(ctx context.Context, prompter prompt.CharacterPrompter) error {
	acc, err := c.Active(ctx)
	if err != nil {
		return err
	}
	if !acc.IsGithub() || strings.TrimSpace(acc.Character) != "" {
		return nil
	}

	character := ""
	if prompter != nil {
		answer, err := prompter.PromptCharacter(ctx)
		if err != nil {
			c.logger.Warn("character prompt failed",
				slog.String("username", acc.Username),
				slog.String("error", err.Error()),
			)
		}
		character = strings.TrimSpace(answer)
	}
	if character == "" {
		character = c.cfg.DefaultCharacter
	}

	_, err = c.Mutate(ctx, func(acc *model.Account) error {
		acc.Character = character
		return nil
	})
	return err
}

// UnlockTestPortal converts the session into a time-limited test account.
// The current account's progress carries over when there is one.
func (c *Controller) UnlockTestPortal(ctx context.Context, password string) (*model.Account, error) {
	if !secretMatches(c.cfg.TestPortalSecret, password) {
		return nil, model.ErrWrongTestSecret
	}

	now := c.clock.Now()
	acc := c.state.account.Clone()
	if acc == nil {
		acc = &model.Account{
			Username:  c.cfg.TestUsername,
			CreatedAt: now,
		}
	}
	acc.Mode = model.ModeTest
	acc.Github = nil
	acc.Test = &model.TestPortalGrant{ExpiresAt: now.Add(c.cfg.TestPortalDuration).Truncate(model.TimePrecision)}

	if err := c.persist(ctx, acc); err != nil {
		return nil, err
	}
	c.state = state{phase: PhaseAuthenticated, account: acc}

	c.logger.Info("test portal unlocked",
		slog.String("username", acc.Username),
		slog.Time("expires_at", acc.Test.ExpiresAt),
	)
	return acc.Clone(), nil
}

// RestoreSession re-enters the session persisted by an earlier run. A
// missing or unreadable record leaves the session unauthenticated; an
// expired test account is purged and reported.
func (c *Controller) RestoreSession(ctx context.Context, prompter prompt.CharacterPrompter) (State, error) {
	data, err := c.storage.Get(ctx, c.cfg.AccountLifetime, storage.KeyUserData)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.state = state{phase: PhaseUnauthenticated}
			return c.Snapshot(), nil
		}
		return c.Snapshot(), err
	}

	acc, err := model.DecodeAccount(data)
	if err != nil {
		c.logger.Warn("ignoring malformed stored account", slog.String("error", err.Error()))
		c.state = state{phase: PhaseUnauthenticated}
		return c.Snapshot(), nil
	}

	if acc.IsTest() && acc.Test.Expired(c.clock.Now()) {
		c.purgeExpired(ctx, acc)
		return c.Snapshot(), model.ErrTestPortalExpired
	}

	return c.enter(ctx, acc, data, prompter)
}

// Adopt replaces the session with the given account, as when a save file is
// loaded. An expired test account is rejected without changing anything.
func (c *Controller) Adopt(ctx context.Context, acc *model.Account, prompter prompt.CharacterPrompter) (State, error) {
	acc = acc.Clone()
	acc.Repair()
	if acc.IsTest() && acc.Test.Expired(c.clock.Now()) {
		return c.Snapshot(), model.ErrTestPortalExpired
	}
	return c.enter(ctx, acc, nil, prompter)
}

// enter persists acc (unless stored already matches) and makes it active
// in the phase its mode calls for
func (c *Controller) enter(ctx context.Context, acc *model.Account, stored []byte, prompter prompt.CharacterPrompter) (State, error) {
	phase := PhaseAuthenticated
	if acc.IsGithub() {
		registered, err := c.registry.Contains(ctx, acc.Username)
		if err != nil {
			return c.Snapshot(), err
		}
		if !registered {
			phase = PhaseGithubProfilePending
		}
	}

	encoded, err := model.EncodeAccount(acc)
	if err != nil {
		return c.Snapshot(), err
	}
	if !bytes.Equal(encoded, stored) {
		if err := c.persist(ctx, acc); err != nil {
			return c.Snapshot(), err
		}
	}
	c.state = state{phase: phase, account: acc}

	c.logger.Info("session entered",
		slog.String("username", acc.Username),
		slog.String("mode", string(acc.Mode)),
		slog.String("phase", string(phase)),
	)

	if phase == PhaseAuthenticated {
		if err := c.ResolveCharacter(ctx, prompter); err != nil {
			return c.Snapshot(), err
		}
	}
	return c.Snapshot(), nil
}

// UpdatePassword replaces the credential of a local or test account
func (c *Controller) UpdatePassword(ctx context.Context, newPassword string) (*model.Account, error) {
	if newPassword == "" {
		return nil, model.ErrPasswordRequired
	}
	hash, err := hashPassword(newPassword, c.cfg.PasswordCost)
	if err != nil {
		return nil, err
	}
	return c.Mutate(ctx, func(acc *model.Account) error {
		if acc.Mode == model.ModeGithub {
			return model.ErrNotForGithub
		}
		acc.PasswordHash = hash
		return nil
	})
}

// LogOut clears the persisted session and returns to unauthenticated.
// It is safe to call at any time.
func (c *Controller) LogOut(ctx context.Context) error {
	var errs []error
	for _, lifetime := range []storage.Lifetime{storage.Durable, storage.Ephemeral} {
		if err := c.storage.Delete(ctx, lifetime, storage.KeyUserData); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.storage.Clear(ctx, storage.Ephemeral); err != nil {
		errs = append(errs, err)
	}

	if c.state.account != nil {
		c.logger.Info("logged out", slog.String("username", c.state.account.Username))
	}
	c.state = state{phase: PhaseUnauthenticated}
	return errors.Join(errs...)
}

// DeleteAccount logs out and also removes a local account's credential
// record, so it can no longer be signed in to. Claimed GitHub usernames stay
// claimed.
func (c *Controller) DeleteAccount(ctx context.Context) error {
	acc, err := c.Active(ctx)
	if err != nil {
		return err
	}
	if acc.Mode == model.ModeLocal {
		if err := c.storage.Delete(ctx, storage.Durable, storage.LocalAccountKey(acc.Username)); err != nil {
			return err
		}
	}
	c.logger.Info("account deleted", slog.String("username", acc.Username))
	return c.LogOut(ctx)
}

// persist writes the account record; local accounts also refresh their
// credential record so the next sign-in sees current progress
func (c *Controller) persist(ctx context.Context, acc *model.Account) error {
	acc.TruncateTimes()
	data, err := model.EncodeAccount(acc)
	if err != nil {
		return err
	}
	if acc.Mode == model.ModeLocal {
		if err := c.storage.Put(ctx, storage.Durable, storage.LocalAccountKey(acc.Username), data); err != nil {
			c.logger.Error("failed to save local account",
				slog.String("username", acc.Username),
				slog.String("error", err.Error()),
			)
			return err
		}
	}
	if err := c.storage.Put(ctx, c.cfg.AccountLifetime, storage.KeyUserData, data); err != nil {
		c.logger.Error("failed to save account",
			slog.String("username", acc.Username),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

func (c *Controller) purgeExpired(ctx context.Context, acc *model.Account) {
	c.logger.Info("test portal expired",
		slog.String("username", acc.Username),
		slog.Time("expired_at", acc.Test.ExpiresAt),
	)
	if err := c.LogOut(ctx); err != nil {
		c.logger.Error("failed to purge expired test account", slog.String("error", err.Error()))
	}
}
