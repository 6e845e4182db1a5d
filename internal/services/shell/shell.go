package shell

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/chirpygame/internal/dependencies/clock"
	"github.com/mcoot/chirpygame/internal/dependencies/prompt"
	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/services/auth"
	"github.com/mcoot/chirpygame/internal/services/battle"
	"github.com/mcoot/chirpygame/internal/services/economy"
	"github.com/mcoot/chirpygame/internal/services/inventory"
	"github.com/mcoot/chirpygame/internal/services/savefile"
	"github.com/mcoot/chirpygame/internal/services/shop"
	"github.com/mcoot/chirpygame/internal/services/social"
	"github.com/mcoot/chirpygame/internal/services/world"
	"github.com/mcoot/chirpygame/internal/storage"
)

// Config holds configuration for every service a shell wires together.
// Zero values fall back to each service's defaults.
type Config struct {
	Auth    auth.Config
	Economy economy.Config
	Battle  battle.Config
	Catalog *shop.Catalog
	World   *world.Map
	Friends []social.Friend
	// Reducer is called when the player defends
	Reducer battle.DamageReducer
}

// DefaultConfig returns default shell configuration
func DefaultConfig() Config {
	return Config{
		Auth:    auth.DefaultConfig(),
		Economy: economy.DefaultConfig(),
		Battle:  battle.DefaultConfig(),
		Catalog: shop.DefaultCatalog(),
		World:   world.DefaultMap(),
		Friends: social.DefaultFriends(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Auth.TestPortalSecret == "" {
		c.Auth.TestPortalSecret = d.Auth.TestPortalSecret
	}
	if c.Economy.BaseReward == 0 {
		c.Economy.BaseReward = d.Economy.BaseReward
	}
	if c.Economy.RewardInterval == 0 {
		c.Economy.RewardInterval = d.Economy.RewardInterval
	}
	if c.Battle == (battle.Config{}) {
		c.Battle = d.Battle
	}
	if c.Catalog == nil {
		c.Catalog = d.Catalog
	}
	if c.World == nil {
		c.World = d.World
	}
	if c.Friends == nil {
		c.Friends = d.Friends
	}
	return c
}

// Shell is one player's game session. It wires the services over a single
// storage view and runs one event at a time.
type Shell struct {
	mu sync.Mutex

	accounts  *auth.Controller
	ledger    *economy.Ledger
	shop      *shop.Service
	inventory *inventory.Service
	battles   *battle.Engine
	gate      *world.Gate
	social    *social.Service
	saves     *savefile.Service
}

// New creates a Shell over store. The registry is shared by every shell
// in the process.
func New(store storage.Storage, registry *auth.Registry, clock clock.Clock, cfg Config, logger *slog.Logger) *Shell {
	cfg = cfg.withDefaults()

	accounts := auth.New(store, registry, clock, cfg.Auth, logger)
	battles := battle.New(accounts, store, cfg.Reducer, cfg.Battle, logger)

	return &Shell{
		accounts:  accounts,
		ledger:    economy.New(accounts, clock, cfg.Economy, logger),
		shop:      shop.NewService(accounts, cfg.Catalog, logger),
		inventory: inventory.NewService(accounts, logger),
		battles:   battles,
		gate:      world.NewGate(accounts, battles, cfg.World, logger),
		social:    social.NewService(accounts, battles, cfg.Friends, logger),
		saves:     savefile.NewService(accounts, logger),
	}
}

// settle drops any battle once the session is no longer authenticated,
// which also happens when a test account expires mid-call
func (s *Shell) settle() {
	if s.accounts.Phase() != auth.PhaseAuthenticated {
		s.battles.Reset()
	}
}

// switched ends any battle left over from the previous account once a
// sign-in has succeeded
func (s *Shell) switched(ctx context.Context) func(*model.Account, error) (*model.Account, error) {
	return func(acc *model.Account, err error) (*model.Account, error) {
		if err != nil {
			return nil, err
		}
		if err := s.battles.End(ctx); err != nil {
			return nil, err
		}
		return acc, nil
	}
}

// Session

// Session returns the current session state. An expired test account is
// logged out first.
func (s *Shell) Session(ctx context.Context) auth.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()
	return s.accounts.Current(ctx)
}

// Restore re-enters the session persisted by an earlier run, including any
// battle that was in progress
func (s *Shell) Restore(ctx context.Context, prompter prompt.CharacterPrompter) (auth.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()

	st, err := s.accounts.RestoreSession(ctx, prompter)
	if err != nil {
		return st, err
	}
	if st.Phase == auth.PhaseAuthenticated {
		if err := s.battles.Restore(ctx); err != nil {
			return st, err
		}
	}
	return st, nil
}

// LogOut ends the session
func (s *Shell) LogOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.battles.Reset()
	return s.accounts.LogOut(ctx)
}

// DeleteAccount ends the session and forgets a local account
func (s *Shell) DeleteAccount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()
	return s.accounts.DeleteAccount(ctx)
}

// SignUpLocal creates and signs in to a local account
func (s *Shell) SignUpLocal(ctx context.Context, username, password, character string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.switched(ctx)(s.accounts.SignUpLocal(ctx, username, password, character))
}

// SignInLocal signs in to a local account
func (s *Shell) SignInLocal(ctx context.Context, username, password string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.switched(ctx)(s.accounts.SignInLocal(ctx, username, password))
}

// ClaimGithubIdentity starts a GitHub session
func (s *Shell) ClaimGithubIdentity(ctx context.Context, claim auth.IdentityClaim) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.switched(ctx)(s.accounts.ClaimGithubIdentity(ctx, claim))
}

// CompleteGithubProfile finishes a pending GitHub session
func (s *Shell) CompleteGithubProfile(ctx context.Context, username, avatar string, prompter prompt.CharacterPrompter) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts.CompleteGithubProfile(ctx, username, avatar, prompter)
}

// UnlockTestPortal converts the session into a test account
func (s *Shell) UnlockTestPortal(ctx context.Context, password string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.switched(ctx)(s.accounts.UnlockTestPortal(ctx, password))
}

// UpdatePassword changes a local or test account's password
func (s *Shell) UpdatePassword(ctx context.Context, password string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()
	return s.accounts.UpdatePassword(ctx, password)
}

// Account returns the active account
func (s *Shell) Account(ctx context.Context) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()
	return s.accounts.Active(ctx)
}

// Economy

// ClaimDailyReward claims the daily reward
func (s *Shell) ClaimDailyReward(ctx context.Context) (economy.RewardResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()
	return s.ledger.ClaimDailyReward(ctx)
}

// SetSubscription turns the Plus subscription on or off
func (s *Shell) SetSubscription(ctx context.Context, active bool) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()
	return s.ledger.SetSubscription(ctx, active)
}

// Shop and inventory

// ShopItems returns the catalog
func (s *Shell) ShopItems() []model.ShopItem {
	return s.shop.Items()
}

// Purchase buys an item by name
func (s *Shell) Purchase(ctx context.Context, name string) (shop.PurchaseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()
	return s.shop.Purchase(ctx, name)
}

// Inventory returns owned items and the equipped binding
func (s *Shell) Inventory(ctx context.Context) ([]model.InventoryItem, *model.EquippedExercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()

	acc, err := s.accounts.Active(ctx)
	if err != nil {
		return nil, nil, err
	}
	return acc.Inventory, acc.Equipped, nil
}

// Equip binds an inventory item to a coordinate
func (s *Shell) Equip(ctx context.Context, index int, coordinate string) (*model.EquippedExercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()
	return s.inventory.Equip(ctx, index, coordinate)
}

// World

// Map returns the world's cells and the player's position
func (s *Shell) Map(ctx context.Context) ([]model.Cell, model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()

	pos, err := s.gate.Position(ctx)
	if err != nil {
		return nil, model.Position{}, err
	}
	return s.gate.Cells(), pos, nil
}

// MoveTo moves the player to a cell, possibly starting a battle instead
func (s *Shell) MoveTo(ctx context.Context, id model.CellID) (world.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()
	return s.gate.MoveTo(ctx, id)
}

// Battle

// BattleTurn is a battle step as seen by the player. Position is set when
// winning moved the player onto the contested cell.
type BattleTurn struct {
	battle.TurnResult
	Position *model.Position `json:"position,omitempty"`
}

// Battle returns the active battle, if any
func (s *Shell) Battle() (model.BattleState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battles.State()
}

// Attack plays an attack turn
func (s *Shell) Attack(ctx context.Context) (BattleTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()

	result, err := s.battles.Attack(ctx)
	if err != nil {
		return BattleTurn{}, err
	}
	turn := BattleTurn{TurnResult: result}

	origin := result.State.Opponent.Origin
	if result.Outcome == model.OutcomeVictory && origin != "" {
		pos, err := s.gate.Arrive(ctx, origin)
		if err != nil {
			return turn, err
		}
		turn.Position = &pos
	}
	return turn, nil
}

// Defend plays a defend turn
func (s *Shell) Defend(ctx context.Context) (BattleTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()

	result, err := s.battles.Defend(ctx)
	if err != nil {
		return BattleTurn{}, err
	}
	return BattleTurn{TurnResult: result}, nil
}

// Retreat leaves the active battle
func (s *Shell) Retreat(ctx context.Context) (BattleTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()

	result, err := s.battles.Retreat(ctx)
	if err != nil {
		return BattleTurn{}, err
	}
	return BattleTurn{TurnResult: result}, nil
}

// Social

// Friends returns the friend list
func (s *Shell) Friends(ctx context.Context) ([]social.Friend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()
	return s.social.Friends(ctx)
}

// Duel starts a battle against a friend
func (s *Shell) Duel(ctx context.Context, friend string) (model.BattleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()
	return s.social.Duel(ctx, friend)
}

// ToggleOffline flips offline mode
func (s *Shell) ToggleOffline(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()
	return s.social.ToggleOffline(ctx)
}

// Save files

// Export returns the active account as a save file
func (s *Shell) Export(ctx context.Context) (savefile.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()
	return s.saves.Export(ctx)
}

// Load replaces the session with a save file's account
func (s *Shell) Load(ctx context.Context, data []byte, prompter prompt.CharacterPrompter) (auth.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()

	st, err := s.saves.Load(ctx, data, prompter)
	if err != nil {
		return st, err
	}
	// A loaded account never inherits the previous account's battle
	if err := s.battles.End(ctx); err != nil {
		return st, err
	}
	return st, nil
}

// Import merges a transfer file into the active account
func (s *Shell) Import(ctx context.Context, data []byte) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()
	return s.saves.Import(ctx, data)
}

// DownloadGameData returns the game data file for non-GitHub players
func (s *Shell) DownloadGameData(ctx context.Context) (savefile.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()
	return s.saves.DownloadGameData(ctx)
}
