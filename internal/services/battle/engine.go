package battle

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/services/auth"
	"github.com/mcoot/chirpygame/internal/storage"
)

// Config holds configuration for battles
type Config struct {
	// PlayerDamage is the HP the player deals per attack
	PlayerDamage int
	// OpponentDamage is the HP the opponent deals per attack
	OpponentDamage int
	PlayerMaxHP    int
}

// DefaultConfig returns default battle configuration
func DefaultConfig() Config {
	return Config{
		PlayerDamage:   20,
		OpponentDamage: 10,
		PlayerMaxHP:    100,
	}
}

// DamageReducer is called when the player defends and may adjust the
// battle state. The default leaves it unchanged.
type DamageReducer func(ctx context.Context, state model.BattleState) model.BattleState

// NoReduction is the default DamageReducer
func NoReduction(_ context.Context, state model.BattleState) model.BattleState {
	return state
}

// TurnResult is the outcome of one battle step. Outcome is set once the
// battle is over, at which point State is the final state.
type TurnResult struct {
	State   model.BattleState   `json:"state"`
	Outcome model.BattleOutcome `json:"outcome,omitempty"`
	Message string              `json:"message,omitempty"`
}

// Engine runs one battle at a time for the active account
type Engine struct {
	accounts *auth.Controller
	storage  storage.Storage
	reducer  DamageReducer
	cfg      Config
	logger   *slog.Logger

	// current is nil when idle
	current *model.BattleState
}

// New creates a new battle Engine. A nil reducer means NoReduction.
func New(accounts *auth.Controller, storage storage.Storage, reducer DamageReducer, cfg Config, logger *slog.Logger) *Engine {
	if reducer == nil {
		reducer = NoReduction
	}
	return &Engine{
		accounts: accounts,
		storage:  storage,
		reducer:  reducer,
		cfg:      cfg,
		logger:   logger,
	}
}

// Phase reports whether a battle is active
func (e *Engine) Phase() model.BattlePhase {
	if e.current == nil {
		return model.BattleIdle
	}
	return model.BattleInBattle
}

// State returns the active battle, if any
func (e *Engine) State() (model.BattleState, bool) {
	if e.current == nil {
		return model.BattleState{}, false
	}
	return *e.current, true
}

// Enter starts a battle against opponent with both sides at full health
func (e *Engine) Enter(ctx context.Context, opponent model.Opponent) (model.BattleState, error) {
	if e.current != nil {
		return model.BattleState{}, model.ErrBattleInProgress
	}
	acc, err := e.accounts.Active(ctx)
	if err != nil {
		return model.BattleState{}, err
	}

	st := model.BattleState{
		PlayerHealthPct:   100,
		OpponentHealthPct: 100,
		Opponent:          opponent,
	}
	if err := e.save(ctx, st); err != nil {
		return model.BattleState{}, err
	}

	e.logger.Info("battle started",
		slog.String("username", acc.Username),
		slog.String("opponent", opponent.Username),
		slog.Int("opponent_max_hp", opponent.MaxHP),
	)
	return st, nil
}

// Attack resolves one turn: both sides hit each other at once. The battle
// ends as soon as either side reaches zero.
func (e *Engine) Attack(ctx context.Context) (TurnResult, error) {
	if e.current == nil {
		return TurnResult{}, model.ErrNoBattle
	}
	acc, err := e.accounts.Active(ctx)
	if err != nil {
		return TurnResult{}, err
	}

	playerDamage, opponentDamage := e.cfg.PlayerDamage, e.cfg.OpponentDamage
	if acc.SubscriptionActive() {
		playerDamage *= 2
		opponentDamage *= 2
	}

	st := *e.current
	st.OpponentHealthPct = model.ClampHealth(st.OpponentHealthPct - percentOf(playerDamage, st.Opponent.MaxHP))
	st.PlayerHealthPct = model.ClampHealth(st.PlayerHealthPct - percentOf(opponentDamage, e.cfg.PlayerMaxHP))
	st.Turn++

	if !st.Finished() {
		if err := e.save(ctx, st); err != nil {
			return TurnResult{}, err
		}
		return TurnResult{State: st}, nil
	}

	outcome := model.OutcomeDefeat
	message := "You were defeated."
	if st.OpponentHealthPct == 0 {
		outcome = model.OutcomeVictory
		message = st.Opponent.Username + " was defeated!"
	}
	if err := e.finish(ctx, st, outcome); err != nil {
		return TurnResult{}, err
	}
	return TurnResult{State: st, Outcome: outcome, Message: message}, nil
}

// Defend spends a turn defending
func (e *Engine) Defend(ctx context.Context) (TurnResult, error) {
	if e.current == nil {
		return TurnResult{}, model.ErrNoBattle
	}
	if _, err := e.accounts.Active(ctx); err != nil {
		return TurnResult{}, err
	}

	st := e.reducer(ctx, *e.current)
	st.PlayerHealthPct = model.ClampHealth(st.PlayerHealthPct)
	st.OpponentHealthPct = model.ClampHealth(st.OpponentHealthPct)
	st.Turn = e.current.Turn + 1
	if err := e.save(ctx, st); err != nil {
		return TurnResult{}, err
	}
	return TurnResult{State: st, Message: "Defense activated!"}, nil
}

// Retreat leaves the active battle
func (e *Engine) Retreat(ctx context.Context) (TurnResult, error) {
	if e.current == nil {
		return TurnResult{}, model.ErrNoBattle
	}
	st := *e.current
	if err := e.finish(ctx, st, model.OutcomeRetreat); err != nil {
		return TurnResult{}, err
	}
	return TurnResult{State: st, Outcome: model.OutcomeRetreat, Message: "You retreated."}, nil
}

// End returns to idle whatever the battle's state. It is a no-op when idle.
func (e *Engine) End(ctx context.Context) error {
	if e.current == nil {
		return nil
	}
	return e.finish(ctx, *e.current, model.OutcomeNone)
}

// Restore reloads a battle persisted by an earlier run. An unreadable
// battle is discarded.
func (e *Engine) Restore(ctx context.Context) error {
	e.current = nil

	data, err := e.storage.Get(ctx, storage.Ephemeral, storage.KeyBattleState)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}

	var st model.BattleState
	if err := json.Unmarshal(data, &st); err != nil || st.Finished() {
		e.logger.Warn("discarding stored battle state")
		return e.storage.Delete(ctx, storage.Ephemeral, storage.KeyBattleState)
	}
	st.PlayerHealthPct = model.ClampHealth(st.PlayerHealthPct)
	st.OpponentHealthPct = model.ClampHealth(st.OpponentHealthPct)
	e.current = &st
	return nil
}

// Reset forgets the active battle without touching storage, for when the
// session's ephemeral storage has already been cleared
func (e *Engine) Reset() {
	e.current = nil
}

func (e *Engine) save(ctx context.Context, st model.BattleState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := e.storage.Put(ctx, storage.Ephemeral, storage.KeyBattleState, data); err != nil {
		e.logger.Error("failed to save battle state", slog.String("error", err.Error()))
		return err
	}
	e.current = &st
	return nil
}

func (e *Engine) finish(ctx context.Context, st model.BattleState, outcome model.BattleOutcome) error {
	if err := e.storage.Delete(ctx, storage.Ephemeral, storage.KeyBattleState); err != nil {
		e.logger.Error("failed to delete battle state", slog.String("error", err.Error()))
		return err
	}
	e.current = nil

	e.logger.Info("battle ended",
		slog.String("opponent", st.Opponent.Username),
		slog.String("outcome", string(outcome)),
		slog.Int("turns", st.Turn),
		slog.Int("player_health_pct", st.PlayerHealthPct),
		slog.Int("opponent_health_pct", st.OpponentHealthPct),
	)
	return nil
}

// percentOf converts damage to a share of maxHP, rounding up so every hit
// registers. A zero maxHP counts as 100.
func percentOf(damage, maxHP int) int {
	if maxHP <= 0 {
		maxHP = 100
	}
	return (damage*100 + maxHP - 1) / maxHP
}
