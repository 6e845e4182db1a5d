package economy

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/chirpygame/internal/dependencies/clock"
	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/services/auth"
)

// Config holds configuration for the ledger
type Config struct {
	BaseReward     int
	RewardInterval time.Duration
}

// DefaultConfig returns default ledger configuration
func DefaultConfig() Config {
	return Config{
		BaseReward:     100,
		RewardInterval: 12 * time.Hour,
	}
}

// RewardResult reports the outcome of a daily reward claim. Amount is set
// when Granted; WaitMinutes otherwise.
type RewardResult struct {
	Granted     bool `json:"granted"`
	Amount      int  `json:"amount,omitempty"`
	WaitMinutes int  `json:"waitMinutes,omitempty"`
	Balance     int  `json:"balance"`
}

// Ledger owns the active account's coin balance and reward cooldown
type Ledger struct {
	accounts *auth.Controller
	clock    clock.Clock
	cfg      Config
	logger   *slog.Logger
}

// New creates a new Ledger
func New(accounts *auth.Controller, clock clock.Clock, cfg Config, logger *slog.Logger) *Ledger {
	return &Ledger{
		accounts: accounts,
		clock:    clock,
		cfg:      cfg,
		logger:   logger,
	}
}

// Balance returns the active account's coins
func (l *Ledger) Balance(ctx context.Context) (int, error) {
	acc, err := l.accounts.Active(ctx)
	if err != nil {
		return 0, err
	}
	return acc.Wallet.Coins, nil
}

// ClaimDailyReward grants the daily reward if the cooldown has passed.
// A denied claim is not an error; the result carries the remaining wait.
func (l *Ledger) ClaimDailyReward(ctx context.Context) (RewardResult, error) {
	var result RewardResult
	now := l.clock.Now()

	acc, err := l.accounts.Mutate(ctx, func(acc *model.Account) error {
		if !acc.IsGithub() {
			return model.ErrGithubOnly
		}

		wallet := &acc.Wallet
		if wallet.HasClaimedReward() {
			elapsed := now.Sub(wallet.LastRewardAt)
			if elapsed < l.cfg.RewardInterval {
				result.WaitMinutes = waitMinutes(l.cfg.RewardInterval - elapsed)
				return errDenied
			}
		}

		amount := l.cfg.BaseReward
		if acc.SubscriptionActive() {
			amount *= 2
		}
		if err := Credit(acc, amount); err != nil {
			return err
		}
		// Rounded up to the persisted precision so a restored cooldown
		// never ends before the claim time plus the interval
		granted := now.Truncate(model.TimePrecision)
		if granted.Before(now) {
			granted = granted.Add(model.TimePrecision)
		}
		if granted.After(wallet.LastRewardAt) {
			wallet.LastRewardAt = granted
		}
		result.Granted = true
		result.Amount = amount
		return nil
	})

	switch {
	case errors.Is(err, errDenied):
		balance, err := l.Balance(ctx)
		if err != nil {
			return RewardResult{}, err
		}
		result.Balance = balance
		return result, nil
	case err != nil:
		return RewardResult{}, err
	}

	result.Balance = acc.Wallet.Coins
	l.logger.Info("daily reward granted",
		slog.String("username", acc.Username),
		slog.Int("amount", result.Amount),
		slog.Int("balance", result.Balance),
	)
	return result, nil
}

// Credit adds coins to the active account and returns the new balance
func (l *Ledger) Credit(ctx context.Context, amount int) (int, error) {
	acc, err := l.accounts.Mutate(ctx, func(acc *model.Account) error {
		return Credit(acc, amount)
	})
	if err != nil {
		return 0, err
	}
	return acc.Wallet.Coins, nil
}

// Debit removes coins from the active account and returns the new balance
func (l *Ledger) Debit(ctx context.Context, amount int) (int, error) {
	acc, err := l.accounts.Mutate(ctx, func(acc *model.Account) error {
		return Debit(acc, amount)
	})
	if err != nil {
		return 0, err
	}
	return acc.Wallet.Coins, nil
}

// SetSubscription turns the Plus subscription on or off
func (l *Ledger) SetSubscription(ctx context.Context, active bool) (*model.Account, error) {
	acc, err := l.accounts.Mutate(ctx, func(acc *model.Account) error {
		if !acc.IsGithub() {
			return model.ErrGithubOnly
		}
		acc.Github.Plus = active
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("subscription changed",
		slog.String("username", acc.Username),
		slog.Bool("active", active),
	)
	return acc, nil
}
