package social

import (
	"context"
	"log/slog"

	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/services/auth"
	"github.com/mcoot/chirpygame/internal/services/battle"
)

// FriendAvatar is shown for every friend in a duel
const FriendAvatar = "https://example.com/friend_avatar.png"

// Friend is an entry in the friend list
type Friend struct {
	Username string `json:"username"`
}

// DefaultFriends returns the standard friend list
func DefaultFriends() []Friend {
	return []Friend{{Username: "Alice"}, {Username: "Bob"}, {Username: "Charlie"}}
}

// Service provides friends, duels and the offline toggle. Social features
// belong to online GitHub accounts only.
type Service struct {
	accounts *auth.Controller
	battles  *battle.Engine
	friends  []Friend
	logger   *slog.Logger
}

// NewService creates a new social Service
func NewService(accounts *auth.Controller, battles *battle.Engine, friends []Friend, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		battles:  battles,
		friends:  friends,
		logger:   logger,
	}
}

// Friends returns the friend list
func (s *Service) Friends(ctx context.Context) ([]Friend, error) {
	if _, err := s.online(ctx); err != nil {
		return nil, err
	}
	return append([]Friend(nil), s.friends...), nil
}

// Duel starts a battle against a friend
func (s *Service) Duel(ctx context.Context, username string) (model.BattleState, error) {
	acc, err := s.online(ctx)
	if err != nil {
		return model.BattleState{}, err
	}

	for _, f := range s.friends {
		if f.Username != username {
			continue
		}
		st, err := s.battles.Enter(ctx, model.Opponent{
			Username: f.Username,
			Avatar:   FriendAvatar,
			MaxHP:    100,
		})
		if err != nil {
			return model.BattleState{}, err
		}
		s.logger.Info("duel started",
			slog.String("username", acc.Username),
			slog.String("friend", f.Username),
		)
		return st, nil
	}
	return model.BattleState{}, model.ErrFriendNotFound
}

// ToggleOffline flips offline mode and returns the new setting
func (s *Service) ToggleOffline(ctx context.Context) (bool, error) {
	acc, err := s.accounts.Mutate(ctx, func(acc *model.Account) error {
		if !acc.IsGithub() {
			return model.ErrGithubOnly
		}
		acc.Github.OfflineMode = !acc.Github.OfflineMode
		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("offline mode changed",
		slog.String("username", acc.Username),
		slog.Bool("offline", acc.OfflineMode()),
	)
	return acc.OfflineMode(), nil
}

func (s *Service) online(ctx context.Context) (*model.Account, error) {
	acc, err := s.accounts.Active(ctx)
	if err != nil {
		return nil, err
	}
	if !acc.IsGithub() {
		return nil, model.ErrGithubOnly
	}
	if acc.OfflineMode() {
		return nil, model.ErrOfflineMode
	}
	return acc, nil
}
