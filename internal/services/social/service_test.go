package social

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/chirpygame/internal/dependencies/mocks"
	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/services/auth"
	"github.com/mcoot/chirpygame/internal/services/battle"
	"github.com/mcoot/chirpygame/internal/storage/memory"
	"github.com/mcoot/chirpygame/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	accounts *auth.Controller
	battles  *battle.Engine
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	store := memory.New()
	logger := testutil.NopLogger()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	cfg := auth.DefaultConfig()
	cfg.PasswordCost = bcrypt.MinCost
	s.accounts = auth.New(store, auth.NewRegistry(store, logger), clk, cfg, logger)
	s.battles = battle.New(s.accounts, store, nil, battle.DefaultConfig(), logger)
	s.service = NewService(s.accounts, s.battles, DefaultFriends(), logger)
	s.ctx = context.Background()
}

func (s *ServiceSuite) signInGithub() {
	_, err := s.accounts.ClaimGithubIdentity(s.ctx, auth.IdentityClaim{})
	s.Require().NoError(err)
	_, err = s.accounts.CompleteGithubProfile(s.ctx, "hero", "hero.png", mocks.NewMockPrompter("Knight"))
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestFriends() {
	s.signInGithub()

	friends, err := s.service.Friends(s.ctx)
	s.Require().NoError(err)
	s.Equal([]Friend{{Username: "Alice"}, {Username: "Bob"}, {Username: "Charlie"}}, friends)
}

func (s *ServiceSuite) TestFriendsRejectedForLocalAccounts() {
	_, _ = s.accounts.SignUpLocal(s.ctx, "alice", "", "Mage")

	_, err := s.service.Friends(s.ctx)
	s.ErrorIs(err, model.ErrGithubOnly)
	_, err = s.service.Duel(s.ctx, "Bob")
	s.ErrorIs(err, model.ErrGithubOnly)
}

func (s *ServiceSuite) TestOfflineModeRejectsSocialFeatures() {
	s.signInGithub()

	offline, err := s.service.ToggleOffline(s.ctx)
	s.Require().NoError(err)
	s.True(offline)

	_, err = s.service.Friends(s.ctx)
	s.ErrorIs(err, model.ErrOfflineMode)
	s.ErrorIs(err, model.ErrUnsupported)
	_, err = s.service.Duel(s.ctx, "Bob")
	s.ErrorIs(err, model.ErrOfflineMode)
	s.Equal(model.BattleIdle, s.battles.Phase())
}

func (s *ServiceSuite) TestToggleOfflineTwice() {
	s.signInGithub()

	_, _ = s.service.ToggleOffline(s.ctx)
	offline, err := s.service.ToggleOffline(s.ctx)
	s.Require().NoError(err)
	s.False(offline)

	acc, _ := s.accounts.Active(s.ctx)
	s.False(acc.OfflineMode())
}

func (s *ServiceSuite) TestToggleOfflineGithubOnly() {
	_, _ = s.accounts.UnlockTestPortal(s.ctx, "test123")

	_, err := s.service.ToggleOffline(s.ctx)
	s.ErrorIs(err, model.ErrGithubOnly)
}

func (s *ServiceSuite) TestDuelEntersBattle() {
	s.signInGithub()

	st, err := s.service.Duel(s.ctx, "Charlie")
	s.Require().NoError(err)
	s.Equal("Charlie", st.Opponent.Username)
	s.Equal(FriendAvatar, st.Opponent.Avatar)
	s.Equal(100, st.OpponentHealthPct)
	s.Equal(model.BattleInBattle, s.battles.Phase())
}

func (s *ServiceSuite) TestDuelUnknownFriend() {
	s.signInGithub()

	_, err := s.service.Duel(s.ctx, "Mallory")
	s.ErrorIs(err, model.ErrFriendNotFound)
}
