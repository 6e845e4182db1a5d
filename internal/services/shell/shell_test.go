package shell

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/chirpygame/internal/dependencies/mocks"
	"github.com/mcoot/chirpygame/internal/dependencies/prompt"
	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/services/auth"
	"github.com/mcoot/chirpygame/internal/storage/memory"
	"github.com/mcoot/chirpygame/internal/testutil"
)

type ShellSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	manager *Manager
	ctx     context.Context
}

func TestShellSuite(t *testing.T) {
	suite.Run(t, new(ShellSuite))
}

func (s *ShellSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.manager = s.newManager()
	s.ctx = context.Background()
}

// newManager simulates a server restart over the same storage
func (s *ShellSuite) newManager() *Manager {
	cfg := DefaultConfig()
	cfg.Auth.PasswordCost = bcrypt.MinCost
	return NewManager(s.storage, s.clock, cfg, testutil.NopLogger())
}

func (s *ShellSuite) signInGithub(sh *Shell, username string) {
	_, err := sh.ClaimGithubIdentity(s.ctx, auth.IdentityClaim{})
	s.Require().NoError(err)
	_, err = sh.CompleteGithubProfile(s.ctx, username, "a.png", prompt.Static("Knight"))
	s.Require().NoError(err)
}

func (s *ShellSuite) TestManagerReusesShell() {
	s.Same(s.manager.Shell("a"), s.manager.Shell("a"))
	s.NotSame(s.manager.Shell("a"), s.manager.Shell("b"))
	s.Equal(2, s.manager.Len())
}

func (s *ShellSuite) TestClientsAreIsolated() {
	alice := s.manager.Shell("a")
	bob := s.manager.Shell("b")

	_, err := alice.SignUpLocal(s.ctx, "alice", "pw", "Mage")
	s.Require().NoError(err)

	s.Equal(auth.PhaseAuthenticated, alice.Session(s.ctx).Phase)
	s.Equal(auth.PhaseUnauthenticated, bob.Session(s.ctx).Phase)
}

func (s *ShellSuite) TestRegistryIsSharedAcrossClients() {
	s.signInGithub(s.manager.Shell("a"), "hero")

	other := s.manager.Shell("b")
	_, err := other.ClaimGithubIdentity(s.ctx, auth.IdentityClaim{})
	s.Require().NoError(err)
	_, err = other.CompleteGithubProfile(s.ctx, "hero", "b.png", nil)
	s.ErrorIs(err, model.ErrUsernameTaken)
}

func (s *ShellSuite) TestMonsterVictoryMovesPlayer() {
	sh := s.manager.Shell("a")
	s.signInGithub(sh, "hero")

	move, err := sh.MoveTo(s.ctx, "cave")
	s.Require().NoError(err)
	s.Require().NotNil(move.Battle)

	var turn BattleTurn
	for range 3 {
		turn, err = sh.Attack(s.ctx)
		s.Require().NoError(err)
	}
	s.Equal(model.OutcomeVictory, turn.Outcome)
	s.Require().NotNil(turn.Position)
	s.Equal(model.Position{X: 1, Y: 1}, *turn.Position)

	_, pos, err := sh.Map(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.Position{X: 1, Y: 1}, pos)
}

func (s *ShellSuite) TestRetreatLeavesPosition() {
	sh := s.manager.Shell("a")
	s.signInGithub(sh, "hero")
	_, _ = sh.MoveTo(s.ctx, "forest")
	_, _ = sh.MoveTo(s.ctx, "cave")

	turn, err := sh.Retreat(s.ctx)
	s.Require().NoError(err)
	s.Nil(turn.Position)

	_, pos, _ := sh.Map(s.ctx)
	s.Equal(model.Position{X: 1, Y: 0}, pos)
}

func (s *ShellSuite) TestDuelVictoryDoesNotMove() {
	sh := s.manager.Shell("a")
	s.signInGithub(sh, "hero")
	_, err := sh.Duel(s.ctx, "Bob")
	s.Require().NoError(err)

	var turn BattleTurn
	for range 5 {
		turn, err = sh.Attack(s.ctx)
		s.Require().NoError(err)
	}
	s.Equal(model.OutcomeVictory, turn.Outcome)
	s.Nil(turn.Position)
}

func (s *ShellSuite) TestRestoreResumesSessionAndBattle() {
	sh := s.manager.Shell("a")
	s.signInGithub(sh, "hero")
	_, _ = sh.MoveTo(s.ctx, "tower")
	_, _ = sh.Attack(s.ctx)

	restarted := s.newManager().Shell("a")
	st, err := restarted.Restore(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(auth.PhaseAuthenticated, st.Phase)
	s.Equal("hero", st.Account.Username)

	battle, ok := restarted.Battle()
	s.Require().True(ok)
	s.Equal(86, battle.OpponentHealthPct)
}

func (s *ShellSuite) TestLogOutDropsBattle() {
	sh := s.manager.Shell("a")
	s.signInGithub(sh, "hero")
	_, _ = sh.Duel(s.ctx, "Alice")

	s.Require().NoError(sh.LogOut(s.ctx))
	_, ok := sh.Battle()
	s.False(ok)

	restarted := s.newManager().Shell("a")
	_, _ = restarted.Restore(s.ctx, nil)
	_, ok = restarted.Battle()
	s.False(ok)
}

func (s *ShellSuite) TestExpiredTestAccountDropsBattle() {
	sh := s.manager.Shell("a")
	_, err := sh.UnlockTestPortal(s.ctx, "test123")
	s.Require().NoError(err)
	_, err = sh.MoveTo(s.ctx, "cave")
	s.Require().NoError(err)

	s.clock.Advance(31 * 24 * time.Hour)
	_, err = sh.Attack(s.ctx)
	s.ErrorIs(err, model.ErrTestPortalExpired)

	_, ok := sh.Battle()
	s.False(ok)
	s.Equal(auth.PhaseUnauthenticated, sh.Session(s.ctx).Phase)
}

func (s *ShellSuite) TestSessionDropsExpiredTestAccount() {
	sh := s.manager.Shell("a")
	_, err := sh.UnlockTestPortal(s.ctx, "test123")
	s.Require().NoError(err)
	s.Equal(auth.PhaseAuthenticated, sh.Session(s.ctx).Phase)

	s.clock.Advance(31 * 24 * time.Hour)
	s.Equal(auth.PhaseUnauthenticated, sh.Session(s.ctx).Phase)
}

func (s *ShellSuite) TestSignInEndsPreviousBattle() {
	sh := s.manager.Shell("a")
	_, _ = sh.SignUpLocal(s.ctx, "alice", "pw", "Mage")
	_, _ = sh.MoveTo(s.ctx, "cave")

	_, err := sh.SignInLocal(s.ctx, "alice", "wrong")
	s.ErrorIs(err, model.ErrWrongPassword)
	_, ok := sh.Battle()
	s.True(ok)

	_, err = sh.UnlockTestPortal(s.ctx, "test123")
	s.Require().NoError(err)
	_, ok = sh.Battle()
	s.False(ok)
}

func (s *ShellSuite) TestLoadEndsBattle() {
	sh := s.manager.Shell("a")
	_, _ = sh.SignUpLocal(s.ctx, "alice", "pw", "Mage")
	_, _ = sh.MoveTo(s.ctx, "cave")

	_, err := sh.Load(s.ctx, []byte(`{"username":"bob","character":"Rogue","isGithub":false}`), nil)
	s.Require().NoError(err)

	_, ok := sh.Battle()
	s.False(ok)
	acc, _ := sh.Account(s.ctx)
	s.Equal("bob", acc.Username)
}

func (s *ShellSuite) TestEconomyFlow() {
	sh := s.manager.Shell("a")
	s.signInGithub(sh, "hero")

	reward, err := sh.ClaimDailyReward(s.ctx)
	s.Require().NoError(err)
	s.Equal(100, reward.Balance)

	s.clock.Advance(12 * time.Hour)
	_, err = sh.SetSubscription(s.ctx, true)
	s.Require().NoError(err)
	reward, err = sh.ClaimDailyReward(s.ctx)
	s.Require().NoError(err)
	s.Equal(300, reward.Balance)

	bought, err := sh.Purchase(s.ctx, "Fire Spell")
	s.Require().NoError(err)
	s.Equal(50, bought.Balance)

	eq, err := sh.Equip(s.ctx, 0, "1,1")
	s.Require().NoError(err)
	s.Equal("Fire Spell", eq.Item.Name)

	items, equipped, err := sh.Inventory(s.ctx)
	s.Require().NoError(err)
	s.Len(items, 1)
	s.Equal(eq, equipped)
}
