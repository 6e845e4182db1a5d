package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chirpygame/internal/dependencies/prompt"
	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/services/auth"
	"github.com/mcoot/chirpygame/internal/storage"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: a GitHub player from first sign-in through a won monster battle
func (s *IntegrationSuite) TestCompleteGithubAdventure() {
	sh := s.app.Shells.Shell("player")

	// Step 1: Claim the identity and finish the profile
	acc, err := sh.ClaimGithubIdentity(s.ctx, auth.IdentityClaim{Code: "abc"})
	s.Require().NoError(err)
	s.Equal(model.ModeGithub, acc.Mode)
	s.Equal(auth.PhaseGithubProfilePending, sh.Session(s.ctx).Phase)

	_, err = sh.CompleteGithubProfile(s.ctx, "hero", "hero.png", prompt.Static("Knight"))
	s.Require().NoError(err)
	s.Equal(auth.PhaseAuthenticated, sh.Session(s.ctx).Phase)

	// Step 2: Collect two rewards and buy a spell
	_, err = sh.ClaimDailyReward(s.ctx)
	s.Require().NoError(err)
	s.app.MockClock.Advance(12 * time.Hour)
	_, err = sh.ClaimDailyReward(s.ctx)
	s.Require().NoError(err)
	s.app.MockClock.Advance(12 * time.Hour)
	reward, err := sh.ClaimDailyReward(s.ctx)
	s.Require().NoError(err)
	s.Equal(300, reward.Balance)

	bought, err := sh.Purchase(s.ctx, "Lightning Spell")
	s.Require().NoError(err)
	s.Equal(0, bought.Balance)

	// Step 3: Walk to the cave and win the encounter
	move, err := sh.MoveTo(s.ctx, "forest")
	s.Require().NoError(err)
	s.True(move.Moved)

	move, err = sh.MoveTo(s.ctx, "cave")
	s.Require().NoError(err)
	s.False(move.Moved)
	s.Require().NotNil(move.Battle)

	for {
		turn, err := sh.Attack(s.ctx)
		s.Require().NoError(err)
		if turn.Outcome != model.OutcomeNone {
			s.Equal(model.OutcomeVictory, turn.Outcome)
			break
		}
	}

	// Step 4: The account survives a restart with its progress
	restarted := NewTestAppWithStorage(s.app.Memory, s.app.MockClock)
	st, err := restarted.Shells.Shell("player").Restore(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(auth.PhaseAuthenticated, st.Phase)
	s.Equal(model.Position{X: 1, Y: 1}, st.Account.Position)
	s.Len(st.Account.Inventory, 1)
}

// Test: a local account exported by one client and loaded by another
func (s *IntegrationSuite) TestSaveFileMovesBetweenClients() {
	alice := s.app.Shells.Shell("alice-laptop")
	_, err := alice.SignUpLocal(s.ctx, "alice", "secret", "Mage")
	s.Require().NoError(err)
	_, err = alice.MoveTo(s.ctx, "lake")
	s.Require().NoError(err)

	file, err := alice.Export(s.ctx)
	s.Require().NoError(err)
	s.Equal("alice_save.json", file.Filename)

	phone := s.app.Shells.Shell("alice-phone")
	st, err := phone.Load(s.ctx, file.Data, nil)
	s.Require().NoError(err)
	s.Equal("alice", st.Account.Username)
	s.Equal(model.Position{X: 0, Y: 1}, st.Account.Position)

	// The loaded account keeps its password
	s.Require().NoError(phone.LogOut(s.ctx))
	_, err = phone.SignInLocal(s.ctx, "alice", "secret")
	s.Require().NoError(err)
}

// Test: clients never see each other's session keys
func (s *IntegrationSuite) TestClientStorageIsNamespaced() {
	_, err := s.app.Shells.Shell("a").SignUpLocal(s.ctx, "alice", "pw", "Mage")
	s.Require().NoError(err)

	_, err = s.app.Storage.Get(s.ctx, storage.Durable, storage.KeyUserData)
	s.ErrorIs(err, storage.ErrNotFound)

	_, err = s.app.Storage.Get(s.ctx, storage.Durable, "client:a:"+storage.KeyUserData)
	s.NoError(err)
}

// Test: a local username shaped like a key cannot overwrite another client's session
func (s *IntegrationSuite) TestLocalUsernameCannotReachAnotherClient() {
	_, err := s.app.Shells.Shell("a:normalUser:x").SignUpLocal(s.ctx, "victim", "pw", "Mage")
	s.Require().NoError(err)
	_, err = s.app.Shells.Shell("a").SignUpLocal(s.ctx, "x:userData", "pw", "Rogue")
	s.Require().NoError(err)

	restarted := NewTestAppWithStorage(s.app.Memory, s.app.MockClock)
	st, err := restarted.Shells.Shell("a:normalUser:x").Restore(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().NotNil(st.Account)
	s.Equal("victim", st.Account.Username)
}

func (s *IntegrationSuite) TestNewRejectsBadStorage() {
	_, err := New(Config{StorageType: "disk"})
	s.Error(err)

	_, err = New(Config{StorageType: "redis"})
	s.Error(err)

	app, err := New(Config{})
	s.Require().NoError(err)
	s.NoError(app.Close())
}
