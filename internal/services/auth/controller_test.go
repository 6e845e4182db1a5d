package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/chirpygame/internal/dependencies/mocks"
	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/storage"
	"github.com/mcoot/chirpygame/internal/storage/memory"
	"github.com/mcoot/chirpygame/internal/testutil"
)

var errPutFailed = errors.New("put failed")

// failingPuts rejects writes to one key
type failingPuts struct {
	storage.Storage
	failKey string
}

func (f *failingPuts) Put(ctx context.Context, lifetime storage.Lifetime, key string, data []byte) error {
	if key == f.failKey {
		return errPutFailed
	}
	return f.Storage.Put(ctx, lifetime, key, data)
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	registry   *Registry
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.registry = NewRegistry(s.storage, testutil.NopLogger())
	s.controller = s.newController()
	s.ctx = context.Background()
}

// newController simulates a fresh process over the same storage
func (s *ControllerSuite) newController() *Controller {
	cfg := DefaultConfig()
	cfg.PasswordCost = bcrypt.MinCost
	return New(s.storage, s.registry, s.clock, cfg, testutil.NopLogger())
}

func (s *ControllerSuite) storedAccount(lifetime storage.Lifetime, key string) *model.Account {
	data, err := s.storage.Get(s.ctx, lifetime, key)
	s.Require().NoError(err)
	acc, err := model.DecodeAccount(data)
	s.Require().NoError(err)
	return acc
}

func (s *ControllerSuite) signInGithub(username string, prompter *mocks.MockPrompter) *model.Account {
	_, err := s.controller.ClaimGithubIdentity(s.ctx, IdentityClaim{Code: "ok"})
	s.Require().NoError(err)
	acc, err := s.controller.CompleteGithubProfile(s.ctx, username, "knight.png", prompter)
	s.Require().NoError(err)
	return acc
}

// Local accounts

func (s *ControllerSuite) TestSignUpLocalAuthenticates() {
	acc, err := s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")
	s.Require().NoError(err)

	s.Equal(PhaseAuthenticated, s.controller.Phase())
	s.Equal(model.ModeLocal, acc.Mode)
	s.Equal("alice", acc.Username)
	s.Equal("Mage", acc.Character)
	s.Equal(0, acc.Wallet.Coins)
	s.Equal(model.Position{}, acc.Position)
	s.Equal(s.clock.Now(), acc.CreatedAt)
}

func (s *ControllerSuite) TestSignUpLocalHashesPassword() {
	_, err := s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")
	s.Require().NoError(err)

	stored := s.storedAccount(storage.Durable, storage.LocalAccountKey("alice"))
	s.NotEqual("pw", stored.PasswordHash)
	s.True(strings.HasPrefix(stored.PasswordHash, "$2"))
}

func (s *ControllerSuite) TestSignUpLocalPersistsActiveRecord() {
	_, err := s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")
	s.Require().NoError(err)

	stored := s.storedAccount(storage.Durable, storage.KeyUserData)
	s.Equal("alice", stored.Username)
}

func (s *ControllerSuite) TestSignUpLocalRequiresUsernameAndCharacter() {
	_, err := s.controller.SignUpLocal(s.ctx, "  ", "pw", "Mage")
	s.ErrorIs(err, model.ErrUsernameRequired)
	s.ErrorIs(err, model.ErrValidation)

	_, err = s.controller.SignUpLocal(s.ctx, "alice", "pw", "")
	s.ErrorIs(err, model.ErrCharacterRequired)

	s.Equal(PhaseUnauthenticated, s.controller.Phase())
}

func (s *ControllerSuite) TestSignInLocalSucceeds() {
	_, _ = s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")
	s.Require().NoError(s.controller.LogOut(s.ctx))

	acc, err := s.controller.SignInLocal(s.ctx, "alice", "pw")
	s.Require().NoError(err)
	s.Equal("alice", acc.Username)
	s.Equal("Mage", acc.Character)
	s.Equal(PhaseAuthenticated, s.controller.Phase())
}

func (s *ControllerSuite) TestSignInLocalWrongPassword() {
	_, _ = s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")
	_ = s.controller.LogOut(s.ctx)

	_, err := s.controller.SignInLocal(s.ctx, "alice", "nope")
	s.ErrorIs(err, model.ErrWrongPassword)
	s.ErrorIs(err, model.ErrAuth)
	s.Equal(PhaseUnauthenticated, s.controller.Phase())
}

func (s *ControllerSuite) TestSignInLocalUnknownAccount() {
	_, err := s.controller.SignInLocal(s.ctx, "nobody", "pw")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *ControllerSuite) TestSignInLocalWithoutPasswordAcceptsAnything() {
	_, _ = s.controller.SignUpLocal(s.ctx, "alice", "", "Mage")
	_ = s.controller.LogOut(s.ctx)

	_, err := s.controller.SignInLocal(s.ctx, "alice", "whatever")
	s.NoError(err)
}

func (s *ControllerSuite) TestSignInLocalAcceptsLegacyPlaintextPassword() {
	raw := `{"username":"bob","password":"secret","character":"Rogue","isGithub":false,"coins":40}`
	s.Require().NoError(s.storage.Put(s.ctx, storage.Durable, storage.LocalAccountKey("bob"), []byte(raw)))

	acc, err := s.controller.SignInLocal(s.ctx, "bob", "secret")
	s.Require().NoError(err)
	s.Equal(40, acc.Wallet.Coins)

	_ = s.controller.LogOut(s.ctx)
	_, err = s.controller.SignInLocal(s.ctx, "bob", "Secret")
	s.ErrorIs(err, model.ErrWrongPassword)
}

func (s *ControllerSuite) TestLocalProgressSurvivesSignOut() {
	_, _ = s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")
	_, err := s.controller.Mutate(s.ctx, func(acc *model.Account) error {
		acc.Wallet.Coins = 75
		return nil
	})
	s.Require().NoError(err)
	_ = s.controller.LogOut(s.ctx)

	acc, err := s.controller.SignInLocal(s.ctx, "alice", "pw")
	s.Require().NoError(err)
	s.Equal(75, acc.Wallet.Coins)
}

func (s *ControllerSuite) TestUpdatePassword() {
	_, _ = s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")

	_, err := s.controller.UpdatePassword(s.ctx, "new")
	s.Require().NoError(err)
	_ = s.controller.LogOut(s.ctx)

	_, err = s.controller.SignInLocal(s.ctx, "alice", "pw")
	s.ErrorIs(err, model.ErrWrongPassword)
	_, err = s.controller.SignInLocal(s.ctx, "alice", "new")
	s.NoError(err)
}

func (s *ControllerSuite) TestUpdatePasswordRejectsGithubAndEmpty() {
	_, _ = s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")
	_, err := s.controller.UpdatePassword(s.ctx, "")
	s.ErrorIs(err, model.ErrPasswordRequired)

	_ = s.controller.LogOut(s.ctx)
	s.signInGithub("hero", mocks.NewMockPrompter("Knight"))
	_, err = s.controller.UpdatePassword(s.ctx, "new")
	s.ErrorIs(err, model.ErrNotForGithub)
}

func (s *ControllerSuite) TestDeleteAccountRemovesCredentialRecord() {
	_, _ = s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")

	s.Require().NoError(s.controller.DeleteAccount(s.ctx))
	s.Equal(PhaseUnauthenticated, s.controller.Phase())

	_, err := s.controller.SignInLocal(s.ctx, "alice", "pw")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *ControllerSuite) TestDeleteAccountRequiresSession() {
	err := s.controller.DeleteAccount(s.ctx)
	s.ErrorIs(err, model.ErrNotAuthenticated)
}

// GitHub accounts

func (s *ControllerSuite) TestClaimGithubIdentityIsPending() {
	acc, err := s.controller.ClaimGithubIdentity(s.ctx, IdentityClaim{Code: "ok"})
	s.Require().NoError(err)

	s.Equal(PhaseGithubProfilePending, s.controller.Phase())
	s.Equal(model.ModeGithub, acc.Mode)
	s.Equal("GitHubUser", acc.Username)
	s.Equal("githubuser@example.com", acc.Github.Email)
	s.False(acc.Github.OfflineMode)

	_, err = s.controller.Active(s.ctx)
	s.ErrorIs(err, model.ErrProfilePending)
}

func (s *ControllerSuite) TestClaimGithubIdentityRejectsRegisteredPlaceholder() {
	s.Require().NoError(s.registry.Claim(s.ctx, "GitHubUser"))

	_, err := s.controller.ClaimGithubIdentity(s.ctx, IdentityClaim{})
	s.ErrorIs(err, model.ErrUsernameTaken)
	s.Equal(PhaseUnauthenticated, s.controller.Phase())
}

func (s *ControllerSuite) TestCompleteGithubProfile() {
	prompter := mocks.NewMockPrompter("Knight")
	acc := s.signInGithub("hero", prompter)

	s.Equal(PhaseAuthenticated, s.controller.Phase())
	s.Equal("hero", acc.Username)
	s.Equal("knight.png", acc.Avatar)
	s.Equal("Knight", acc.Character)
	s.Equal(1, prompter.Calls)

	ok, err := s.registry.Contains(s.ctx, "hero")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *ControllerSuite) TestCompleteGithubProfileDefaultsCharacter() {
	acc := s.signInGithub("hero", mocks.NewMockPrompter())
	s.Equal("DefaultHero", acc.Character)
}

func (s *ControllerSuite) TestCompleteGithubProfileDefaultsCharacterOnPromptError() {
	prompter := mocks.NewMockPrompter()
	prompter.Err = errors.New("closed")

	acc := s.signInGithub("hero", prompter)
	s.Equal("DefaultHero", acc.Character)
}

func (s *ControllerSuite) TestCompleteGithubProfileRejectsTakenUsername() {
	s.Require().NoError(s.registry.Claim(s.ctx, "hero"))
	_, _ = s.controller.ClaimGithubIdentity(s.ctx, IdentityClaim{})

	_, err := s.controller.CompleteGithubProfile(s.ctx, "hero", "a.png", nil)
	s.ErrorIs(err, model.ErrUsernameTaken)
	s.ErrorIs(err, model.ErrConflict)
	s.Equal(PhaseGithubProfilePending, s.controller.Phase())
}

func (s *ControllerSuite) TestCompleteGithubProfileValidates() {
	_, _ = s.controller.ClaimGithubIdentity(s.ctx, IdentityClaim{})

	_, err := s.controller.CompleteGithubProfile(s.ctx, "", "a.png", nil)
	s.ErrorIs(err, model.ErrUsernameRequired)
	_, err = s.controller.CompleteGithubProfile(s.ctx, "hero", " ", nil)
	s.ErrorIs(err, model.ErrAvatarRequired)
	s.Equal(PhaseGithubProfilePending, s.controller.Phase())
}

func (s *ControllerSuite) TestCompleteGithubProfileRequiresPendingSession() {
	_, err := s.controller.CompleteGithubProfile(s.ctx, "hero", "a.png", nil)
	s.ErrorIs(err, model.ErrNoProfilePending)
}

// Test portal

func (s *ControllerSuite) TestUnlockTestPortalWithoutAccount() {
	acc, err := s.controller.UnlockTestPortal(s.ctx, "test123")
	s.Require().NoError(err)

	s.Equal(model.ModeTest, acc.Mode)
	s.Equal("TestUser", acc.Username)
	s.Equal(s.clock.Now().Add(30*24*time.Hour), acc.Test.ExpiresAt)
	s.Equal(PhaseAuthenticated, s.controller.Phase())
}

func (s *ControllerSuite) TestUnlockTestPortalCarriesProgress() {
	_, _ = s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")
	_, _ = s.controller.Mutate(s.ctx, func(acc *model.Account) error {
		acc.Wallet.Coins = 30
		return nil
	})

	acc, err := s.controller.UnlockTestPortal(s.ctx, "test123")
	s.Require().NoError(err)
	s.Equal("alice", acc.Username)
	s.Equal(30, acc.Wallet.Coins)
	s.True(acc.IsTest())
	s.Nil(acc.Github)
}

func (s *ControllerSuite) TestUnlockTestPortalWrongSecret() {
	_, err := s.controller.UnlockTestPortal(s.ctx, "guess")
	s.ErrorIs(err, model.ErrWrongTestSecret)
	s.Equal(PhaseUnauthenticated, s.controller.Phase())
}

func (s *ControllerSuite) TestExpiredTestAccountIsPurgedOnAccess() {
	_, _ = s.controller.UnlockTestPortal(s.ctx, "test123")
	s.clock.Advance(31 * 24 * time.Hour)

	_, err := s.controller.Active(s.ctx)
	s.ErrorIs(err, model.ErrTestPortalExpired)
	s.Equal(PhaseUnauthenticated, s.controller.Phase())

	_, err = s.storage.Get(s.ctx, storage.Durable, storage.KeyUserData)
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *ControllerSuite) TestTestAccountValidUntilExpiry() {
	_, _ = s.controller.UnlockTestPortal(s.ctx, "test123")
	s.clock.Advance(30 * 24 * time.Hour)

	_, err := s.controller.Active(s.ctx)
	s.NoError(err)
}

// Session restore

func (s *ControllerSuite) TestRestoreSessionWithNothingStored() {
	st, err := s.controller.RestoreSession(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(PhaseUnauthenticated, st.Phase)
	s.Nil(st.Account)
}

func (s *ControllerSuite) TestRestoreSessionResumesAccount() {
	_, _ = s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")

	restored := s.newController()
	st, err := restored.RestoreSession(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(PhaseAuthenticated, st.Phase)
	s.Equal("alice", st.Account.Username)
}

func (s *ControllerSuite) TestRestoreSessionIgnoresMalformedRecord() {
	s.Require().NoError(s.storage.Put(s.ctx, storage.Durable, storage.KeyUserData, []byte("{not json")))

	st, err := s.controller.RestoreSession(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(PhaseUnauthenticated, st.Phase)
}

func (s *ControllerSuite) TestRestoreSessionRepairsRecord() {
	raw := `{"username":"alice","character":"Mage","isGithub":false,"coins":-20}`
	s.Require().NoError(s.storage.Put(s.ctx, storage.Durable, storage.KeyUserData, []byte(raw)))

	st, err := s.controller.RestoreSession(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(0, st.Account.Wallet.Coins)
	s.Equal(model.Position{}, st.Account.Position)

	stored := s.storedAccount(storage.Durable, storage.KeyUserData)
	s.Equal(0, stored.Wallet.Coins)
}

func (s *ControllerSuite) TestRestoreSessionPurgesExpiredTestAccount() {
	_, _ = s.controller.UnlockTestPortal(s.ctx, "test123")
	s.clock.Advance(31 * 24 * time.Hour)

	restored := s.newController()
	st, err := restored.RestoreSession(s.ctx, nil)
	s.ErrorIs(err, model.ErrTestPortalExpired)
	s.Equal(PhaseUnauthenticated, st.Phase)

	_, err = s.storage.Get(s.ctx, storage.Durable, storage.KeyUserData)
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *ControllerSuite) TestRestoreSessionUnregisteredGithubIsPending() {
	_, _ = s.controller.ClaimGithubIdentity(s.ctx, IdentityClaim{})

	restored := s.newController()
	st, err := restored.RestoreSession(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(PhaseGithubProfilePending, st.Phase)
}

func (s *ControllerSuite) TestRestoreSessionPromptsForMissingCharacter() {
	raw := `{"username":"hero","character":"","isGithub":true,"email":"h@example.com"}`
	s.Require().NoError(s.registry.Claim(s.ctx, "hero"))
	s.Require().NoError(s.storage.Put(s.ctx, storage.Durable, storage.KeyUserData, []byte(raw)))

	prompter := mocks.NewMockPrompter("Paladin")
	st, err := s.controller.RestoreSession(s.ctx, prompter)
	s.Require().NoError(err)
	s.Equal(PhaseAuthenticated, st.Phase)
	s.Equal("Paladin", st.Account.Character)
	s.Equal(1, prompter.Calls)
}

func (s *ControllerSuite) TestRestoreSessionDoesNotPromptWhenCharacterSet() {
	prompter := mocks.NewMockPrompter("Knight")
	s.signInGithub("hero", prompter)

	restored := s.newController()
	_, err := restored.RestoreSession(s.ctx, prompter)
	s.Require().NoError(err)
	s.Equal(1, prompter.Calls)
}

// Adopt

func (s *ControllerSuite) TestAdoptReplacesSession() {
	_, _ = s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")

	st, err := s.controller.Adopt(s.ctx, &model.Account{
		Mode:      model.ModeLocal,
		Username:  "bob",
		Character: "Rogue",
		Wallet:    model.Wallet{Coins: -3},
	}, nil)
	s.Require().NoError(err)
	s.Equal("bob", st.Account.Username)
	s.Equal(0, st.Account.Wallet.Coins)
}

func (s *ControllerSuite) TestAdoptRejectsExpiredTestAccount() {
	_, _ = s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")

	_, err := s.controller.Adopt(s.ctx, &model.Account{
		Mode:     model.ModeTest,
		Username: "old",
		Test:     &model.TestPortalGrant{ExpiresAt: s.clock.Now().Add(-time.Hour)},
	}, nil)
	s.ErrorIs(err, model.ErrTestPortalExpired)

	acc, err := s.controller.Active(s.ctx)
	s.Require().NoError(err)
	s.Equal("alice", acc.Username)
}

func (s *ControllerSuite) TestCompleteProfileReleasesNameWhenSaveFails() {
	store := &failingPuts{Storage: s.storage}
	cfg := DefaultConfig()
	cfg.PasswordCost = bcrypt.MinCost
	controller := New(store, s.registry, s.clock, cfg, testutil.NopLogger())

	_, err := controller.ClaimGithubIdentity(s.ctx, IdentityClaim{Code: "ok"})
	s.Require().NoError(err)

	store.failKey = storage.KeyUserData
	_, err = controller.CompleteGithubProfile(s.ctx, "hero", "knight.png", nil)
	s.ErrorIs(err, errPutFailed)
	s.Equal(PhaseGithubProfilePending, controller.Phase())

	claimed, err := s.registry.Contains(s.ctx, "hero")
	s.Require().NoError(err)
	s.False(claimed)

	store.failKey = ""
	acc, err := controller.CompleteGithubProfile(s.ctx, "hero", "knight.png", nil)
	s.Require().NoError(err)
	s.Equal("hero", acc.Username)
}

func (s *ControllerSuite) TestCurrentLogsOutExpiredTestAccount() {
	_, err := s.controller.UnlockTestPortal(s.ctx, "test123")
	s.Require().NoError(err)
	s.Equal(PhaseAuthenticated, s.controller.Current(s.ctx).Phase)

	s.clock.Advance(31 * 24 * time.Hour)
	st := s.controller.Current(s.ctx)
	s.Equal(PhaseUnauthenticated, st.Phase)
	s.Nil(st.Account)

	_, err = s.storage.Get(s.ctx, storage.Durable, storage.KeyUserData)
	s.ErrorIs(err, storage.ErrNotFound)
}

// Mutate and log out

func (s *ControllerSuite) TestMutateFailureLeavesAccountUnchanged() {
	_, _ = s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")
	boom := errors.New("boom")

	_, err := s.controller.Mutate(s.ctx, func(acc *model.Account) error {
		acc.Wallet.Coins = 1000
		return boom
	})
	s.ErrorIs(err, boom)

	acc, _ := s.controller.Active(s.ctx)
	s.Equal(0, acc.Wallet.Coins)
	s.Equal(0, s.storedAccount(storage.Durable, storage.KeyUserData).Wallet.Coins)
}

func (s *ControllerSuite) TestMutateRequiresSession() {
	_, err := s.controller.Mutate(s.ctx, func(*model.Account) error { return nil })
	s.ErrorIs(err, model.ErrNotAuthenticated)
}

func (s *ControllerSuite) TestSnapshotIsACopy() {
	_, _ = s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")

	st := s.controller.Snapshot()
	st.Account.Wallet.Coins = 500

	acc, _ := s.controller.Active(s.ctx)
	s.Equal(0, acc.Wallet.Coins)
}

func (s *ControllerSuite) TestLogOutClearsSession() {
	_, _ = s.controller.SignUpLocal(s.ctx, "alice", "pw", "Mage")
	s.Require().NoError(s.storage.Put(s.ctx, storage.Ephemeral, storage.KeyBattleState, []byte("{}")))

	s.Require().NoError(s.controller.LogOut(s.ctx))
	s.Equal(PhaseUnauthenticated, s.controller.Phase())

	_, err := s.storage.Get(s.ctx, storage.Durable, storage.KeyUserData)
	s.ErrorIs(err, storage.ErrNotFound)
	s.Equal(0, s.storage.Len(storage.Ephemeral))

	// The credential record is kept for the next sign-in
	_, err = s.storage.Get(s.ctx, storage.Durable, storage.LocalAccountKey("alice"))
	s.NoError(err)
}

func (s *ControllerSuite) TestLogOutIsIdempotent() {
	s.NoError(s.controller.LogOut(s.ctx))
	s.NoError(s.controller.LogOut(s.ctx))
	s.Equal(PhaseUnauthenticated, s.controller.Phase())
}
