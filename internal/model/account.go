package model

import (
	"slices"
	"time"
)

// Mode is the authentication path an account was created through.
// It is fixed at creation.
type Mode string

const (
	ModeGithub Mode = "github"
	ModeLocal  Mode = "local"
	ModeTest   Mode = "test"
)

// TimePrecision is the resolution reward and expiry times are persisted at
const TimePrecision = time.Millisecond

// Position is a player's location on the world map
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Wallet holds an account's currency and daily reward cooldown
type Wallet struct {
	Coins int
	// LastRewardAt is zero when no reward has ever been granted
	LastRewardAt time.Time
}

// HasClaimedReward reports whether a daily reward was ever granted
func (w Wallet) HasClaimedReward() bool {
	return !w.LastRewardAt.IsZero()
}

// GithubProfile is the payload carried only by GitHub-mode accounts
type GithubProfile struct {
	Email       string
	OfflineMode bool
	// Plus is the subscription flag; it doubles rewards and battle damage
	Plus bool
}

// TestPortalGrant is the payload carried only by Test-mode accounts
type TestPortalGrant struct {
	ExpiresAt time.Time
}

// Expired reports whether the grant has lapsed at the given instant
func (g TestPortalGrant) Expired(now time.Time) bool {
	return now.After(g.ExpiresAt)
}

// InventoryItem is a purchased shop item
type InventoryItem struct {
	Name   string `json:"name"`
	Price  int    `json:"price"`
	Damage int    `json:"damage,omitempty"`
}

// EquippedExercise binds an inventory item to a world coordinate
type EquippedExercise struct {
	Item       InventoryItem `json:"item"`
	Coordinate string        `json:"coordinate"`
}

// Account is the full state of one player. Mode-specific data lives in
// exactly one of Github or Test, matching Mode; Local accounts carry neither.
type Account struct {
	Mode         Mode
	Username     string
	PasswordHash string
	Character    string
	Avatar       string
	CreatedAt    time.Time

	Wallet    Wallet
	Position  Position
	Inventory []InventoryItem
	Equipped  *EquippedExercise

	Github *GithubProfile
	Test   *TestPortalGrant
}

// IsGithub reports whether this is a GitHub-mode account
func (a *Account) IsGithub() bool {
	return a.Mode == ModeGithub && a.Github != nil
}

// IsTest reports whether this is a Test-mode account
func (a *Account) IsTest() bool {
	return a.Mode == ModeTest && a.Test != nil
}

// SubscriptionActive reports whether the subscription bonus applies.
// Only GitHub accounts can hold a subscription.
func (a *Account) SubscriptionActive() bool {
	return a.IsGithub() && a.Github.Plus
}

// OfflineMode reports whether social features are disabled
func (a *Account) OfflineMode() bool {
	return a.IsGithub() && a.Github.OfflineMode
}

// HasPassword reports whether sign-in requires a password
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// Clone returns a deep copy of the account
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	c.Inventory = slices.Clone(a.Inventory)
	if a.Equipped != nil {
		eq := *a.Equipped
		c.Equipped = &eq
	}
	if a.Github != nil {
		gh := *a.Github
		c.Github = &gh
	}
	if a.Test != nil {
		t := *a.Test
		c.Test = &t
	}
	return &c
}

// TruncateTimes rounds the persisted timestamps down to TimePrecision, so
// the account in memory matches the record written for it
func (a *Account) TruncateTimes() {
	a.Wallet.LastRewardAt = a.Wallet.LastRewardAt.Truncate(TimePrecision)
	if a.Test != nil {
		a.Test.ExpiresAt = a.Test.ExpiresAt.Truncate(TimePrecision)
	}
}

// Repair restores the invariants a persisted record may have lost.
// It returns true if anything changed.
func (a *Account) Repair() bool {
	changed := false
	if a.Wallet.Coins < 0 {
		a.Wallet.Coins = 0
		changed = true
	}
	if a.Mode == ModeGithub && a.Github == nil {
		a.Github = &GithubProfile{}
		changed = true
	}
	if a.Mode == ModeTest && a.Test == nil {
		// A test account without a grant has nothing to keep it alive
		a.Test = &TestPortalGrant{}
		changed = true
	}
	return changed
}
