package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Record is the persisted and exported shape of an Account. Field names match
// the browser client's storage format so save files stay interchangeable.
type Record struct {
	Username         string            `json:"username"`
	Password         string            `json:"password,omitempty"`
	Character        string            `json:"character"`
	IsGithub         bool              `json:"isGithub"`
	IsTest           bool              `json:"isTest,omitempty"`
	Email            string            `json:"email,omitempty"`
	Coins            *int              `json:"coins,omitempty"`
	Position         *Position         `json:"position,omitempty"`
	LastReward       int64             `json:"lastReward,omitempty"`
	OfflineMode      *bool             `json:"offlineMode,omitempty"`
	Avatar           string            `json:"avatar,omitempty"`
	EquippedExercise *EquippedExercise `json:"equippedExercise,omitempty"`
	Plus             bool              `json:"plus,omitempty"`
	Expiry           int64             `json:"expiry,omitempty"`
	Inventory        []InventoryItem   `json:"inventory,omitempty"`
	CreatedAt        string            `json:"createdAt,omitempty"`
}

// RecordFromAccount converts an account to its persisted shape
func RecordFromAccount(a *Account) Record {
	coins := a.Wallet.Coins
	pos := a.Position
	rec := Record{
		Username:  a.Username,
		Password:  a.PasswordHash,
		Character: a.Character,
		Coins:     &coins,
		Position:  &pos,
		Avatar:    a.Avatar,
		Inventory: a.Inventory,
	}
	if a.Equipped != nil {
		eq := *a.Equipped
		rec.EquippedExercise = &eq
	}
	if a.Wallet.HasClaimedReward() {
		rec.LastReward = a.Wallet.LastRewardAt.UnixMilli()
	}
	if !a.CreatedAt.IsZero() {
		rec.CreatedAt = a.CreatedAt.UTC().Format(time.RFC3339Nano)
	}

	switch a.Mode {
	case ModeGithub:
		rec.IsGithub = true
		if a.Github != nil {
			offline := a.Github.OfflineMode
			rec.OfflineMode = &offline
			rec.Email = a.Github.Email
			rec.Plus = a.Github.Plus
		}
	case ModeTest:
		rec.IsTest = true
		if a.Test != nil {
			rec.Expiry = a.Test.ExpiresAt.UnixMilli()
		}
	}
	return rec
}

// Account converts a persisted record back to an Account. Absent optional
// fields take their defaults; the result is repaired before it is returned.
func (r Record) Account() (*Account, error) {
	if strings.TrimSpace(r.Username) == "" {
		return nil, fmt.Errorf("%w: username missing", ErrMalformedAccountState)
	}

	a := &Account{
		Username:     r.Username,
		PasswordHash: r.Password,
		Character:    r.Character,
		Avatar:       r.Avatar,
		Inventory:    r.Inventory,
	}
	if r.Coins != nil {
		a.Wallet.Coins = *r.Coins
	}
	if r.Position != nil {
		a.Position = *r.Position
	}
	if r.LastReward > 0 {
		a.Wallet.LastRewardAt = time.UnixMilli(r.LastReward).UTC()
	}
	if r.EquippedExercise != nil {
		eq := *r.EquippedExercise
		a.Equipped = &eq
	}
	if r.CreatedAt != "" {
		created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: createdAt: %v", ErrMalformedAccountState, err)
		}
		a.CreatedAt = created.UTC()
	}

	// GitHub takes precedence when both flags are set
	switch {
	case r.IsGithub:
		a.Mode = ModeGithub
		a.Github = &GithubProfile{Email: r.Email, Plus: r.Plus}
		if r.OfflineMode != nil {
			a.Github.OfflineMode = *r.OfflineMode
		}
	case r.IsTest:
		a.Mode = ModeTest
		a.Test = &TestPortalGrant{ExpiresAt: time.UnixMilli(r.Expiry).UTC()}
	default:
		a.Mode = ModeLocal
	}

	a.Repair()
	return a, nil
}

// EncodeAccount serializes an account as a JSON record
func EncodeAccount(a *Account) ([]byte, error) {
	return json.Marshal(RecordFromAccount(a))
}

// EncodeAccountIndent serializes an account as an indented JSON record
func EncodeAccountIndent(a *Account) ([]byte, error) {
	return json.MarshalIndent(RecordFromAccount(a), "", "  ")
}

// DecodeAccount parses a JSON record into an Account
func DecodeAccount(data []byte) (*Account, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return rec.Account()
}
