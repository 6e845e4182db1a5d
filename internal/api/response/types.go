package response

import (
	"time"

	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/services/auth"
	"github.com/mcoot/chirpygame/internal/services/social"
)

// Account represents an account in API responses. It never carries the
// password hash.
type Account struct {
	Username    string                  `json:"username"`
	Mode        string                  `json:"mode"`
	Character   string                  `json:"character"`
	Avatar      string                  `json:"avatar,omitempty"`
	Email       string                  `json:"email,omitempty"`
	Coins       int                     `json:"coins"`
	Position    model.Position          `json:"position"`
	Inventory   []model.InventoryItem   `json:"inventory"`
	Equipped    *model.EquippedExercise `json:"equipped,omitempty"`
	OfflineMode bool                    `json:"offlineMode"`
	Plus        bool                    `json:"plus"`
	HasPassword bool                    `json:"hasPassword"`
	LastReward  *time.Time              `json:"lastReward,omitempty"`
	ExpiresAt   *time.Time              `json:"expiresAt,omitempty"`
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) *Account {
	if a == nil {
		return nil
	}
	resp := &Account{
		Username:    a.Username,
		Mode:        string(a.Mode),
		Character:   a.Character,
		Avatar:      a.Avatar,
		Coins:       a.Wallet.Coins,
		Position:    a.Position,
		Inventory:   a.Inventory,
		Equipped:    a.Equipped,
		OfflineMode: a.OfflineMode(),
		Plus:        a.SubscriptionActive(),
		HasPassword: a.HasPassword(),
	}
	if resp.Inventory == nil {
		resp.Inventory = []model.InventoryItem{}
	}
	if a.Wallet.HasClaimedReward() {
		t := a.Wallet.LastRewardAt
		resp.LastReward = &t
	}
	if a.IsGithub() {
		resp.Email = a.Github.Email
	}
	if a.IsTest() {
		t := a.Test.ExpiresAt
		resp.ExpiresAt = &t
	}
	return resp
}

// Session represents the session state
type Session struct {
	Phase   string   `json:"phase"`
	Account *Account `json:"account,omitempty"`
}

// SessionFromState converts an auth.State
func SessionFromState(st auth.State) Session {
	return Session{
		Phase:   string(st.Phase),
		Account: AccountFromModel(st.Account),
	}
}

// Client is the response for issuing a client id
type Client struct {
	ClientID string `json:"clientId"`
}

// Inventory represents owned items and the equipped binding
type Inventory struct {
	Items    []model.InventoryItem   `json:"items"`
	Equipped *model.EquippedExercise `json:"equipped,omitempty"`
}

// Map represents the world map and the player's position
type Map struct {
	Cells    []model.Cell   `json:"cells"`
	Position model.Position `json:"position"`
}

// Battle represents the battle state
type Battle struct {
	Active bool               `json:"active"`
	State  *model.BattleState `json:"state,omitempty"`
}

// Friends represents the friend list
type Friends struct {
	Friends []social.Friend `json:"friends"`
}

// Offline is the response after toggling offline mode
type Offline struct {
	OfflineMode bool `json:"offlineMode"`
}
