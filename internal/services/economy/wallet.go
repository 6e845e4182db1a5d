package economy

import (
	"errors"
	"time"

	"github.com/mcoot/chirpygame/internal/model"
)

// errDenied aborts a reward mutation without surfacing an error
var errDenied = errors.New("reward not yet available")

// Credit adds amount to the account's wallet
func Credit(acc *model.Account, amount int) error {
	if amount < 0 {
		return model.ErrNegativeAmount
	}
	acc.Wallet.Coins += amount
	return nil
}

// Debit removes amount from the account's wallet. The wallet is untouched
// if it holds less than amount.
func Debit(acc *model.Account, amount int) error {
	if amount < 0 {
		return model.ErrNegativeAmount
	}
	if acc.Wallet.Coins < amount {
		return model.ErrInsufficientFunds
	}
	acc.Wallet.Coins -= amount
	return nil
}

// waitMinutes rounds a remaining duration up to whole minutes
func waitMinutes(remaining time.Duration) int {
	return int((remaining + time.Minute - 1) / time.Minute)
}
