package shop

import (
	"context"
	"log/slog"

	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/services/auth"
	"github.com/mcoot/chirpygame/internal/services/economy"
)

// PurchaseResult is the outcome of a successful purchase
type PurchaseResult struct {
	Item      model.InventoryItem   `json:"item"`
	Balance   int                   `json:"balance"`
	Inventory []model.InventoryItem `json:"inventory"`
}

// Service sells catalog items to the active account
type Service struct {
	accounts *auth.Controller
	catalog  *Catalog
	logger   *slog.Logger
}

// NewService creates a new shop Service
func NewService(accounts *auth.Controller, catalog *Catalog, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		catalog:  catalog,
		logger:   logger,
	}
}

// Items returns the catalog
func (s *Service) Items() []model.ShopItem {
	return s.catalog.Items()
}

// Purchase buys an item by name. The debit and the inventory append are a
// single account mutation, so a failed purchase changes nothing.
func (s *Service) Purchase(ctx context.Context, name string) (PurchaseResult, error) {
	item, err := s.catalog.Lookup(name)
	if err != nil {
		return PurchaseResult{}, err
	}

	owned := item.NewInventoryItem()
	acc, err := s.accounts.Mutate(ctx, func(acc *model.Account) error {
		if err := economy.Debit(acc, item.Price); err != nil {
			return err
		}
		acc.Inventory = append(acc.Inventory, owned)
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}

	s.logger.Info("item purchased",
		slog.String("username", acc.Username),
		slog.String("item", item.Name),
		slog.Int("price", item.Price),
		slog.Int("balance", acc.Wallet.Coins),
	)

	return PurchaseResult{
		Item:      owned,
		Balance:   acc.Wallet.Coins,
		Inventory: acc.Inventory,
	}, nil
}
