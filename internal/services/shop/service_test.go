package shop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/chirpygame/internal/dependencies/mocks"
	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/services/auth"
	"github.com/mcoot/chirpygame/internal/services/economy"
	"github.com/mcoot/chirpygame/internal/storage/memory"
	"github.com/mcoot/chirpygame/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	accounts *auth.Controller
	ledger   *economy.Ledger
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
	s.ledger = economy.New(s.accounts, clk, economy.DefaultConfig(), logger)
	s.service = NewService(s.accounts, DefaultCatalog(), logger)
	s.ctx = context.Background()

	_, err := s.accounts.SignUpLocal(s.ctx, "alice", "pw", "Mage")
	s.Require().NoError(err)
}

func (s *ServiceSuite) fund(coins int) {
	_, err := s.ledger.Credit(s.ctx, coins)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestItemsListsCatalog() {
	items := s.service.Items()
	s.Len(items, 3)
	s.Equal(model.ShopItem{Name: "Fire Spell", Price: 250, Damage: 20}, items[0])
}

func (s *ServiceSuite) TestItemsIsACopy() {
	items := s.service.Items()
	items[0].Price = 1

	s.Equal(250, s.service.Items()[0].Price)
}

func (s *ServiceSuite) TestPurchaseSucceeds() {
	s.fund(300)

	result, err := s.service.Purchase(s.ctx, "Ice Spell")
	s.Require().NoError(err)
	s.Equal(100, result.Balance)
	s.Equal("Ice Spell", result.Item.Name)
	s.Len(result.Inventory, 1)

	acc, _ := s.accounts.Active(s.ctx)
	s.Equal(100, acc.Wallet.Coins)
	s.Equal([]model.InventoryItem{{Name: "Ice Spell", Price: 200, Damage: 15}}, acc.Inventory)
}

func (s *ServiceSuite) TestPurchaseWithExactBalance() {
	s.fund(250)

	result, err := s.service.Purchase(s.ctx, "Fire Spell")
	s.Require().NoError(err)
	s.Equal(0, result.Balance)
}

func (s *ServiceSuite) TestPurchaseInsufficientFundsChangesNothing() {
	s.fund(299)

	_, err := s.service.Purchase(s.ctx, "Lightning Spell")
	s.ErrorIs(err, model.ErrInsufficientFunds)

	acc, _ := s.accounts.Active(s.ctx)
	s.Equal(299, acc.Wallet.Coins)
	s.Empty(acc.Inventory)
}

func (s *ServiceSuite) TestPurchaseUnknownItem() {
	s.fund(1000)

	_, err := s.service.Purchase(s.ctx, "Banana")
	s.ErrorIs(err, model.ErrItemNotFound)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *ServiceSuite) TestRepeatedPurchasesAccumulate() {
	s.fund(500)

	_, err := s.service.Purchase(s.ctx, "Ice Spell")
	s.Require().NoError(err)
	result, err := s.service.Purchase(s.ctx, "Ice Spell")
	s.Require().NoError(err)
	s.Equal(100, result.Balance)
	s.Len(result.Inventory, 2)

	_, err = s.service.Purchase(s.ctx, "Ice Spell")
	s.ErrorIs(err, model.ErrInsufficientFunds)
}

func (s *ServiceSuite) TestPurchaseRequiresSession() {
	s.Require().NoError(s.accounts.LogOut(s.ctx))

	_, err := s.service.Purchase(s.ctx, "Ice Spell")
	s.ErrorIs(err, model.ErrNotAuthenticated)
}
