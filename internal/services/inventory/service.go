package inventory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/services/auth"
)

// Service manages owned items and the equipped exercise binding
type Service struct {
	accounts *auth.Controller
	logger   *slog.Logger
}

// NewService creates a new inventory Service
func NewService(accounts *auth.Controller, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		logger:   logger,
	}
}

// Items returns the active account's inventory
func (s *Service) Items(ctx context.Context) ([]model.InventoryItem, error) {
	acc, err := s.accounts.Active(ctx)
	if err != nil {
		return nil, err
	}
	return acc.Inventory, nil
}

// Equipped returns the current binding, or nil if nothing is equipped
func (s *Service) Equipped(ctx context.Context) (*model.EquippedExercise, error) {
	acc, err := s.accounts.Active(ctx)
	if err != nil {
		return nil, err
	}
	return acc.Equipped, nil
}

// Equip binds the inventory item at index to a world coordinate, replacing
// any previous binding
func (s *Service) Equip(ctx context.Context, index int, coordinate string) (*model.EquippedExercise, error) {
	coordinate = strings.TrimSpace(coordinate)
	if coordinate == "" {
		return nil, model.ErrCoordinateRequired
	}

	acc, err := s.accounts.Mutate(ctx, func(acc *model.Account) error {
		if index < 0 || index >= len(acc.Inventory) {
			return model.ErrInventoryIndex
		}
		acc.Equipped = &model.EquippedExercise{
			Item:       acc.Inventory[index],
			Coordinate: coordinate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("exercise equipped",
		slog.String("username", acc.Username),
		slog.String("item", acc.Equipped.Item.Name),
		slog.String("coordinate", coordinate),
	)
	return acc.Equipped, nil
}
