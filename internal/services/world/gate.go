package world

import (
	"context"
	"log/slog"

	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/services/auth"
	"github.com/mcoot/chirpygame/internal/services/battle"
)

// Monster opponents default to this identity
const (
	MonsterName   = "Monster"
	MonsterAvatar = "https://example.com/monster.png"
)

// MoveResult is the outcome of a move. Exactly one of Position (the player
// moved) or Battle (an encounter started instead) is meaningful.
type MoveResult struct {
	Cell     model.Cell         `json:"cell"`
	Position model.Position     `json:"position"`
	Moved    bool               `json:"moved"`
	Battle   *model.BattleState `json:"battle,omitempty"`
}

// Gate validates and applies player movement across the map
type Gate struct {
	accounts *auth.Controller
	battles  *battle.Engine
	world    *Map
	logger   *slog.Logger
}

// NewGate creates a new navigation Gate
func NewGate(accounts *auth.Controller, battles *battle.Engine, world *Map, logger *slog.Logger) *Gate {
	return &Gate{
		accounts: accounts,
		battles:  battles,
		world:    world,
		logger:   logger,
	}
}

// Cells returns the map's cells
func (g *Gate) Cells() []model.Cell {
	return g.world.Cells()
}

// Position returns the player's current position
func (g *Gate) Position(ctx context.Context) (model.Position, error) {
	acc, err := g.accounts.Active(ctx)
	if err != nil {
		return model.Position{}, err
	}
	return acc.Position, nil
}

// MoveTo moves the player to a cell. Forbidden cells are rejected. A cell
// with an encounter starts a battle and leaves the player where they are.
func (g *Gate) MoveTo(ctx context.Context, id model.CellID) (MoveResult, error) {
	cell, err := g.world.Cell(id)
	if err != nil {
		return MoveResult{}, err
	}
	if g.battles.Phase() == model.BattleInBattle {
		return MoveResult{}, model.ErrBattleInProgress
	}
	acc, err := g.accounts.Active(ctx)
	if err != nil {
		return MoveResult{}, err
	}
	if cell.Forbidden {
		g.logger.Info("restricted cell rejected",
			slog.String("username", acc.Username),
			slog.String("cell", string(cell.ID)),
		)
		return MoveResult{}, model.ErrForbiddenCell
	}

	if cell.HasEncounter() {
		st, err := g.battles.Enter(ctx, model.Opponent{
			Username: MonsterName,
			Avatar:   MonsterAvatar,
			MaxHP:    cell.MonsterHP,
			Origin:   cell.ID,
		})
		if err != nil {
			return MoveResult{}, err
		}
		return MoveResult{Cell: cell, Position: acc.Position, Battle: &st}, nil
	}

	pos, err := g.Arrive(ctx, cell.ID)
	if err != nil {
		return MoveResult{}, err
	}
	return MoveResult{Cell: cell, Position: pos, Moved: true}, nil
}

// Arrive places the player on a cell without triggering its encounter, as
// after winning the battle that guarded it
func (g *Gate) Arrive(ctx context.Context, id model.CellID) (model.Position, error) {
	cell, err := g.world.Cell(id)
	if err != nil {
		return model.Position{}, err
	}
	if cell.Forbidden {
		return model.Position{}, model.ErrForbiddenCell
	}

	acc, err := g.accounts.Mutate(ctx, func(acc *model.Account) error {
		acc.Position = cell.Position()
		return nil
	})
	if err != nil {
		return model.Position{}, err
	}

	g.logger.Info("player moved",
		slog.String("username", acc.Username),
		slog.String("cell", string(cell.ID)),
		slog.Int("x", acc.Position.X),
		slog.Int("y", acc.Position.Y),
	)
	return acc.Position, nil
}
