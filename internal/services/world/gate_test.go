package world

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/chirpygame/internal/dependencies/mocks"
	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/services/auth"
	"github.com/mcoot/chirpygame/internal/services/battle"
	"github.com/mcoot/chirpygame/internal/storage/memory"
	"github.com/mcoot/chirpygame/internal/testutil"
)

type GateSuite struct {
	suite.Suite
	accounts *auth.Controller
	battles  *battle.Engine
	gate     *Gate
	ctx      context.Context
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func (s *GateSuite) SetupTest() {
	store := memory.New()
	logger := testutil.NopLogger()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	cfg := auth.DefaultConfig()
	cfg.PasswordCost = bcrypt.MinCost
	s.accounts = auth.New(store, auth.NewRegistry(store, logger), clk, cfg, logger)
	s.battles = battle.New(s.accounts, store, nil, battle.DefaultConfig(), logger)
	s.gate = NewGate(s.accounts, s.battles, DefaultMap(), logger)
	s.ctx = context.Background()

	_, err := s.accounts.SignUpLocal(s.ctx, "alice", "pw", "Mage")
	s.Require().NoError(err)
}

func (s *GateSuite) position() model.Position {
	pos, err := s.gate.Position(s.ctx)
	s.Require().NoError(err)
	return pos
}

func (s *GateSuite) TestDefaultMapCells() {
	cells := s.gate.Cells()
	s.Len(cells, 7)
	s.Equal(model.CellID("village"), cells[0].ID)
}

func (s *GateSuite) TestMoveToOpenCell() {
	result, err := s.gate.MoveTo(s.ctx, "forest")
	s.Require().NoError(err)
	s.True(result.Moved)
	s.Nil(result.Battle)
	s.Equal(model.Position{X: 1, Y: 0}, result.Position)
	s.Equal(model.Position{X: 1, Y: 0}, s.position())
}

func (s *GateSuite) TestForbiddenCellNeverMoves() {
	_, _ = s.gate.MoveTo(s.ctx, "lake")

	for range 3 {
		_, err := s.gate.MoveTo(s.ctx, "firewall")
		s.ErrorIs(err, model.ErrForbiddenCell)
		s.ErrorIs(err, model.ErrAccessDenied)
		s.Equal(model.Position{X: 0, Y: 1}, s.position())
	}

	_, err := s.gate.MoveTo(s.ctx, "castle")
	s.ErrorIs(err, model.ErrForbiddenCell)
}

func (s *GateSuite) TestUnknownCell() {
	_, err := s.gate.MoveTo(s.ctx, "moon")
	s.ErrorIs(err, model.ErrCellNotFound)
}

func (s *GateSuite) TestEncounterStartsBattleWithoutMoving() {
	result, err := s.gate.MoveTo(s.ctx, "cave")
	s.Require().NoError(err)
	s.False(result.Moved)
	s.Require().NotNil(result.Battle)
	s.Equal(model.Opponent{
		Username: "Monster",
		Avatar:   MonsterAvatar,
		MaxHP:    60,
		Origin:   "cave",
	}, result.Battle.Opponent)
	s.Equal(model.Position{}, s.position())
	s.Equal(model.BattleInBattle, s.battles.Phase())
}

func (s *GateSuite) TestMoveRejectedDuringBattle() {
	_, _ = s.gate.MoveTo(s.ctx, "cave")

	_, err := s.gate.MoveTo(s.ctx, "forest")
	s.ErrorIs(err, model.ErrBattleInProgress)
	s.Equal(model.Position{}, s.position())
}

func (s *GateSuite) TestArriveAfterVictory() {
	_, _ = s.gate.MoveTo(s.ctx, "cave")

	pos, err := s.gate.Arrive(s.ctx, "cave")
	s.Require().NoError(err)
	s.Equal(model.Position{X: 1, Y: 1}, pos)
}

func (s *GateSuite) TestArriveForbidden() {
	_, err := s.gate.Arrive(s.ctx, "castle")
	s.ErrorIs(err, model.ErrForbiddenCell)
}

func (s *GateSuite) TestMoveRequiresSession() {
	s.Require().NoError(s.accounts.LogOut(s.ctx))

	_, err := s.gate.MoveTo(s.ctx, "forest")
	s.ErrorIs(err, model.ErrNotAuthenticated)
}
