package world

import (
	"slices"

	"github.com/mcoot/chirpygame/internal/model"
)

// Map is the static table of world cells
type Map struct {
	cells []model.Cell
	byID  map[model.CellID]model.Cell
}

// NewMap creates a map from the given cells
func NewMap(cells ...model.Cell) *Map {
	m := &Map{
		cells: slices.Clone(cells),
		byID:  make(map[model.CellID]model.Cell, len(cells)),
	}
	for _, c := range cells {
		m.byID[c.ID] = c
	}
	return m
}

// DefaultMap returns the standard world map
func DefaultMap() *Map {
	return NewMap(
		model.Cell{ID: "village", X: 0, Y: 0},
		model.Cell{ID: "forest", X: 1, Y: 0},
		model.Cell{ID: "lake", X: 0, Y: 1},
		model.Cell{ID: "cave", X: 1, Y: 1, Battle: model.EncounterMonster, MonsterHP: 60},
		model.Cell{ID: "firewall", X: 2, Y: 1, Forbidden: true},
		model.Cell{ID: "castle", X: 2, Y: 2, Forbidden: true},
		model.Cell{ID: "tower", X: 1, Y: 2, Battle: model.EncounterMonster, MonsterHP: 150},
	)
}

// Cells returns every cell in table order
func (m *Map) Cells() []model.Cell {
	return slices.Clone(m.cells)
}

// Cell looks up a cell by id
func (m *Map) Cell(id model.CellID) (model.Cell, error) {
	c, ok := m.byID[id]
	if !ok {
		return model.Cell{}, model.ErrCellNotFound
	}
	return c, nil
}
