package model

// EncounterMonster is the only encounter kind a cell can declare
const EncounterMonster = "monster"

// CellID identifies a world map cell
type CellID string

// Cell is one entry of the static world map
type Cell struct {
	ID        CellID `json:"id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Forbidden bool   `json:"forbidden"`
	Battle    string `json:"battle,omitempty"`
	MonsterHP int    `json:"monsterHp,omitempty"`
}

// Position returns the cell's coordinates
func (c Cell) Position() Position {
	return Position{X: c.X, Y: c.Y}
}

// HasEncounter reports whether entering the cell starts a battle
func (c Cell) HasEncounter() bool {
	return c.Battle == EncounterMonster
}
