package model

// BattlePhase is the state of the battle engine
type BattlePhase string

const (
	BattleIdle     BattlePhase = "idle"
	BattleInBattle BattlePhase = "in_battle"
)

// BattleOutcome describes how a battle ended
type BattleOutcome string

const (
	OutcomeNone    BattleOutcome = ""
	OutcomeVictory BattleOutcome = "victory"
	OutcomeDefeat  BattleOutcome = "defeat"
	OutcomeRetreat BattleOutcome = "retreat"
)

// Opponent is who the player is fighting
type Opponent struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	// MaxHP scales how quickly the opponent's health percentage drops.
	// Zero means 100.
	MaxHP int `json:"maxHp,omitempty"`
	// Origin is the map cell whose encounter started the battle, if any
	Origin CellID `json:"origin,omitempty"`
}

// BattleState is the ephemeral state of an active battle
type BattleState struct {
	PlayerHealthPct   int      `json:"playerHealthPct"`
	OpponentHealthPct int      `json:"opponentHealthPct"`
	Opponent          Opponent `json:"opponent"`
	Turn              int      `json:"turn"`
}

// Finished reports whether either side has been defeated
func (b BattleState) Finished() bool {
	return b.PlayerHealthPct == 0 || b.OpponentHealthPct == 0
}

// ClampHealth limits a health percentage to [0,100]
func ClampHealth(pct int) int {
	return max(0, min(100, pct))
}
