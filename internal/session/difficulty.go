package session

import "github.com/verte-zerg/typemaster/internal/model"

// Scoring constants.
const (
	PointsPerChar      = 10
	MistakePenalty     = 5
	TimeBonusPerSecond = 50
	PerfectBonus       = 1000
	// WarningThreshold is the remaining time at which CountdownWarning fires.
	WarningThreshold = 10
)

// Settings is a row of the difficulty table.
type Settings struct {
	TimeLimit  int
	Multiplier float64
}

var difficultyTable = map[model.Difficulty]Settings{
	model.Easy:   {TimeLimit: 30, Multiplier: 1.0},
	model.Medium: {TimeLimit: 25, Multiplier: 1.5},
	model.Hard:   {TimeLimit: 20, Multiplier: 2.0},
}

// SettingsFor returns the fixed settings of a difficulty tier.
func SettingsFor(d model.Difficulty) (Settings, bool) {
	s, ok := difficultyTable[d]
	return s, ok
}
