package stats

// StatType identifies one recordable stat event.
type StatType string

const (
	StatShot2     StatType = "shot2"
	StatShot3     StatType = "shot3"
	StatFreeThrow StatType = "freethrow"
	StatRebound   StatType = "rebound"
	StatAssist    StatType = "assist"
	StatSteal     StatType = "steal"
	StatBlock     StatType = "block"
	StatTurnover  StatType = "turnover"
	StatFoul      StatType = "foul"
)

// Valid reports whether t names a recordable stat.
func (t StatType) Valid() bool {
	switch t {
	case StatShot2, StatShot3, StatFreeThrow, StatRebound, StatAssist,
		StatSteal, StatBlock, StatTurnover, StatFoul:
		return true
	}
	return false
}

// PlayerStat is the cumulative ledger row for one player in one game.
// Counters only move through the stat recording engine; rows are created
// zeroed at game creation and never deleted once the game has stats.
type PlayerStat struct {
	GameID                string
	PlayerID              string
	TeamID                string
	Points                int
	FieldGoalsMade        int
	FieldGoalsAttempted   int
	ThreePointersMade     int
	ThreePointersAttempted int
	FreeThrowsMade        int
	FreeThrowsAttempted   int
	OffensiveRebounds     int
	DefensiveRebounds     int
	Assists               int
	Steals                int
	Blocks                int
	Turnovers             int
	Fouls                 int
	MinutesPlayed         int
	PlusMinus             int
	OnCourt               bool
	FouledOut             bool
}

// Rebounds is the combined rebound total.
func (p PlayerStat) Rebounds() int {
	return p.OffensiveRebounds + p.DefensiveRebounds
}

// TeamStat is the per-team per-game aggregate: fouls overall and by period
// bucket, team rebounds and timeouts remaining. Lazily created on first write.
type TeamStat struct {
	GameID           string
	TeamID           string
	Rebounds         int
	Fouls            int
	FoulsByPeriod    map[string]int
	TimeoutsRemaining int
}
