package game

import (
	"fmt"
	"time"
)

// Status tracks the lifecycle of a game's clock state machine.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

const (
	DefaultQuarterMinutes  = 12
	DefaultOvertimeMinutes = 5
	DefaultFoulLimit       = 6
	DefaultTimeouts        = 7
	DefaultShotClock       = 24
	RegulationQuarters     = 4
)

// PeriodScore snapshots both totals at a period boundary.
type PeriodScore struct {
	Home int
	Away int
}

// Settings holds the per-game configuration a league can override.
type Settings struct {
	QuarterMinutes  int
	OvertimeMinutes int
	FoulLimit       int
	TimeoutsPerTeam int
	PeriodScores    map[string]PeriodScore
	HomeStarters    []string
	AwayStarters    []string
}

func DefaultSettings() Settings {
	return Settings{
		QuarterMinutes:  DefaultQuarterMinutes,
		OvertimeMinutes: DefaultOvertimeMinutes,
		FoulLimit:       DefaultFoulLimit,
		TimeoutsPerTeam: DefaultTimeouts,
	}
}

// QuarterSeconds returns the regulation period length in whole seconds.
func (s Settings) QuarterSeconds() int {
	if s.QuarterMinutes <= 0 {
		return DefaultQuarterMinutes * 60
	}
	return s.QuarterMinutes * 60
}

// OvertimeSeconds returns the overtime period length in whole seconds.
func (s Settings) OvertimeSeconds() int {
	if s.OvertimeMinutes <= 0 {
		return DefaultOvertimeMinutes * 60
	}
	return s.OvertimeMinutes * 60
}

// PeriodSeconds returns the configured length of the given period,
// regulation or overtime.
func (s Settings) PeriodSeconds(quarter int) int {
	if quarter > RegulationQuarters {
		return s.OvertimeSeconds()
	}
	return s.QuarterSeconds()
}

// Game is the authoritative record for one live game: clock, shot clock,
// score and settings. The score must always equal the sum of made-shot
// points in the stat ledger for that game.
type Game struct {
	ID                   string
	LeagueID             string
	HomeTeamID           string
	AwayTeamID           string
	Status               Status
	CurrentQuarter       int
	TimeRemainingSeconds int
	ShotClockSeconds     int
	ShotClockStartedAt   *time.Time
	HomeScore            int
	AwayScore            int
	Settings             Settings
	ScheduledAt          time.Time
	StartedAt            *time.Time
	EndedAt              *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsOvertime reports whether the game is past regulation.
func (g Game) IsOvertime() bool {
	return g.CurrentQuarter > RegulationQuarters
}

// ShotClockValue derives the live shot-clock reading at the given instant.
// While running the value is computed from the captured start instant; there
// is no server-side tick for the shot clock.
func (g Game) ShotClockValue(now time.Time) int {
	if g.ShotClockStartedAt == nil {
		return g.ShotClockSeconds
	}
	elapsed := int(now.Sub(*g.ShotClockStartedAt) / time.Second)
	if remaining := g.ShotClockSeconds - elapsed; remaining > 0 {
		return remaining
	}
	return 0
}

// FormatClock renders whole seconds remaining as M:SS for display.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// PeriodLabel names a period for display and foul buckets: Q1..Q4, OT1, OT2...
func PeriodLabel(quarter int) string {
	if quarter > RegulationQuarters {
		return fmt.Sprintf("OT%d", quarter-RegulationQuarters)
	}
	return fmt.Sprintf("Q%d", quarter)
}
