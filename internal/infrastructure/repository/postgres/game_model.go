package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/courtside/internal/domain/game"
)

type gameTableModel struct {
	ID                   string         `db:"public_id"`
	LeagueID             string         `db:"league_public_id"`
	HomeTeamID           string         `db:"home_team_public_id"`
	AwayTeamID           string         `db:"away_team_public_id"`
	Status               string         `db:"status"`
	CurrentQuarter       int            `db:"current_quarter"`
	TimeRemainingSeconds int            `db:"time_remaining_seconds"`
	ShotClockSeconds     int            `db:"shot_clock_seconds"`
	ShotClockStartedAt   *time.Time     `db:"shot_clock_started_at"`
	HomeScore            int            `db:"home_score"`
	AwayScore            int            `db:"away_score"`
	QuarterMinutes       int            `db:"quarter_minutes"`
	OvertimeMinutes      int            `db:"overtime_minutes"`
	FoulLimit            int            `db:"foul_limit"`
	TimeoutsPerTeam      int            `db:"timeouts_per_team"`
	PeriodScores         string         `db:"period_scores"`
	HomeStarters         pq.StringArray `db:"home_starters"`
	AwayStarters         pq.StringArray `db:"away_starters"`
	ScheduledAt          time.Time      `db:"scheduled_at"`
	StartedAt            *time.Time     `db:"started_at"`
	EndedAt              *time.Time     `db:"ended_at"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

type gameInsertModel struct {
	ID                   string         `db:"public_id"`
	LeagueID             string         `db:"league_public_id"`
	HomeTeamID           string         `db:"home_team_public_id"`
	AwayTeamID           string         `db:"away_team_public_id"`
	Status               string         `db:"status"`
	CurrentQuarter       int            `db:"current_quarter"`
	TimeRemainingSeconds int            `db:"time_remaining_seconds"`
	ShotClockSeconds     int            `db:"shot_clock_seconds"`
	ShotClockStartedAt   *time.Time     `db:"shot_clock_started_at"`
	HomeScore            int            `db:"home_score"`
	AwayScore            int            `db:"away_score"`
	QuarterMinutes       int            `db:"quarter_minutes"`
	OvertimeMinutes      int            `db:"overtime_minutes"`
	FoulLimit            int            `db:"foul_limit"`
	TimeoutsPerTeam      int            `db:"timeouts_per_team"`
	PeriodScores         string         `db:"period_scores"`
	HomeStarters         pq.StringArray `db:"home_starters"`
	AwayStarters         pq.StringArray `db:"away_starters"`
	ScheduledAt          time.Time      `db:"scheduled_at"`
	StartedAt            *time.Time     `db:"started_at"`
	EndedAt              *time.Time     `db:"ended_at"`
}

var gameSelectColumns = []string{
	"public_id",
	"league_public_id",
	"home_team_public_id",
	"away_team_public_id",
	"status",
	"current_quarter",
	"time_remaining_seconds",
	"shot_clock_seconds",
	"shot_clock_started_at",
	"home_score",
	"away_score",
	"quarter_minutes",
	"overtime_minutes",
	"foul_limit",
	"timeouts_per_team",
	"period_scores",
	"home_starters",
	"away_starters",
	"scheduled_at",
	"started_at",
	"ended_at",
	"created_at",
	"updated_at",
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:                   row.ID,
		LeagueID:             row.LeagueID,
		HomeTeamID:           row.HomeTeamID,
		AwayTeamID:           row.AwayTeamID,
		Status:               game.Status(row.Status),
		CurrentQuarter:       row.CurrentQuarter,
		TimeRemainingSeconds: row.TimeRemainingSeconds,
		ShotClockSeconds:     row.ShotClockSeconds,
		ShotClockStartedAt:   row.ShotClockStartedAt,
		HomeScore:            row.HomeScore,
		AwayScore:            row.AwayScore,
		Settings: game.Settings{
			QuarterMinutes:  row.QuarterMinutes,
			OvertimeMinutes: row.OvertimeMinutes,
			FoulLimit:       row.FoulLimit,
			TimeoutsPerTeam: row.TimeoutsPerTeam,
			PeriodScores:    decodePeriodScores(row.PeriodScores),
			HomeStarters:    []string(row.HomeStarters),
			AwayStarters:    []string(row.AwayStarters),
		},
		ScheduledAt: row.ScheduledAt,
		StartedAt:   row.StartedAt,
		EndedAt:     row.EndedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func gameToInsertModel(item game.Game) gameInsertModel {
	return gameInsertModel{
		ID:                   item.ID,
		LeagueID:             item.LeagueID,
		HomeTeamID:           item.HomeTeamID,
		AwayTeamID:           item.AwayTeamID,
		Status:               string(item.Status),
		CurrentQuarter:       item.CurrentQuarter,
		TimeRemainingSeconds: item.TimeRemainingSeconds,
		ShotClockSeconds:     item.ShotClockSeconds,
		ShotClockStartedAt:   item.ShotClockStartedAt,
		HomeScore:            item.HomeScore,
		AwayScore:            item.AwayScore,
		QuarterMinutes:       item.Settings.QuarterMinutes,
		OvertimeMinutes:      item.Settings.OvertimeMinutes,
		FoulLimit:            item.Settings.FoulLimit,
		TimeoutsPerTeam:      item.Settings.TimeoutsPerTeam,
		PeriodScores:         encodePeriodScores(item.Settings.PeriodScores),
		HomeStarters:         pq.StringArray(item.Settings.HomeStarters),
		AwayStarters:         pq.StringArray(item.Settings.AwayStarters),
		ScheduledAt:          item.ScheduledAt,
		StartedAt:            item.StartedAt,
		EndedAt:              item.EndedAt,
	}
}

type periodScoreJSON struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

func encodePeriodScores(scores map[string]game.PeriodScore) string {
	if len(scores) == 0 {
		return "{}"
	}
	out := make(map[string]periodScoreJSON, len(scores))
	for period, score := range scores {
		out[period] = periodScoreJSON{Home: score.Home, Away: score.Away}
	}
	return encodeJSONMap(out)
}

func decodePeriodScores(raw string) map[string]game.PeriodScore {
	decoded := decodeJSONMap[periodScoreJSON](raw)
	if len(decoded) == 0 {
		return nil
	}
	out := make(map[string]game.PeriodScore, len(decoded))
	for period, score := range decoded {
		out[period] = game.PeriodScore{Home: score.Home, Away: score.Away}
	}
	return out
}
