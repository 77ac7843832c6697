package httpapi

import (
	"context"
	"time"

	"github.com/riskibarqy/courtside/internal/domain/event"
	"github.com/riskibarqy/courtside/internal/domain/game"
	"github.com/riskibarqy/courtside/internal/domain/stats"
	"github.com/riskibarqy/courtside/internal/domain/stint"
	"github.com/riskibarqy/courtside/internal/usecase"
)

type gameSettingsDTO struct {
	QuarterMinutes  int                         `json:"quarter_minutes"`
	OvertimeMinutes int                         `json:"overtime_minutes"`
	FoulLimit       int                         `json:"foul_limit"`
	TimeoutsPerTeam int                         `json:"timeouts_per_team"`
	PeriodScores    map[string]periodScoreDTO   `json:"period_scores,omitempty"`
	HomeStarters    []string                    `json:"home_starters,omitempty"`
	AwayStarters    []string                    `json:"away_starters,omitempty"`
}

type periodScoreDTO struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type gameDTO struct {
	ID                   string          `json:"id"`
	LeagueID             string          `json:"league_id"`
	HomeTeamID           string          `json:"home_team_id"`
	AwayTeamID           string          `json:"away_team_id"`
	Status               string          `json:"status"`
	CurrentQuarter       int             `json:"current_quarter"`
	PeriodLabel          string          `json:"period_label"`
	TimeRemainingSeconds int             `json:"time_remaining_seconds"`
	ClockDisplay         string          `json:"clock_display"`
	ShotClockSeconds     int             `json:"shot_clock_seconds"`
	ShotClockRunning     bool            `json:"shot_clock_running"`
	HomeScore            int             `json:"home_score"`
	AwayScore            int             `json:"away_score"`
	Settings             gameSettingsDTO `json:"settings"`
	ScheduledAt          time.Time       `json:"scheduled_at"`
	StartedAt            *time.Time      `json:"started_at,omitempty"`
	EndedAt              *time.Time      `json:"ended_at,omitempty"`
}

func gameToDTO(ctx context.Context, g game.Game) gameDTO {
	_, span := startSpan(ctx, "httpapi.gameToDTO")
	defer span.End()

	settings := gameSettingsDTO{
		QuarterMinutes:  g.Settings.QuarterMinutes,
		OvertimeMinutes: g.Settings.OvertimeMinutes,
		FoulLimit:       g.Settings.FoulLimit,
		TimeoutsPerTeam: g.Settings.TimeoutsPerTeam,
		HomeStarters:    g.Settings.HomeStarters,
		AwayStarters:    g.Settings.AwayStarters,
	}
	if len(g.Settings.PeriodScores) > 0 {
		settings.PeriodScores = make(map[string]periodScoreDTO, len(g.Settings.PeriodScores))
		for label, score := range g.Settings.PeriodScores {
			settings.PeriodScores[label] = periodScoreDTO{Home: score.Home, Away: score.Away}
		}
	}

	return gameDTO{
		ID:                   g.ID,
		LeagueID:             g.LeagueID,
		HomeTeamID:           g.HomeTeamID,
		AwayTeamID:           g.AwayTeamID,
		Status:               string(g.Status),
		CurrentQuarter:       g.CurrentQuarter,
		PeriodLabel:          game.PeriodLabel(g.CurrentQuarter),
		TimeRemainingSeconds: g.TimeRemainingSeconds,
		ClockDisplay:         game.FormatClock(g.TimeRemainingSeconds),
		ShotClockSeconds:     g.ShotClockSeconds,
		ShotClockRunning:     g.ShotClockStartedAt != nil,
		HomeScore:            g.HomeScore,
		AwayScore:            g.AwayScore,
		Settings:             settings,
		ScheduledAt:          g.ScheduledAt,
		StartedAt:            g.StartedAt,
		EndedAt:              g.EndedAt,
	}
}

type playerStatDTO struct {
	PlayerID               string `json:"player_id"`
	TeamID                 string `json:"team_id"`
	Points                 int    `json:"points"`
	FieldGoalsMade         int    `json:"field_goals_made"`
	FieldGoalsAttempted    int    `json:"field_goals_attempted"`
	ThreePointersMade      int    `json:"three_pointers_made"`
	ThreePointersAttempted int    `json:"three_pointers_attempted"`
	FreeThrowsMade         int    `json:"free_throws_made"`
	FreeThrowsAttempted    int    `json:"free_throws_attempted"`
	OffensiveRebounds      int    `json:"offensive_rebounds"`
	DefensiveRebounds      int    `json:"defensive_rebounds"`
	Rebounds               int    `json:"rebounds"`
	Assists                int    `json:"assists"`
	Steals                 int    `json:"steals"`
	Blocks                 int    `json:"blocks"`
	Turnovers              int    `json:"turnovers"`
	Fouls                  int    `json:"fouls"`
	MinutesPlayed          int    `json:"minutes_played"`
	PlusMinus              int    `json:"plus_minus"`
	OnCourt                bool   `json:"on_court"`
	FouledOut              bool   `json:"fouled_out"`
}

func playerStatToDTO(row stats.PlayerStat) playerStatDTO {
	return playerStatDTO{
		PlayerID:               row.PlayerID,
		TeamID:                 row.TeamID,
		Points:                 row.Points,
		FieldGoalsMade:         row.FieldGoalsMade,
		FieldGoalsAttempted:    row.FieldGoalsAttempted,
		ThreePointersMade:      row.ThreePointersMade,
		ThreePointersAttempted: row.ThreePointersAttempted,
		FreeThrowsMade:         row.FreeThrowsMade,
		FreeThrowsAttempted:    row.FreeThrowsAttempted,
		OffensiveRebounds:      row.OffensiveRebounds,
		DefensiveRebounds:      row.DefensiveRebounds,
		Rebounds:               row.Rebounds(),
		Assists:                row.Assists,
		Steals:                 row.Steals,
		Blocks:                 row.Blocks,
		Turnovers:              row.Turnovers,
		Fouls:                  row.Fouls,
		MinutesPlayed:          row.MinutesPlayed,
		PlusMinus:              row.PlusMinus,
		OnCourt:                row.OnCourt,
		FouledOut:              row.FouledOut,
	}
}

type teamStatDTO struct {
	TeamID            string         `json:"team_id"`
	Rebounds          int            `json:"rebounds"`
	Fouls             int            `json:"fouls"`
	FoulsByPeriod     map[string]int `json:"fouls_by_period,omitempty"`
	TimeoutsRemaining int            `json:"timeouts_remaining"`
}

func teamStatToDTO(row stats.TeamStat) teamStatDTO {
	return teamStatDTO{
		TeamID:            row.TeamID,
		Rebounds:          row.Rebounds,
		Fouls:             row.Fouls,
		FoulsByPeriod:     row.FoulsByPeriod,
		TimeoutsRemaining: row.TimeoutsRemaining,
	}
}

type eventDTO struct {
	ID          string         `json:"id"`
	EventType   string         `json:"event_type"`
	Quarter     int            `json:"quarter"`
	GameTime    int            `json:"game_time"`
	Timestamp   time.Time      `json:"timestamp"`
	PlayerID    string         `json:"player_id,omitempty"`
	TeamID      string         `json:"team_id,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	Description string         `json:"description,omitempty"`
}

func eventToDTO(item event.GameEvent) eventDTO {
	return eventDTO{
		ID:          item.ID,
		EventType:   string(item.EventType),
		Quarter:     item.Quarter,
		GameTime:    item.GameTime,
		Timestamp:   item.Timestamp,
		PlayerID:    item.PlayerID,
		TeamID:      item.TeamID,
		Details:     item.Details,
		Description: item.Description,
	}
}

type stintDTO struct {
	ID            string   `json:"id"`
	TeamID        string   `json:"team_id"`
	Players       []string `json:"players"`
	StartQuarter  int      `json:"start_quarter"`
	StartGameTime int      `json:"start_game_time"`
	EndQuarter    *int     `json:"end_quarter,omitempty"`
	EndGameTime   *int     `json:"end_game_time,omitempty"`
	SecondsPlayed int      `json:"seconds_played"`
	PointsScored  int      `json:"points_scored"`
	PointsAllowed int      `json:"points_allowed"`
	PlusMinus     int      `json:"plus_minus"`
	IsActive      bool     `json:"is_active"`
}

func stintToDTO(item stint.LineupStint) stintDTO {
	return stintDTO{
		ID:            item.ID,
		TeamID:        item.TeamID,
		Players:       item.Players,
		StartQuarter:  item.StartQuarter,
		StartGameTime: item.StartGameTime,
		EndQuarter:    item.EndQuarter,
		EndGameTime:   item.EndGameTime,
		SecondsPlayed: item.SecondsPlayed,
		PointsScored:  item.PointsScored,
		PointsAllowed: item.PointsAllowed,
		PlusMinus:     item.PlusMinus,
		IsActive:      item.IsActive,
	}
}

type lineupAggregateDTO struct {
	Players       []string `json:"players"`
	GamesPlayed   int      `json:"games_played"`
	SecondsPlayed int      `json:"seconds_played"`
	PointsScored  int      `json:"points_scored"`
	PointsAllowed int      `json:"points_allowed"`
	PlusMinus     int      `json:"plus_minus"`
	NetRating     float64  `json:"net_rating"`
}

func lineupAggregateToDTO(item stint.LineupAggregate) lineupAggregateDTO {
	return lineupAggregateDTO{
		Players:       item.Players,
		GamesPlayed:   item.GamesPlayed,
		SecondsPlayed: item.SecondsPlayed,
		PointsScored:  item.PointsScored,
		PointsAllowed: item.PointsAllowed,
		PlusMinus:     item.PlusMinus,
		NetRating:     item.NetRating,
	}
}

type pairAggregateDTO struct {
	PlayerA       string  `json:"player_a"`
	PlayerB       string  `json:"player_b"`
	GamesPlayed   int     `json:"games_played"`
	SecondsPlayed int     `json:"seconds_played"`
	PointsScored  int     `json:"points_scored"`
	PointsAllowed int     `json:"points_allowed"`
	PlusMinus     int     `json:"plus_minus"`
	NetRating     float64 `json:"net_rating"`
}

func pairAggregateToDTO(item stint.PairAggregate) pairAggregateDTO {
	return pairAggregateDTO{
		PlayerA:       item.PlayerA,
		PlayerB:       item.PlayerB,
		GamesPlayed:   item.GamesPlayed,
		SecondsPlayed: item.SecondsPlayed,
		PointsScored:  item.PointsScored,
		PointsAllowed: item.PointsAllowed,
		PlusMinus:     item.PlusMinus,
		NetRating:     item.NetRating,
	}
}

type timelineEntryDTO struct {
	Quarter        int    `json:"quarter"`
	GameTime       int    `json:"game_time"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
	ScoringTeamID  string `json:"scoring_team_id"`
	Points         int    `json:"points"`
	HomeScore      int    `json:"home_score"`
	AwayScore      int    `json:"away_score"`
}

type scoringRunDTO struct {
	TeamID         string `json:"team_id"`
	Points         int    `json:"points"`
	OpponentPoints int    `json:"opponent_points"`
	StartElapsed   int    `json:"start_elapsed"`
	EndElapsed     int    `json:"end_elapsed"`
}

type scoringTimelineDTO struct {
	GameID      string             `json:"game_id"`
	Entries     []timelineEntryDTO `json:"entries"`
	Runs        []scoringRunDTO    `json:"runs"`
	LeadChanges int                `json:"lead_changes"`
	TimesTied   int                `json:"times_tied"`
	LargestLead map[string]int     `json:"largest_lead"`
}

func timelineToDTO(timeline usecase.ScoringTimeline) scoringTimelineDTO {
	out := scoringTimelineDTO{
		GameID:      timeline.GameID,
		Entries:     make([]timelineEntryDTO, 0, len(timeline.Entries)),
		Runs:        make([]scoringRunDTO, 0, len(timeline.Runs)),
		LeadChanges: timeline.LeadChanges,
		TimesTied:   timeline.TimesTied,
		LargestLead: timeline.LargestLead,
	}
	for _, entry := range timeline.Entries {
		out.Entries = append(out.Entries, timelineEntryDTO{
			Quarter:        entry.Quarter,
			GameTime:       entry.GameTime,
			ElapsedSeconds: entry.ElapsedSeconds,
			ScoringTeamID:  entry.ScoringTeamID,
			Points:         entry.Points,
			HomeScore:      entry.HomeScore,
			AwayScore:      entry.AwayScore,
		})
	}
	for _, run := range timeline.Runs {
		out.Runs = append(out.Runs, scoringRunDTO{
			TeamID:         run.TeamID,
			Points:         run.Points,
			OpponentPoints: run.OpponentPoints,
			StartElapsed:   run.StartElapsed,
			EndElapsed:     run.EndElapsed,
		})
	}
	return out
}
