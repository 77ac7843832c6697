package postgres

import (
	"github.com/lib/pq"

	"github.com/riskibarqy/courtside/internal/domain/stint"
)

type lineupStintTableModel struct {
	ID            string         `db:"public_id"`
	GameID        string         `db:"game_public_id"`
	TeamID        string         `db:"team_public_id"`
	Players       pq.StringArray `db:"players"`
	StartQuarter  int            `db:"start_quarter"`
	StartGameTime int            `db:"start_game_time"`
	EndQuarter    *int           `db:"end_quarter"`
	EndGameTime   *int           `db:"end_game_time"`
	SecondsPlayed int            `db:"seconds_played"`
	PointsScored  int            `db:"points_scored"`
	PointsAllowed int            `db:"points_allowed"`
	PlusMinus     int            `db:"plus_minus"`
	IsActive      bool           `db:"is_active"`
}

var lineupStintSelectColumns = []string{
	"public_id",
	"game_public_id",
	"team_public_id",
	"players",
	"start_quarter",
	"start_game_time",
	"end_quarter",
	"end_game_time",
	"seconds_played",
	"points_scored",
	"points_allowed",
	"plus_minus",
	"is_active",
}

func lineupStintFromRow(row lineupStintTableModel) stint.LineupStint {
	return stint.LineupStint{
		ID:            row.ID,
		GameID:        row.GameID,
		TeamID:        row.TeamID,
		Players:       []string(row.Players),
		StartQuarter:  row.StartQuarter,
		StartGameTime: row.StartGameTime,
		EndQuarter:    row.EndQuarter,
		EndGameTime:   row.EndGameTime,
		SecondsPlayed: row.SecondsPlayed,
		PointsScored:  row.PointsScored,
		PointsAllowed: row.PointsAllowed,
		PlusMinus:     row.PlusMinus,
		IsActive:      row.IsActive,
	}
}

func lineupStintToRow(item stint.LineupStint) lineupStintTableModel {
	return lineupStintTableModel{
		ID:            item.ID,
		GameID:        item.GameID,
		TeamID:        item.TeamID,
		Players:       pqStringArray(item.Players),
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
