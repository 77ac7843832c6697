package postgres

import "github.com/riskibarqy/courtside/internal/domain/stats"

type playerStatTableModel struct {
	GameID                 string `db:"game_public_id"`
	PlayerID               string `db:"player_public_id"`
	TeamID                 string `db:"team_public_id"`
	Points                 int    `db:"points"`
	FieldGoalsMade         int    `db:"fgm"`
	FieldGoalsAttempted    int    `db:"fga"`
	ThreePointersMade      int    `db:"tpm"`
	ThreePointersAttempted int    `db:"tpa"`
	FreeThrowsMade         int    `db:"ftm"`
	FreeThrowsAttempted    int    `db:"fta"`
	OffensiveRebounds      int    `db:"oreb"`
	DefensiveRebounds      int    `db:"dreb"`
	Assists                int    `db:"assists"`
	Steals                 int    `db:"steals"`
	Blocks                 int    `db:"blocks"`
	Turnovers              int    `db:"turnovers"`
	Fouls                  int    `db:"fouls"`
	MinutesPlayed          int    `db:"minutes_played"`
	PlusMinus              int    `db:"plus_minus"`
	OnCourt                bool   `db:"on_court"`
	FouledOut              bool   `db:"fouled_out"`
}

var playerStatSelectColumns = []string{
	"game_public_id",
	"player_public_id",
	"team_public_id",
	"points",
	"fgm",
	"fga",
	"tpm",
	"tpa",
	"ftm",
	"fta",
	"oreb",
	"dreb",
	"assists",
	"steals",
	"blocks",
	"turnovers",
	"fouls",
	"minutes_played",
	"plus_minus",
	"on_court",
	"fouled_out",
}

func playerStatFromRow(row playerStatTableModel) stats.PlayerStat {
	return stats.PlayerStat{
		GameID:                 row.GameID,
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

func playerStatToRow(item stats.PlayerStat) playerStatTableModel {
	return playerStatTableModel{
		GameID:                 item.GameID,
		PlayerID:               item.PlayerID,
		TeamID:                 item.TeamID,
		Points:                 item.Points,
		FieldGoalsMade:         item.FieldGoalsMade,
		FieldGoalsAttempted:    item.FieldGoalsAttempted,
		ThreePointersMade:      item.ThreePointersMade,
		ThreePointersAttempted: item.ThreePointersAttempted,
		FreeThrowsMade:         item.FreeThrowsMade,
		FreeThrowsAttempted:    item.FreeThrowsAttempted,
		OffensiveRebounds:      item.OffensiveRebounds,
		DefensiveRebounds:      item.DefensiveRebounds,
		Assists:                item.Assists,
		Steals:                 item.Steals,
		Blocks:                 item.Blocks,
		Turnovers:              item.Turnovers,
		Fouls:                  item.Fouls,
		MinutesPlayed:          item.MinutesPlayed,
		PlusMinus:              item.PlusMinus,
		OnCourt:                item.OnCourt,
		FouledOut:              item.FouledOut,
	}
}

type teamStatTableModel struct {
	GameID            string `db:"game_public_id"`
	TeamID            string `db:"team_public_id"`
	Rebounds          int    `db:"rebounds"`
	Fouls             int    `db:"fouls"`
	FoulsByPeriod     string `db:"fouls_by_period"`
	TimeoutsRemaining int    `db:"timeouts_remaining"`
}

var teamStatSelectColumns = []string{
	"game_public_id",
	"team_public_id",
	"rebounds",
	"fouls",
	"fouls_by_period",
	"timeouts_remaining",
}

func teamStatFromRow(row teamStatTableModel) stats.TeamStat {
	item := stats.TeamStat{
		GameID:            row.GameID,
		TeamID:            row.TeamID,
		Rebounds:          row.Rebounds,
		Fouls:             row.Fouls,
		TimeoutsRemaining: row.TimeoutsRemaining,
	}
	if decoded := decodeJSONMap[int](row.FoulsByPeriod); len(decoded) > 0 {
		item.FoulsByPeriod = decoded
	}
	return item
}

func teamStatToRow(item stats.TeamStat) teamStatTableModel {
	return teamStatTableModel{
		GameID:            item.GameID,
		TeamID:            item.TeamID,
		Rebounds:          item.Rebounds,
		Fouls:             item.Fouls,
		FoulsByPeriod:     encodeJSONMap(item.FoulsByPeriod),
		TimeoutsRemaining: item.TimeoutsRemaining,
	}
}
