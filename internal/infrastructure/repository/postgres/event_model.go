package postgres

import (
	"time"

	"github.com/riskibarqy/courtside/internal/domain/event"
)

type gameEventTableModel struct {
	ID          string    `db:"public_id"`
	GameID      string    `db:"game_public_id"`
	EventType   string    `db:"event_type"`
	Quarter     int       `db:"quarter"`
	GameTime    int       `db:"game_time"`
	Timestamp   time.Time `db:"occurred_at"`
	PlayerID    string    `db:"player_public_id"`
	TeamID      string    `db:"team_public_id"`
	Details     string    `db:"details"`
	Description string    `db:"description"`
}

var gameEventSelectColumns = []string{
	"public_id",
	"game_public_id",
	"event_type",
	"quarter",
	"game_time",
	"occurred_at",
	"player_public_id",
	"team_public_id",
	"details",
	"description",
}

func gameEventFromRow(row gameEventTableModel) event.GameEvent {
	item := event.GameEvent{
		ID:          row.ID,
		GameID:      row.GameID,
		EventType:   event.Type(row.EventType),
		Quarter:     row.Quarter,
		GameTime:    row.GameTime,
		Timestamp:   row.Timestamp,
		PlayerID:    row.PlayerID,
		TeamID:      row.TeamID,
		Description: row.Description,
	}
	if decoded := decodeJSONMap[any](row.Details); len(decoded) > 0 {
		item.Details = decoded
	}
	return item
}

func gameEventToRow(item event.GameEvent) gameEventTableModel {
	return gameEventTableModel{
		ID:          item.ID,
		GameID:      item.GameID,
		EventType:   string(item.EventType),
		Quarter:     item.Quarter,
		GameTime:    item.GameTime,
		Timestamp:   item.Timestamp,
		PlayerID:    item.PlayerID,
		TeamID:      item.TeamID,
		Details:     encodeJSONMap(item.Details),
		Description: item.Description,
	}
}
