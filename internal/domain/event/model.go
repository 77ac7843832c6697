package event

import "time"

// Type classifies one game event.
type Type string

const (
	TypeShot          Type = "shot"
	TypeRebound       Type = "rebound"
	TypeAssist        Type = "assist"
	TypeSteal         Type = "steal"
	TypeBlock         Type = "block"
	TypeTurnover      Type = "turnover"
	TypeFoul          Type = "foul"
	TypeTimeout       Type = "timeout"
	TypeSubstitution  Type = "substitution"
	TypeQuarterStart  Type = "quarter_start"
	TypeQuarterEnd    Type = "quarter_end"
	TypeOvertimeStart Type = "overtime_start"
	TypeNote          Type = "note"
)

// GameEvent is one immutable entry in a game's append-only log. GameTime is
// seconds remaining in the period at the moment of the event, not wall clock;
// Timestamp orders events for display and timeline reconstruction.
type GameEvent struct {
	ID          string
	GameID      string
	EventType   Type
	Quarter     int
	GameTime    int
	Timestamp   time.Time
	PlayerID    string
	TeamID      string
	Details     map[string]any
	Description string
}
