package roster

import "fmt"

// Team is a basketball team inside a league.
type Team struct {
	ID       string
	LeagueID string
	Name     string
	Short    string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("team league id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// Player is one roster entry. Inactive players stay on the roster so games
// that already recorded stats against them keep their ledger rows; membership
// is soft-disabled instead of deleted.
type Player struct {
	ID       string
	TeamID   string
	LeagueID string
	Name     string
	Number   int
	Position string
	IsActive bool
}
