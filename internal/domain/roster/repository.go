package roster

import "context"

// Repository supplies the roster data materialized into ledger rows at game
// creation. Roster CRUD itself lives with an external collaborator.
type Repository interface {
	GetTeam(ctx context.Context, teamID string) (Team, bool, error)
	ListTeamsByLeague(ctx context.Context, leagueID string) ([]Team, error)
	ListActivePlayersByTeam(ctx context.Context, teamID string) ([]Player, error)
}
