package stats

import "context"

// Repository exposes ledger persistence. Upsert semantics for TeamStat allow
// lazy creation on the first write against a team.
type Repository interface {
	GetPlayerStat(ctx context.Context, gameID, playerID string) (PlayerStat, bool, error)
	ListPlayerStatsByGame(ctx context.Context, gameID string) ([]PlayerStat, error)
	InsertPlayerStats(ctx context.Context, items []PlayerStat) error
	UpdatePlayerStat(ctx context.Context, item PlayerStat) error
	GetTeamStat(ctx context.Context, gameID, teamID string) (TeamStat, bool, error)
	ListTeamStatsByGame(ctx context.Context, gameID string) ([]TeamStat, error)
	UpsertTeamStat(ctx context.Context, item TeamStat) error
}
