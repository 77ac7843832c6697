package stint

import "context"

// Repository exposes stint persistence. At most one stint per team per game
// may be active at any time; the tracker enforces this by closing active
// stints before opening a new one.
type Repository interface {
	Insert(ctx context.Context, item LineupStint) error
	Update(ctx context.Context, item LineupStint) error
	ListActiveByTeam(ctx context.Context, gameID, teamID string) ([]LineupStint, error)
	ListActiveByGame(ctx context.Context, gameID string) ([]LineupStint, error)
	ListByGame(ctx context.Context, gameID string) ([]LineupStint, error)
	ListByTeam(ctx context.Context, teamID string) ([]LineupStint, error)
}
