package game

import "context"

// Repository exposes game persistence operations. Update must behave as an
// atomic replace of the row identified by game.ID so racing callers never
// observe a partially-written clock or score.
type Repository interface {
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Game, error)
	Insert(ctx context.Context, item Game) error
	Update(ctx context.Context, item Game) error
}
