package event

import "context"

// Repository is append-only: events are never updated or deleted once
// written. ListByGame returns newest-first for display; ListChronological
// returns oldest-first for analytics reconstruction.
type Repository interface {
	Append(ctx context.Context, item GameEvent) error
	ListByGame(ctx context.Context, gameID string, limit int) ([]GameEvent, error)
	ListChronological(ctx context.Context, gameID string) ([]GameEvent, error)
}
