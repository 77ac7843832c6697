package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/courtside/internal/domain/event"
	qb "github.com/riskibarqy/courtside/internal/platform/querybuilder"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func gameEventBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(gameEventSelectColumns...).From("game_events")
}

// Append only ever inserts; the log has no update or delete path.
func (r *EventRepository) Append(ctx context.Context, item event.GameEvent) error {
	query, args, err := qb.InsertModel("game_events", gameEventToRow(item), "")
	if err != nil {
		return fmt.Errorf("build append event query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (r *EventRepository) ListByGame(ctx context.Context, gameID string, limit int) ([]event.GameEvent, error) {
	builder := gameEventBaseSelectBuilder().
		Where(qb.Eq("game_public_id", gameID)).
		OrderBy("occurred_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list events query: %w", err)
	}

	var rows []gameEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]event.GameEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameEventFromRow(row))
	}
	return out, nil
}

func (r *EventRepository) ListChronological(ctx context.Context, gameID string) ([]event.GameEvent, error) {
	query, args, err := gameEventBaseSelectBuilder().
		Where(qb.Eq("game_public_id", gameID)).
		OrderBy("occurred_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list events chronological query: %w", err)
	}

	var rows []gameEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list events chronological: %w", err)
	}

	out := make([]event.GameEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameEventFromRow(row))
	}
	return out, nil
}
