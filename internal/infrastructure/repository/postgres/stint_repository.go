package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/courtside/internal/domain/stint"
	qb "github.com/riskibarqy/courtside/internal/platform/querybuilder"
)

type StintRepository struct {
	db *sqlx.DB
}

func NewStintRepository(db *sqlx.DB) *StintRepository {
	return &StintRepository{db: db}
}

func lineupStintBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(lineupStintSelectColumns...).From("lineup_stints")
}

func (r *StintRepository) Insert(ctx context.Context, item stint.LineupStint) error {
	query, args, err := qb.InsertModel("lineup_stints", lineupStintToRow(item), "")
	if err != nil {
		return fmt.Errorf("build insert stint query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert stint: %w", err)
	}
	return nil
}

func (r *StintRepository) Update(ctx context.Context, item stint.LineupStint) error {
	query, args, err := qb.Update("lineup_stints").
		Set("end_quarter", item.EndQuarter).
		Set("end_game_time", item.EndGameTime).
		Set("seconds_played", item.SecondsPlayed).
		Set("points_scored", item.PointsScored).
		Set("points_allowed", item.PointsAllowed).
		Set("plus_minus", item.PlusMinus).
		Set("is_active", item.IsActive).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update stint query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update stint: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update stint %s: no row", item.ID)
	}
	return nil
}

func (r *StintRepository) ListActiveByTeam(ctx context.Context, gameID, teamID string) ([]stint.LineupStint, error) {
	return r.list(ctx,
		qb.Eq("game_public_id", gameID),
		qb.Eq("team_public_id", teamID),
		qb.Eq("is_active", true),
	)
}

func (r *StintRepository) ListActiveByGame(ctx context.Context, gameID string) ([]stint.LineupStint, error) {
	return r.list(ctx,
		qb.Eq("game_public_id", gameID),
		qb.Eq("is_active", true),
	)
}

func (r *StintRepository) ListByGame(ctx context.Context, gameID string) ([]stint.LineupStint, error) {
	return r.list(ctx, qb.Eq("game_public_id", gameID))
}

func (r *StintRepository) ListByTeam(ctx context.Context, teamID string) ([]stint.LineupStint, error) {
	return r.list(ctx, qb.Eq("team_public_id", teamID))
}

func (r *StintRepository) list(ctx context.Context, conditions ...qb.Condition) ([]stint.LineupStint, error) {
	query, args, err := lineupStintBaseSelectBuilder().
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list stints query: %w", err)
	}

	var rows []lineupStintTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list stints: %w", err)
	}

	out := make([]stint.LineupStint, 0, len(rows))
	for _, row := range rows {
		out = append(out, lineupStintFromRow(row))
	}
	return out, nil
}
