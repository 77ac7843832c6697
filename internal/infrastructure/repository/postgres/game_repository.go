package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/courtside/internal/domain/game"
	qb "github.com/riskibarqy/courtside/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func gameBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(gameSelectColumns...).From("games")
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := gameBaseSelectBuilder().
		Where(qb.Eq("public_id", gameID)).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) ListByLeague(ctx context.Context, leagueID string) ([]game.Game, error) {
	query, args, err := gameBaseSelectBuilder().
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("scheduled_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games by league query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list games by league: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *GameRepository) Insert(ctx context.Context, item game.Game) error {
	query, args, err := qb.InsertModel("games", gameToInsertModel(item), "")
	if err != nil {
		return fmt.Errorf("build insert game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// Update rewrites the whole row in one statement so a racing reader never
// sees the clock and score from different writes.
func (r *GameRepository) Update(ctx context.Context, item game.Game) error {
	query, args, err := qb.Update("games").
		Set("status", string(item.Status)).
		Set("current_quarter", item.CurrentQuarter).
		Set("time_remaining_seconds", item.TimeRemainingSeconds).
		Set("shot_clock_seconds", item.ShotClockSeconds).
		Set("shot_clock_started_at", item.ShotClockStartedAt).
		Set("home_score", item.HomeScore).
		Set("away_score", item.AwayScore).
		Set("quarter_minutes", item.Settings.QuarterMinutes).
		Set("overtime_minutes", item.Settings.OvertimeMinutes).
		Set("foul_limit", item.Settings.FoulLimit).
		Set("timeouts_per_team", item.Settings.TimeoutsPerTeam).
		Set("period_scores", encodePeriodScores(item.Settings.PeriodScores)).
		Set("home_starters", pqStringArray(item.Settings.HomeStarters)).
		Set("away_starters", pqStringArray(item.Settings.AwayStarters)).
		Set("started_at", item.StartedAt).
		Set("ended_at", item.EndedAt).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update game %s: no row", item.ID)
	}
	return nil
}
