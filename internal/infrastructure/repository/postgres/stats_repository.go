package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/courtside/internal/domain/stats"
	qb "github.com/riskibarqy/courtside/internal/platform/querybuilder"
)

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func playerStatBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(playerStatSelectColumns...).From("player_stats")
}

func (r *StatsRepository) GetPlayerStat(ctx context.Context, gameID, playerID string) (stats.PlayerStat, bool, error) {
	query, args, err := playerStatBaseSelectBuilder().
		Where(
			qb.Eq("game_public_id", gameID),
			qb.Eq("player_public_id", playerID),
		).
		ToSQL()
	if err != nil {
		return stats.PlayerStat{}, false, fmt.Errorf("build get player stat query: %w", err)
	}

	var row playerStatTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return stats.PlayerStat{}, false, nil
		}
		return stats.PlayerStat{}, false, fmt.Errorf("get player stat: %w", err)
	}

	return playerStatFromRow(row), true, nil
}

func (r *StatsRepository) ListPlayerStatsByGame(ctx context.Context, gameID string) ([]stats.PlayerStat, error) {
	query, args, err := playerStatBaseSelectBuilder().
		Where(qb.Eq("game_public_id", gameID)).
		OrderBy("team_public_id", "player_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player stats query: %w", err)
	}

	var rows []playerStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}

	out := make([]stats.PlayerStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerStatFromRow(row))
	}
	return out, nil
}

// InsertPlayerStats writes the zeroed ledger rows materialized at game
// creation in one transaction so a half-created ledger never persists.
func (r *StatsRepository) InsertPlayerStats(ctx context.Context, items []stats.PlayerStat) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert player stats tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		query, args, err := qb.InsertModel("player_stats", playerStatToRow(item),
			"ON CONFLICT (game_public_id, player_public_id) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build insert player stat query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert player stat %s/%s: %w", item.GameID, item.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert player stats tx: %w", err)
	}
	return nil
}

func (r *StatsRepository) UpdatePlayerStat(ctx context.Context, item stats.PlayerStat) error {
	query, args, err := qb.Update("player_stats").
		Set("points", item.Points).
		Set("fgm", item.FieldGoalsMade).
		Set("fga", item.FieldGoalsAttempted).
		Set("tpm", item.ThreePointersMade).
		Set("tpa", item.ThreePointersAttempted).
		Set("ftm", item.FreeThrowsMade).
		Set("fta", item.FreeThrowsAttempted).
		Set("oreb", item.OffensiveRebounds).
		Set("dreb", item.DefensiveRebounds).
		Set("assists", item.Assists).
		Set("steals", item.Steals).
		Set("blocks", item.Blocks).
		Set("turnovers", item.Turnovers).
		Set("fouls", item.Fouls).
		Set("minutes_played", item.MinutesPlayed).
		Set("plus_minus", item.PlusMinus).
		Set("on_court", item.OnCourt).
		Set("fouled_out", item.FouledOut).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("game_public_id", item.GameID),
			qb.Eq("player_public_id", item.PlayerID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player stat query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update player stat: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update player stat %s/%s: no row", item.GameID, item.PlayerID)
	}
	return nil
}

func teamStatBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(teamStatSelectColumns...).From("team_stats")
}

func (r *StatsRepository) GetTeamStat(ctx context.Context, gameID, teamID string) (stats.TeamStat, bool, error) {
	query, args, err := teamStatBaseSelectBuilder().
		Where(
			qb.Eq("game_public_id", gameID),
			qb.Eq("team_public_id", teamID),
		).
		ToSQL()
	if err != nil {
		return stats.TeamStat{}, false, fmt.Errorf("build get team stat query: %w", err)
	}

	var row teamStatTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return stats.TeamStat{}, false, nil
		}
		return stats.TeamStat{}, false, fmt.Errorf("get team stat: %w", err)
	}

	return teamStatFromRow(row), true, nil
}

func (r *StatsRepository) ListTeamStatsByGame(ctx context.Context, gameID string) ([]stats.TeamStat, error) {
	query, args, err := teamStatBaseSelectBuilder().
		Where(qb.Eq("game_public_id", gameID)).
		OrderBy("team_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team stats query: %w", err)
	}

	var rows []teamStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team stats: %w", err)
	}

	out := make([]stats.TeamStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamStatFromRow(row))
	}
	return out, nil
}

func (r *StatsRepository) UpsertTeamStat(ctx context.Context, item stats.TeamStat) error {
	query, args, err := qb.InsertModel("team_stats", teamStatToRow(item), `ON CONFLICT (game_public_id, team_public_id) DO UPDATE SET
rebounds = EXCLUDED.rebounds,
fouls = EXCLUDED.fouls,
fouls_by_period = EXCLUDED.fouls_by_period,
timeouts_remaining = EXCLUDED.timeouts_remaining,
updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert team stat query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team stat: %w", err)
	}
	return nil
}
