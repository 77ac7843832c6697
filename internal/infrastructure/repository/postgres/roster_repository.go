package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/courtside/internal/domain/roster"
	qb "github.com/riskibarqy/courtside/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

type teamTableModel struct {
	ID       string `db:"public_id"`
	LeagueID string `db:"league_public_id"`
	Name     string `db:"name"`
	Short    string `db:"short"`
}

type playerTableModel struct {
	ID       string `db:"public_id"`
	TeamID   string `db:"team_public_id"`
	LeagueID string `db:"league_public_id"`
	Name     string `db:"name"`
	Number   int    `db:"number"`
	Position string `db:"position"`
	IsActive bool   `db:"is_active"`
}

func (r *RosterRepository) GetTeam(ctx context.Context, teamID string) (roster.Team, bool, error) {
	query, args, err := qb.Select("public_id", "league_public_id", "name", "short").
		From("teams").
		Where(qb.Eq("public_id", teamID)).
		ToSQL()
	if err != nil {
		return roster.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Team{}, false, nil
		}
		return roster.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return roster.Team{ID: row.ID, LeagueID: row.LeagueID, Name: row.Name, Short: row.Short}, true, nil
}

func (r *RosterRepository) ListTeamsByLeague(ctx context.Context, leagueID string) ([]roster.Team, error) {
	query, args, err := qb.Select("public_id", "league_public_id", "name", "short").
		From("teams").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]roster.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, roster.Team{ID: row.ID, LeagueID: row.LeagueID, Name: row.Name, Short: row.Short})
	}
	return out, nil
}

func (r *RosterRepository) ListActivePlayersByTeam(ctx context.Context, teamID string) ([]roster.Player, error) {
	query, args, err := qb.Select("public_id", "team_public_id", "league_public_id", "name", "number", "position", "is_active").
		From("players").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("is_active", true),
		).
		OrderBy("number", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]roster.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, roster.Player{
			ID:       row.ID,
			TeamID:   row.TeamID,
			LeagueID: row.LeagueID,
			Name:     row.Name,
			Number:   row.Number,
			Position: row.Position,
			IsActive: row.IsActive,
		})
	}
	return out, nil
}
