package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/courtside/internal/domain/roster"
)

type RosterRepository struct {
	mu            sync.RWMutex
	teams         map[string]roster.Team
	teamsByLeague map[string][]string
	playersByTeam map[string][]roster.Player
}

func NewRosterRepository(teams []roster.Team, players []roster.Player) *RosterRepository {
	teamIndex := make(map[string]roster.Team, len(teams))
	teamsByLeague := make(map[string][]string)
	playersByTeam := make(map[string][]roster.Player)

	for _, t := range teams {
		teamIndex[t.ID] = t
		teamsByLeague[t.LeagueID] = append(teamsByLeague[t.LeagueID], t.ID)
	}
	for _, p := range players {
		playersByTeam[p.TeamID] = append(playersByTeam[p.TeamID], p)
	}

	return &RosterRepository{
		teams:         teamIndex,
		teamsByLeague: teamsByLeague,
		playersByTeam: playersByTeam,
	}
}

func (r *RosterRepository) GetTeam(_ context.Context, teamID string) (roster.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[teamID]
	if !ok {
		return roster.Team{}, false, nil
	}

	return t, true, nil
}

func (r *RosterRepository) ListTeamsByLeague(_ context.Context, leagueID string) ([]roster.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.teamsByLeague[leagueID]
	out := make([]roster.Team, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.teams[id])
	}

	return out, nil
}

func (r *RosterRepository) ListActivePlayersByTeam(_ context.Context, teamID string) ([]roster.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := r.playersByTeam[teamID]
	out := make([]roster.Player, 0, len(players))
	for _, p := range players {
		if p.IsActive {
			out = append(out, p)
		}
	}

	return out, nil
}
