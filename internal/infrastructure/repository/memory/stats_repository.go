package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/courtside/internal/domain/stats"
)

type StatsRepository struct {
	mu      sync.RWMutex
	players map[string]stats.PlayerStat
	teams   map[string]stats.TeamStat
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{
		players: make(map[string]stats.PlayerStat),
		teams:   make(map[string]stats.TeamStat),
	}
}

func (r *StatsRepository) GetPlayerStat(_ context.Context, gameID, playerID string) (stats.PlayerStat, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.players[statKey(gameID, playerID)]
	if !ok {
		return stats.PlayerStat{}, false, nil
	}

	return item, true, nil
}

func (r *StatsRepository) ListPlayerStatsByGame(_ context.Context, gameID string) ([]stats.PlayerStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.PlayerStat, 0)
	for _, item := range r.players {
		if item.GameID == gameID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}

func (r *StatsRepository) InsertPlayerStats(_ context.Context, items []stats.PlayerStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.players[statKey(item.GameID, item.PlayerID)] = item
	}
	return nil
}

func (r *StatsRepository) UpdatePlayerStat(_ context.Context, item stats.PlayerStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[statKey(item.GameID, item.PlayerID)] = item
	return nil
}

func (r *StatsRepository) GetTeamStat(_ context.Context, gameID, teamID string) (stats.TeamStat, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[statKey(gameID, teamID)]
	if !ok {
		return stats.TeamStat{}, false, nil
	}

	return cloneTeamStat(item), true, nil
}

func (r *StatsRepository) ListTeamStatsByGame(_ context.Context, gameID string) ([]stats.TeamStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.TeamStat, 0)
	for _, item := range r.teams {
		if item.GameID == gameID {
			out = append(out, cloneTeamStat(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })

	return out, nil
}

func (r *StatsRepository) UpsertTeamStat(_ context.Context, item stats.TeamStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.teams[statKey(item.GameID, item.TeamID)] = cloneTeamStat(item)
	return nil
}

func statKey(gameID, ownerID string) string {
	return gameID + "::" + ownerID
}

func cloneTeamStat(item stats.TeamStat) stats.TeamStat {
	copied := item
	if item.FoulsByPeriod != nil {
		copied.FoulsByPeriod = make(map[string]int, len(item.FoulsByPeriod))
		for k, v := range item.FoulsByPeriod {
			copied.FoulsByPeriod[k] = v
		}
	}
	return copied
}
