package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/courtside/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	items map[string]game.Game
}

func NewGameRepository() *GameRepository {
	return &GameRepository{items: make(map[string]game.Game)}
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[gameID]
	if !ok {
		return game.Game{}, false, nil
	}

	return cloneGame(item), true, nil
}

func (r *GameRepository) ListByLeague(_ context.Context, leagueID string) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, item := range r.items {
		if item.LeagueID == leagueID {
			out = append(out, cloneGame(item))
		}
	}

	return out, nil
}

func (r *GameRepository) Insert(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneGame(item)
	return nil
}

func (r *GameRepository) Update(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneGame(item)
	return nil
}

// Delete exists for the tick-halts-on-missing-game behavior; nothing in the
// engine deletes a game that has stats.
func (r *GameRepository) Delete(_ context.Context, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, gameID)
	return nil
}

func cloneGame(item game.Game) game.Game {
	copied := item
	copied.Settings.HomeStarters = append([]string(nil), item.Settings.HomeStarters...)
	copied.Settings.AwayStarters = append([]string(nil), item.Settings.AwayStarters...)
	if item.Settings.PeriodScores != nil {
		copied.Settings.PeriodScores = make(map[string]game.PeriodScore, len(item.Settings.PeriodScores))
		for k, v := range item.Settings.PeriodScores {
			copied.Settings.PeriodScores[k] = v
		}
	}
	if item.ShotClockStartedAt != nil {
		t := *item.ShotClockStartedAt
		copied.ShotClockStartedAt = &t
	}
	if item.StartedAt != nil {
		t := *item.StartedAt
		copied.StartedAt = &t
	}
	if item.EndedAt != nil {
		t := *item.EndedAt
		copied.EndedAt = &t
	}
	return copied
}
