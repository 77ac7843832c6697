package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/courtside/internal/domain/stint"
)

type StintRepository struct {
	mu    sync.RWMutex
	items map[string]stint.LineupStint
	order []string
}

func NewStintRepository() *StintRepository {
	return &StintRepository{items: make(map[string]stint.LineupStint)}
}

func (r *StintRepository) Insert(_ context.Context, item stint.LineupStint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		r.order = append(r.order, item.ID)
	}
	r.items[item.ID] = cloneStint(item)
	return nil
}

func (r *StintRepository) Update(_ context.Context, item stint.LineupStint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneStint(item)
	return nil
}

func (r *StintRepository) ListActiveByTeam(_ context.Context, gameID, teamID string) ([]stint.LineupStint, error) {
	return r.list(func(item stint.LineupStint) bool {
		return item.IsActive && item.GameID == gameID && item.TeamID == teamID
	})
}

func (r *StintRepository) ListActiveByGame(_ context.Context, gameID string) ([]stint.LineupStint, error) {
	return r.list(func(item stint.LineupStint) bool {
		return item.IsActive && item.GameID == gameID
	})
}

func (r *StintRepository) ListByGame(_ context.Context, gameID string) ([]stint.LineupStint, error) {
	return r.list(func(item stint.LineupStint) bool {
		return item.GameID == gameID
	})
}

func (r *StintRepository) ListByTeam(_ context.Context, teamID string) ([]stint.LineupStint, error) {
	return r.list(func(item stint.LineupStint) bool {
		return item.TeamID == teamID
	})
}

func (r *StintRepository) list(keep func(stint.LineupStint) bool) ([]stint.LineupStint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stint.LineupStint, 0)
	for _, id := range r.order {
		item := r.items[id]
		if keep(item) {
			out = append(out, cloneStint(item))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GameID != out[j].GameID {
			return out[i].GameID < out[j].GameID
		}
		if out[i].StartQuarter != out[j].StartQuarter {
			return out[i].StartQuarter < out[j].StartQuarter
		}
		return out[i].StartGameTime > out[j].StartGameTime
	})

	return out, nil
}

func cloneStint(item stint.LineupStint) stint.LineupStint {
	copied := item
	copied.Players = append([]string(nil), item.Players...)
	if item.EndQuarter != nil {
		v := *item.EndQuarter
		copied.EndQuarter = &v
	}
	if item.EndGameTime != nil {
		v := *item.EndGameTime
		copied.EndGameTime = &v
	}
	return copied
}
