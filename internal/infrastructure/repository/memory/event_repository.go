package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/courtside/internal/domain/event"
)

// EventRepository is append-only: no update or delete paths exist.
type EventRepository struct {
	mu    sync.RWMutex
	items map[string][]event.GameEvent
}

func NewEventRepository() *EventRepository {
	return &EventRepository{items: make(map[string][]event.GameEvent)}
}

func (r *EventRepository) Append(_ context.Context, item event.GameEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.GameID] = append(r.items[item.GameID], cloneEvent(item))
	return nil
}

func (r *EventRepository) ListByGame(_ context.Context, gameID string, limit int) ([]event.GameEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.items[gameID]
	out := make([]event.GameEvent, 0, len(items))
	for _, item := range items {
		out = append(out, cloneEvent(item))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *EventRepository) ListChronological(_ context.Context, gameID string) ([]event.GameEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.items[gameID]
	out := make([]event.GameEvent, 0, len(items))
	for _, item := range items {
		out = append(out, cloneEvent(item))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })

	return out, nil
}

func cloneEvent(item event.GameEvent) event.GameEvent {
	copied := item
	if item.Details != nil {
		copied.Details = make(map[string]any, len(item.Details))
		for k, v := range item.Details {
			copied.Details[k] = v
		}
	}
	return copied
}
