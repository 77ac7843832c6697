package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/courtside/internal/domain/event"
	"github.com/riskibarqy/courtside/internal/domain/game"
	idgen "github.com/riskibarqy/courtside/internal/platform/id"
)

const defaultEventListLimit = 100

// EventService writes to and reads from a game's append-only log. Entries are
// immutable once written; corrections never retract them.
type EventService struct {
	eventRepo event.Repository
	idGen     idgen.Generator
	now       func() time.Time
}

func NewEventService(eventRepo event.Repository, idGen idgen.Generator) *EventService {
	if idGen == nil {
		idGen = idgen.NewRandomGenerator()
	}
	return &EventService{
		eventRepo: eventRepo,
		idGen:     idGen,
		now:       time.Now,
	}
}

// Append writes one event, stamping identity and wall-clock ordering.
func (s *EventService) Append(ctx context.Context, item event.GameEvent) error {
	id, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate event id: %w", err)
	}
	item.ID = id
	if item.Timestamp.IsZero() {
		item.Timestamp = s.now().UTC()
	}

	if err := s.eventRepo.Append(ctx, item); err != nil {
		return fmt.Errorf("append game event: %w", err)
	}
	return nil
}

// ListByGame returns the newest events first for scorekeeper display.
func (s *EventService) ListByGame(ctx context.Context, gameID string, limit int) ([]event.GameEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.ListByGame")
	defer span.End()

	if limit <= 0 {
		limit = defaultEventListLimit
	}
	items, err := s.eventRepo.ListByGame(ctx, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("list game events: %w", err)
	}
	return items, nil
}

// ListChronological returns the full log oldest-first for analytics.
func (s *EventService) ListChronological(ctx context.Context, gameID string) ([]event.GameEvent, error) {
	items, err := s.eventRepo.ListChronological(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list game events chronologically: %w", err)
	}
	return items, nil
}

func (s *EventService) AppendQuarterStart(ctx context.Context, g game.Game) error {
	return s.Append(ctx, event.GameEvent{
		GameID:      g.ID,
		EventType:   event.TypeQuarterStart,
		Quarter:     g.CurrentQuarter,
		GameTime:    g.TimeRemainingSeconds,
		Description: fmt.Sprintf("Start of %s", game.PeriodLabel(g.CurrentQuarter)),
	})
}

func (s *EventService) AppendQuarterEnd(ctx context.Context, g game.Game, isGameEnd bool) error {
	item := event.GameEvent{
		GameID:      g.ID,
		EventType:   event.TypeQuarterEnd,
		Quarter:     g.CurrentQuarter,
		GameTime:    0,
		Description: fmt.Sprintf("End of %s", game.PeriodLabel(g.CurrentQuarter)),
	}
	if isGameEnd {
		item.Details = map[string]any{"isGameEnd": true}
		item.Description = fmt.Sprintf("End of game after %s", game.PeriodLabel(g.CurrentQuarter))
	}
	return s.Append(ctx, item)
}

// AppendQuarterCorrection logs the synthetic boundary pair a manual quarter
// change produces.
func (s *EventService) AppendQuarterCorrection(ctx context.Context, g game.Game, previousQuarter int) error {
	if err := s.Append(ctx, event.GameEvent{
		GameID:      g.ID,
		EventType:   event.TypeQuarterEnd,
		Quarter:     previousQuarter,
		GameTime:    0,
		Details:     map[string]any{"manual": true},
		Description: fmt.Sprintf("End of %s (manual correction)", game.PeriodLabel(previousQuarter)),
	}); err != nil {
		return err
	}
	return s.Append(ctx, event.GameEvent{
		GameID:      g.ID,
		EventType:   event.TypeQuarterStart,
		Quarter:     g.CurrentQuarter,
		GameTime:    g.TimeRemainingSeconds,
		Details:     map[string]any{"manual": true},
		Description: fmt.Sprintf("Start of %s (manual correction)", game.PeriodLabel(g.CurrentQuarter)),
	})
}

func (s *EventService) AppendOvertimeStart(ctx context.Context, g game.Game) error {
	return s.Append(ctx, event.GameEvent{
		GameID:      g.ID,
		EventType:   event.TypeOvertimeStart,
		Quarter:     g.CurrentQuarter,
		GameTime:    g.TimeRemainingSeconds,
		Description: fmt.Sprintf("%s begins", game.PeriodLabel(g.CurrentQuarter)),
	})
}
