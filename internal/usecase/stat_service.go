package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/courtside/internal/domain/event"
	"github.com/riskibarqy/courtside/internal/domain/game"
	"github.com/riskibarqy/courtside/internal/domain/stats"
	"github.com/riskibarqy/courtside/internal/platform/logging"
)

// StatService applies discrete stat events to the per-player ledger and keeps
// the game score consistent with it. Ledger mutation, score adjustment, stint
// accrual and the event append happen inside one per-game critical section so
// concurrent scorekeepers always observe a consistent score.
type StatService struct {
	gameRepo  game.Repository
	statsRepo stats.Repository
	eventSvc  *EventService
	stintSvc  *StintService
	logger    *logging.Logger
	now       func() time.Time

	mu        sync.Mutex
	gameLocks map[string]*sync.Mutex
}

func NewStatService(
	gameRepo game.Repository,
	statsRepo stats.Repository,
	eventSvc *EventService,
	stintSvc *StintService,
	logger *logging.Logger,
) *StatService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StatService{
		gameRepo:  gameRepo,
		statsRepo: statsRepo,
		eventSvc:  eventSvc,
		stintSvc:  stintSvc,
		logger:    logger,
		now:       time.Now,
		gameLocks: make(map[string]*sync.Mutex),
	}
}

// RecordStatInput describes one discrete stat occurrence.
type RecordStatInput struct {
	GameID   string
	PlayerID string
	StatType stats.StatType
	Made     bool
	// Offensive marks a rebound as offensive; rebounds land in the
	// defensive bucket otherwise.
	Offensive bool
	Value     int
}

// Record applies one stat event: ledger delta, score adjustment when points
// were scored, plus/minus accrual into active stints, and an event append.
func (s *StatService) Record(ctx context.Context, input RecordStatInput) (stats.PlayerStat, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatService.Record")
	defer span.End()

	return s.apply(ctx, input, false)
}

// Undo is the exact inverse of a prior Record with the same input: the same
// counters decrement, floored at zero, and the score drops if the original
// was a make. The original GameEvent stays in the log.
func (s *StatService) Undo(ctx context.Context, input RecordStatInput) (stats.PlayerStat, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatService.Undo")
	defer span.End()

	return s.apply(ctx, input, true)
}

func (s *StatService) apply(ctx context.Context, input RecordStatInput, inverse bool) (stats.PlayerStat, error) {
	if !input.StatType.Valid() {
		return stats.PlayerStat{}, fmt.Errorf("%w: unknown stat type %q", ErrInvalidInput, input.StatType)
	}

	unlock := s.lockGame(input.GameID)
	defer unlock()

	g, ok, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return stats.PlayerStat{}, fmt.Errorf("get game for stat: %w", err)
	}
	if !ok {
		return stats.PlayerStat{}, fmt.Errorf("%w: game %s", ErrNotFound, input.GameID)
	}

	row, ok, err := s.statsRepo.GetPlayerStat(ctx, input.GameID, input.PlayerID)
	if err != nil {
		return stats.PlayerStat{}, fmt.Errorf("get player stat: %w", err)
	}
	if !ok {
		return stats.PlayerStat{}, fmt.Errorf("%w: player %s has no ledger row in game %s", ErrNotFound, input.PlayerID, input.GameID)
	}

	value := input.Value
	if value <= 0 {
		value = 1
	}

	points := applyDelta(&row, input, value, inverse)

	if input.StatType == stats.StatFoul && g.Settings.FoulLimit > 0 {
		row.FouledOut = row.Fouls >= g.Settings.FoulLimit
	}

	if err := s.statsRepo.UpdatePlayerStat(ctx, row); err != nil {
		return stats.PlayerStat{}, fmt.Errorf("update player stat: %w", err)
	}

	if err := s.applyTeamDelta(ctx, g, row.TeamID, input.StatType, value, inverse); err != nil {
		return stats.PlayerStat{}, err
	}

	if points != 0 {
		if row.TeamID == g.HomeTeamID {
			g.HomeScore = floorZero(g.HomeScore + points)
		} else {
			g.AwayScore = floorZero(g.AwayScore + points)
		}
		g.UpdatedAt = s.now().UTC()
		if err := s.gameRepo.Update(ctx, g); err != nil {
			return stats.PlayerStat{}, fmt.Errorf("update game score: %w", err)
		}

		if err := s.stintSvc.OnPointsScored(ctx, g.ID, row.TeamID, points); err != nil {
			return stats.PlayerStat{}, err
		}
	}

	if !inverse {
		if err := s.appendStatEvent(ctx, g, row, input, points); err != nil {
			return stats.PlayerStat{}, err
		}
	}

	return row, nil
}

// applyDelta mutates the ledger row for one stat occurrence and returns the
// signed point swing. Attempts and makes are independent monotone counters
// within one call; undo floors every counter at zero.
func applyDelta(row *stats.PlayerStat, input RecordStatInput, value int, inverse bool) int {
	statType, made := input.StatType, input.Made
	step := 1
	if inverse {
		step = -1
	}

	points := 0
	switch statType {
	case stats.StatShot2:
		row.FieldGoalsAttempted = floorZero(row.FieldGoalsAttempted + step)
		if made {
			row.FieldGoalsMade = floorZero(row.FieldGoalsMade + step)
			points = 2 * step
		}
	case stats.StatShot3:
		row.FieldGoalsAttempted = floorZero(row.FieldGoalsAttempted + step)
		row.ThreePointersAttempted = floorZero(row.ThreePointersAttempted + step)
		if made {
			row.FieldGoalsMade = floorZero(row.FieldGoalsMade + step)
			row.ThreePointersMade = floorZero(row.ThreePointersMade + step)
			points = 3 * step
		}
	case stats.StatFreeThrow:
		row.FreeThrowsAttempted = floorZero(row.FreeThrowsAttempted + step)
		if made {
			row.FreeThrowsMade = floorZero(row.FreeThrowsMade + step)
			points = step
		}
	case stats.StatRebound:
		if input.Offensive {
			row.OffensiveRebounds = floorZero(row.OffensiveRebounds + step*value)
		} else {
			row.DefensiveRebounds = floorZero(row.DefensiveRebounds + step*value)
		}
	case stats.StatAssist:
		row.Assists = floorZero(row.Assists + step*value)
	case stats.StatSteal:
		row.Steals = floorZero(row.Steals + step*value)
	case stats.StatBlock:
		row.Blocks = floorZero(row.Blocks + step*value)
	case stats.StatTurnover:
		row.Turnovers = floorZero(row.Turnovers + step*value)
	case stats.StatFoul:
		row.Fouls = floorZero(row.Fouls + step*value)
	}

	row.Points = floorZero(row.Points + points)
	return points
}

func (s *StatService) applyTeamDelta(ctx context.Context, g game.Game, teamID string, statType stats.StatType, value int, inverse bool) error {
	if statType != stats.StatRebound && statType != stats.StatFoul {
		return nil
	}

	ts, err := s.teamStat(ctx, g, teamID)
	if err != nil {
		return err
	}

	step := value
	if inverse {
		step = -value
	}

	switch statType {
	case stats.StatRebound:
		ts.Rebounds = floorZero(ts.Rebounds + step)
	case stats.StatFoul:
		ts.Fouls = floorZero(ts.Fouls + step)
		label := game.PeriodLabel(g.CurrentQuarter)
		ts.FoulsByPeriod[label] = floorZero(ts.FoulsByPeriod[label] + step)
	}

	if err := s.statsRepo.UpsertTeamStat(ctx, ts); err != nil {
		return fmt.Errorf("upsert team stat: %w", err)
	}
	return nil
}

// RecordTimeout burns one of a team's remaining timeouts and logs it.
func (s *StatService) RecordTimeout(ctx context.Context, gameID, teamID string) (stats.TeamStat, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatService.RecordTimeout")
	defer span.End()

	unlock := s.lockGame(gameID)
	defer unlock()

	g, ok, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return stats.TeamStat{}, fmt.Errorf("get game for timeout: %w", err)
	}
	if !ok {
		return stats.TeamStat{}, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}

	ts, err := s.teamStat(ctx, g, teamID)
	if err != nil {
		return stats.TeamStat{}, err
	}
	if ts.TimeoutsRemaining <= 0 {
		return stats.TeamStat{}, fmt.Errorf("%w: team %s has no timeouts remaining", ErrInvalidTransition, teamID)
	}

	ts.TimeoutsRemaining--
	if err := s.statsRepo.UpsertTeamStat(ctx, ts); err != nil {
		return stats.TeamStat{}, fmt.Errorf("upsert team stat: %w", err)
	}

	if err := s.eventSvc.Append(ctx, event.GameEvent{
		GameID:      gameID,
		EventType:   event.TypeTimeout,
		Quarter:     g.CurrentQuarter,
		GameTime:    g.TimeRemainingSeconds,
		TeamID:      teamID,
		Details:     map[string]any{"remaining": ts.TimeoutsRemaining},
		Description: "Timeout",
	}); err != nil {
		return stats.TeamStat{}, err
	}

	return ts, nil
}

// Substitute flips the on-court flag only. Reworking the five-man unit into
// a stint boundary is the caller's responsibility once the new unit is known.
func (s *StatService) Substitute(ctx context.Context, gameID, playerID string, onCourt bool) (stats.PlayerStat, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatService.Substitute")
	defer span.End()

	unlock := s.lockGame(gameID)
	defer unlock()

	g, ok, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return stats.PlayerStat{}, fmt.Errorf("get game for substitution: %w", err)
	}
	if !ok {
		return stats.PlayerStat{}, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}

	row, ok, err := s.statsRepo.GetPlayerStat(ctx, gameID, playerID)
	if err != nil {
		return stats.PlayerStat{}, fmt.Errorf("get player stat for substitution: %w", err)
	}
	if !ok {
		return stats.PlayerStat{}, fmt.Errorf("%w: player %s has no ledger row in game %s", ErrNotFound, playerID, gameID)
	}

	row.OnCourt = onCourt
	if err := s.statsRepo.UpdatePlayerStat(ctx, row); err != nil {
		return stats.PlayerStat{}, fmt.Errorf("update on-court flag: %w", err)
	}

	direction := "out"
	if onCourt {
		direction = "in"
	}
	if err := s.eventSvc.Append(ctx, event.GameEvent{
		GameID:      gameID,
		EventType:   event.TypeSubstitution,
		Quarter:     g.CurrentQuarter,
		GameTime:    g.TimeRemainingSeconds,
		PlayerID:    playerID,
		TeamID:      row.TeamID,
		Details:     map[string]any{"onCourt": onCourt},
		Description: fmt.Sprintf("Substitution %s", direction),
	}); err != nil {
		return stats.PlayerStat{}, err
	}

	return row, nil
}

// UpdateMinutes overwrites a player's minutes-played total.
func (s *StatService) UpdateMinutes(ctx context.Context, gameID, playerID string, minutes int) (stats.PlayerStat, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatService.UpdateMinutes")
	defer span.End()

	if minutes < 0 {
		return stats.PlayerStat{}, fmt.Errorf("%w: minutes cannot be negative", ErrInvalidInput)
	}

	unlock := s.lockGame(gameID)
	defer unlock()

	row, ok, err := s.statsRepo.GetPlayerStat(ctx, gameID, playerID)
	if err != nil {
		return stats.PlayerStat{}, fmt.Errorf("get player stat for minutes: %w", err)
	}
	if !ok {
		return stats.PlayerStat{}, fmt.Errorf("%w: player %s has no ledger row in game %s", ErrNotFound, playerID, gameID)
	}

	row.MinutesPlayed = minutes
	if err := s.statsRepo.UpdatePlayerStat(ctx, row); err != nil {
		return stats.PlayerStat{}, fmt.Errorf("update minutes played: %w", err)
	}

	return row, nil
}

func (s *StatService) appendStatEvent(ctx context.Context, g game.Game, row stats.PlayerStat, input RecordStatInput, points int) error {
	eventType := event.TypeShot
	details := map[string]any{}

	switch input.StatType {
	case stats.StatShot2, stats.StatShot3, stats.StatFreeThrow:
		details["made"] = input.Made
		details["isHomeTeam"] = row.TeamID == g.HomeTeamID
		if input.Made {
			details["points"] = points
		}
		if input.StatType == stats.StatFreeThrow {
			details["freeThrow"] = true
		}
		if input.StatType == stats.StatShot3 {
			details["zone"] = "three"
		}
	case stats.StatRebound:
		eventType = event.TypeRebound
		details["offensive"] = input.Offensive
	case stats.StatAssist:
		eventType = event.TypeAssist
	case stats.StatSteal:
		eventType = event.TypeSteal
	case stats.StatBlock:
		eventType = event.TypeBlock
	case stats.StatTurnover:
		eventType = event.TypeTurnover
	case stats.StatFoul:
		eventType = event.TypeFoul
		details["fouledOut"] = row.FouledOut
	}

	return s.eventSvc.Append(ctx, event.GameEvent{
		GameID:      g.ID,
		EventType:   eventType,
		Quarter:     g.CurrentQuarter,
		GameTime:    g.TimeRemainingSeconds,
		PlayerID:    input.PlayerID,
		TeamID:      row.TeamID,
		Details:     details,
		Description: statDescription(input, points),
	})
}

func statDescription(input RecordStatInput, points int) string {
	switch input.StatType {
	case stats.StatShot2, stats.StatShot3:
		if input.Made {
			return fmt.Sprintf("Made %d-point shot", points)
		}
		attempt := 2
		if input.StatType == stats.StatShot3 {
			attempt = 3
		}
		return fmt.Sprintf("Missed %d-point shot", attempt)
	case stats.StatFreeThrow:
		if input.Made {
			return "Made free throw"
		}
		return "Missed free throw"
	}
	return string(input.StatType)
}

// teamStat lazily materializes the team aggregate with configured defaults.
func (s *StatService) teamStat(ctx context.Context, g game.Game, teamID string) (stats.TeamStat, error) {
	ts, ok, err := s.statsRepo.GetTeamStat(ctx, g.ID, teamID)
	if err != nil {
		return stats.TeamStat{}, fmt.Errorf("get team stat: %w", err)
	}
	if !ok {
		ts = stats.TeamStat{
			GameID:            g.ID,
			TeamID:            teamID,
			TimeoutsRemaining: g.Settings.TimeoutsPerTeam,
		}
	}
	if ts.FoulsByPeriod == nil {
		ts.FoulsByPeriod = make(map[string]int)
	}
	return ts, nil
}

func (s *StatService) lockGame(gameID string) func() {
	s.mu.Lock()
	lock, ok := s.gameLocks[gameID]
	if !ok {
		lock = &sync.Mutex{}
		s.gameLocks[gameID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
