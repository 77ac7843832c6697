package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/courtside/internal/domain/game"
	"github.com/riskibarqy/courtside/internal/domain/stats"
	"github.com/riskibarqy/courtside/internal/domain/stint"
	"github.com/riskibarqy/courtside/internal/platform/logging"
)

const tickOperationTimeout = 5 * time.Second

// ClockService owns the game-clock state machine and the shot clock. The
// running clock is a self-rescheduling tick: each tick does one second of
// work and re-enqueues itself only while the game is still active. A tick
// that observes any other status is a no-op, so a pause or end racing an
// already-scheduled tick can never resurrect the clock.
type ClockService struct {
	gameRepo  game.Repository
	statsRepo stats.Repository
	eventSvc  *EventService
	stintSvc  *StintService
	notifier  Notifier
	logger    *logging.Logger
	now       func() time.Time

	tickInterval time.Duration
	mu           sync.Mutex
	timers       map[string]*time.Timer
}

func NewClockService(
	gameRepo game.Repository,
	statsRepo stats.Repository,
	eventSvc *EventService,
	stintSvc *StintService,
	notifier Notifier,
	logger *logging.Logger,
) *ClockService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &ClockService{
		gameRepo:     gameRepo,
		statsRepo:    statsRepo,
		eventSvc:     eventSvc,
		stintSvc:     stintSvc,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
		tickInterval: time.Second,
		timers:       make(map[string]*time.Timer),
	}
}

// Start moves a scheduled game into its ready state: starters on court, an
// opening stint per team, and the clock loaded but frozen. The clock never
// runs until an explicit Resume. Starting an already-started paused game is
// a no-op.
func (s *ClockService) Start(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockService.Start")
	defer span.End()

	g, err := s.mustGetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}

	switch g.Status {
	case game.StatusPaused:
		return g, nil
	case game.StatusScheduled:
	default:
		return game.Game{}, fmt.Errorf("%w: cannot start game in status %q", ErrInvalidTransition, g.Status)
	}

	now := s.now().UTC()
	g.Status = game.StatusPaused
	g.CurrentQuarter = 1
	g.TimeRemainingSeconds = g.Settings.QuarterSeconds()
	g.StartedAt = &now
	g.UpdatedAt = now

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist game start: %w", err)
	}

	for _, teamID := range []string{g.HomeTeamID, g.AwayTeamID} {
		starters, err := s.resolveStarters(ctx, g, teamID)
		if err != nil {
			return game.Game{}, err
		}
		if err := s.putOnCourt(ctx, gameID, starters); err != nil {
			return game.Game{}, err
		}
		if _, err := s.stintSvc.StartStint(ctx, StartStintInput{
			GameID:   gameID,
			TeamID:   teamID,
			Players:  starters,
			Quarter:  1,
			GameTime: g.TimeRemainingSeconds,
		}); err != nil {
			return game.Game{}, err
		}
	}

	if err := s.eventSvc.AppendQuarterStart(ctx, g); err != nil {
		return game.Game{}, err
	}

	s.logger.InfoContext(ctx, "game started", "game_id", gameID)
	return g, nil
}

// Pause freezes the running clock and snapshots the shot clock's live value
// so no elapsed time is lost between pause and the next resume.
func (s *ClockService) Pause(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockService.Pause")
	defer span.End()

	g, err := s.mustGetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.Status != game.StatusActive {
		return game.Game{}, fmt.Errorf("%w: cannot pause game in status %q", ErrInvalidTransition, g.Status)
	}

	s.stopTimer(gameID)

	g.Status = game.StatusPaused
	s.freezeShotClock(&g)
	g.UpdatedAt = s.now().UTC()

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist game pause: %w", err)
	}

	return g, nil
}

// Resume sets the game running and schedules the first tick one interval out.
func (s *ClockService) Resume(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockService.Resume")
	defer span.End()

	g, err := s.mustGetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.Status != game.StatusPaused {
		return game.Game{}, fmt.Errorf("%w: cannot resume game in status %q", ErrInvalidTransition, g.Status)
	}

	g.Status = game.StatusActive
	g.UpdatedAt = s.now().UTC()

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist game resume: %w", err)
	}

	s.scheduleTick(gameID)
	return g, nil
}

// End completes the game. All four regulation quarters must have been played
// out unless forceEnd overrides; every active stint is closed at the current
// clock and the league is notified.
func (s *ClockService) End(ctx context.Context, gameID string, forceEnd bool) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockService.End")
	defer span.End()

	g, err := s.mustGetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.Status == game.StatusCompleted {
		return game.Game{}, fmt.Errorf("%w: game is already completed", ErrInvalidTransition)
	}

	regulationDone := g.CurrentQuarter > game.RegulationQuarters ||
		(g.CurrentQuarter == game.RegulationQuarters && g.TimeRemainingSeconds == 0)
	if !regulationDone && !forceEnd {
		return game.Game{}, fmt.Errorf("%w: all %d regulation quarters must be completed before ending (use forceEnd to override)",
			ErrInvalidTransition, game.RegulationQuarters)
	}

	s.stopTimer(gameID)

	if err := s.stintSvc.EndAllStints(ctx, gameID, g.CurrentQuarter, g.TimeRemainingSeconds); err != nil {
		return game.Game{}, err
	}

	now := s.now().UTC()
	g.Status = game.StatusCompleted
	s.freezeShotClock(&g)
	g.EndedAt = &now
	g.UpdatedAt = now

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist game end: %w", err)
	}

	s.notifyGameEnd(ctx, g)
	return g, nil
}

// Reactivate reopens an accidentally completed game into the paused state.
func (s *ClockService) Reactivate(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockService.Reactivate")
	defer span.End()

	g, err := s.mustGetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.Status != game.StatusCompleted {
		return game.Game{}, fmt.Errorf("%w: only a completed game can be reactivated", ErrInvalidTransition)
	}

	g.Status = game.StatusPaused
	g.EndedAt = nil
	g.UpdatedAt = s.now().UTC()

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist game reactivate: %w", err)
	}

	s.logger.InfoContext(ctx, "game reactivated", "game_id", gameID)
	return g, nil
}

// SetQuarter is the manual correction path. A quarter change logs a synthetic
// quarter_end/quarter_start pair; a running clock is forced paused first.
func (s *ClockService) SetQuarter(ctx context.Context, gameID string, quarter int, resetClock bool) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockService.SetQuarter")
	defer span.End()

	if quarter < 1 {
		return game.Game{}, fmt.Errorf("%w: quarter must be >= 1", ErrInvalidInput)
	}

	g, err := s.mustGetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}

	if g.Status == game.StatusActive {
		s.stopTimer(gameID)
		g.Status = game.StatusPaused
		s.freezeShotClock(&g)
	}

	previous := g.CurrentQuarter
	g.CurrentQuarter = quarter
	if resetClock {
		g.TimeRemainingSeconds = g.Settings.PeriodSeconds(quarter)
	}
	g.UpdatedAt = s.now().UTC()

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist set quarter: %w", err)
	}

	if quarter != previous {
		if err := s.eventSvc.AppendQuarterCorrection(ctx, g, previous); err != nil {
			return game.Game{}, err
		}
	}

	return g, nil
}

// StartOvertime snapshots the tied score at the boundary, rolls active stints
// into the new period and loads the overtime clock, frozen for the break.
func (s *ClockService) StartOvertime(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockService.StartOvertime")
	defer span.End()

	g, err := s.mustGetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.CurrentQuarter < game.RegulationQuarters {
		return game.Game{}, fmt.Errorf("%w: overtime requires at least %d quarters played", ErrInvalidTransition, game.RegulationQuarters)
	}

	s.stopTimer(gameID)

	if g.Settings.PeriodScores == nil {
		g.Settings.PeriodScores = make(map[string]game.PeriodScore)
	}
	g.Settings.PeriodScores[game.PeriodLabel(g.CurrentQuarter)] = game.PeriodScore{
		Home: g.HomeScore,
		Away: g.AwayScore,
	}

	previous := g.CurrentQuarter
	g.CurrentQuarter++
	g.TimeRemainingSeconds = g.Settings.OvertimeSeconds()
	g.Status = game.StatusPaused
	s.freezeShotClock(&g)
	g.UpdatedAt = s.now().UTC()

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist overtime start: %w", err)
	}

	if err := s.resetPeriodFouls(ctx, g); err != nil {
		return game.Game{}, err
	}
	if err := s.stintSvc.RollStints(ctx, gameID, previous, g.CurrentQuarter, g.TimeRemainingSeconds); err != nil {
		return game.Game{}, err
	}
	if err := s.eventSvc.AppendOvertimeStart(ctx, g); err != nil {
		return game.Game{}, err
	}

	return g, nil
}

// RetroactivePause pauses the game and rewrites the clock to the instant a
// violation actually occurred, e.g. a shot-clock expiry noticed late.
func (s *ClockService) RetroactivePause(ctx context.Context, gameID string, timeRemainingSeconds int) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockService.RetroactivePause")
	defer span.End()

	if timeRemainingSeconds < 0 {
		return game.Game{}, fmt.Errorf("%w: time remaining cannot be negative", ErrInvalidInput)
	}

	g, err := s.mustGetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.Status == game.StatusCompleted {
		return game.Game{}, fmt.Errorf("%w: cannot pause a completed game", ErrInvalidTransition)
	}

	s.stopTimer(gameID)

	g.Status = game.StatusPaused
	g.TimeRemainingSeconds = timeRemainingSeconds
	s.freezeShotClock(&g)
	g.UpdatedAt = s.now().UTC()

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist retroactive pause: %w", err)
	}

	return g, nil
}

// SetGameTime rewrites the clock without touching the status.
func (s *ClockService) SetGameTime(ctx context.Context, gameID string, timeRemainingSeconds int) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockService.SetGameTime")
	defer span.End()

	if timeRemainingSeconds < 0 {
		return game.Game{}, fmt.Errorf("%w: time remaining cannot be negative", ErrInvalidInput)
	}

	g, err := s.mustGetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.Status == game.StatusCompleted {
		return game.Game{}, fmt.Errorf("%w: cannot set time on a completed game", ErrInvalidTransition)
	}

	g.TimeRemainingSeconds = timeRemainingSeconds
	g.UpdatedAt = s.now().UTC()

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist set game time: %w", err)
	}

	return g, nil
}

// StartShotClock begins the shot-clock countdown. Idempotent while running.
func (s *ClockService) StartShotClock(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockService.StartShotClock")
	defer span.End()

	g, err := s.mustGetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.ShotClockStartedAt != nil {
		return g, nil
	}

	now := s.now().UTC()
	g.ShotClockStartedAt = &now
	g.UpdatedAt = now

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist shot clock start: %w", err)
	}

	return g, nil
}

// PauseShotClock stores the value elapsed since the captured start instant
// and clears it. There is no server tick for the shot clock; the live value
// is always derived on read.
func (s *ClockService) PauseShotClock(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockService.PauseShotClock")
	defer span.End()

	g, err := s.mustGetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.ShotClockStartedAt == nil {
		return g, nil
	}

	s.freezeShotClock(&g)
	g.UpdatedAt = s.now().UTC()

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist shot clock pause: %w", err)
	}

	return g, nil
}

// ResetShotClock loads an explicit value (default 24) and auto-starts the
// countdown when the game clock is running.
func (s *ClockService) ResetShotClock(ctx context.Context, gameID string, seconds int) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockService.ResetShotClock")
	defer span.End()

	if seconds <= 0 {
		seconds = game.DefaultShotClock
	}

	g, err := s.mustGetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}

	g.ShotClockSeconds = seconds
	g.ShotClockStartedAt = nil
	if g.Status == game.StatusActive {
		now := s.now().UTC()
		g.ShotClockStartedAt = &now
	}
	g.UpdatedAt = s.now().UTC()

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist shot clock reset: %w", err)
	}

	return g, nil
}

// Tick performs one second of clock work. Exported for the scheduler closure
// and for deterministic tests; production ticks arrive via scheduleTick.
func (s *ClockService) Tick(ctx context.Context, gameID string) error {
	g, ok, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("load game for tick: %w", err)
	}
	if !ok {
		// Game is gone; halt rescheduling.
		return nil
	}
	if g.Status != game.StatusActive {
		// A pause or end won the race against this tick.
		return nil
	}

	if g.TimeRemainingSeconds > 0 {
		g.TimeRemainingSeconds--
	}

	if g.TimeRemainingSeconds > 0 {
		g.UpdatedAt = s.now().UTC()
		if err := s.gameRepo.Update(ctx, g); err != nil {
			return fmt.Errorf("persist tick: %w", err)
		}
		s.scheduleTick(gameID)
		return nil
	}

	if g.CurrentQuarter < game.RegulationQuarters {
		return s.advanceQuarter(ctx, g)
	}
	return s.completeOnExpiry(ctx, g)
}

func (s *ClockService) advanceQuarter(ctx context.Context, g game.Game) error {
	if err := s.eventSvc.AppendQuarterEnd(ctx, g, false); err != nil {
		return err
	}

	previous := g.CurrentQuarter
	g.CurrentQuarter++
	g.TimeRemainingSeconds = g.Settings.QuarterSeconds()
	g.Status = game.StatusPaused
	s.freezeShotClock(&g)
	g.UpdatedAt = s.now().UTC()

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return fmt.Errorf("persist quarter advance: %w", err)
	}

	if err := s.stintSvc.RollStints(ctx, g.ID, previous, g.CurrentQuarter, g.TimeRemainingSeconds); err != nil {
		return err
	}
	if err := s.eventSvc.AppendQuarterStart(ctx, g); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "quarter advanced", "game_id", g.ID, "quarter", g.CurrentQuarter)
	return nil
}

func (s *ClockService) completeOnExpiry(ctx context.Context, g game.Game) error {
	if err := s.eventSvc.AppendQuarterEnd(ctx, g, true); err != nil {
		return err
	}
	if err := s.stintSvc.EndAllStints(ctx, g.ID, g.CurrentQuarter, 0); err != nil {
		return err
	}

	now := s.now().UTC()
	g.Status = game.StatusCompleted
	s.freezeShotClock(&g)
	g.EndedAt = &now
	g.UpdatedAt = now

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return fmt.Errorf("persist game completion: %w", err)
	}

	s.notifyGameEnd(ctx, g)
	s.logger.InfoContext(ctx, "game completed", "game_id", g.ID, "home_score", g.HomeScore, "away_score", g.AwayScore)
	return nil
}

// SetTickInterval overrides the one-second default between wall-clock ticks.
// Non-positive values are ignored.
func (s *ClockService) SetTickInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickInterval = d
}

func (s *ClockService) scheduleTick(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[gameID]; ok {
		timer.Stop()
	}
	s.timers[gameID] = time.AfterFunc(s.tickInterval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), tickOperationTimeout)
		defer cancel()

		if err := s.Tick(ctx, gameID); err != nil {
			s.logger.Error("clock tick failed", "game_id", gameID, "error", err)
		}
	})
}

// stopTimer is an optimization only: correctness comes from the tick's own
// status re-check, never from cancellation.
func (s *ClockService) stopTimer(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[gameID]; ok {
		timer.Stop()
		delete(s.timers, gameID)
	}
}

func (s *ClockService) freezeShotClock(g *game.Game) {
	if g.ShotClockStartedAt == nil {
		return
	}
	g.ShotClockSeconds = g.ShotClockValue(s.now().UTC())
	g.ShotClockStartedAt = nil
}

func (s *ClockService) mustGetGame(ctx context.Context, gameID string) (game.Game, error) {
	g, ok, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !ok {
		return game.Game{}, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	return g, nil
}

func (s *ClockService) resolveStarters(ctx context.Context, g game.Game, teamID string) ([]string, error) {
	configured := g.Settings.HomeStarters
	if teamID == g.AwayTeamID {
		configured = g.Settings.AwayStarters
	}
	if len(configured) == stint.LineupSize {
		return configured, nil
	}

	rows, err := s.statsRepo.ListPlayerStatsByGame(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("list player stats for starters: %w", err)
	}

	starters := make([]string, 0, stint.LineupSize)
	for _, row := range rows {
		if row.TeamID != teamID {
			continue
		}
		starters = append(starters, row.PlayerID)
		if len(starters) == stint.LineupSize {
			break
		}
	}
	if len(starters) < stint.LineupSize {
		return nil, fmt.Errorf("%w: team %s has fewer than %d roster players", ErrInvalidTransition, teamID, stint.LineupSize)
	}

	return starters, nil
}

func (s *ClockService) putOnCourt(ctx context.Context, gameID string, playerIDs []string) error {
	for _, playerID := range playerIDs {
		row, ok, err := s.statsRepo.GetPlayerStat(ctx, gameID, playerID)
		if err != nil {
			return fmt.Errorf("get player stat for starter: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: player %s has no ledger row in game %s", ErrNotFound, playerID, gameID)
		}
		row.OnCourt = true
		if err := s.statsRepo.UpdatePlayerStat(ctx, row); err != nil {
			return fmt.Errorf("flip on-court flag: %w", err)
		}
	}
	return nil
}

func (s *ClockService) resetPeriodFouls(ctx context.Context, g game.Game) error {
	label := game.PeriodLabel(g.CurrentQuarter)
	for _, teamID := range []string{g.HomeTeamID, g.AwayTeamID} {
		ts, ok, err := s.statsRepo.GetTeamStat(ctx, g.ID, teamID)
		if err != nil {
			return fmt.Errorf("get team stat for period reset: %w", err)
		}
		if !ok {
			continue
		}
		if ts.FoulsByPeriod == nil {
			ts.FoulsByPeriod = make(map[string]int)
		}
		ts.FoulsByPeriod[label] = 0
		if err := s.statsRepo.UpsertTeamStat(ctx, ts); err != nil {
			return fmt.Errorf("reset period fouls: %w", err)
		}
	}
	return nil
}

func (s *ClockService) notifyGameEnd(ctx context.Context, g game.Game) {
	err := s.notifier.Publish(ctx, g.LeagueID, "game_ended", "Final score",
		fmt.Sprintf("Game finished %d-%d", g.HomeScore, g.AwayScore),
		map[string]any{
			"gameId":    g.ID,
			"homeScore": g.HomeScore,
			"awayScore": g.AwayScore,
		})
	if err != nil {
		s.logger.WarnContext(ctx, "game end notification failed", "game_id", g.ID, "error", err)
	}
}
