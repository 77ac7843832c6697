package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/courtside/internal/domain/event"
	"github.com/riskibarqy/courtside/internal/domain/game"
	"github.com/riskibarqy/courtside/internal/domain/roster"
	"github.com/riskibarqy/courtside/internal/domain/stats"
	idgen "github.com/riskibarqy/courtside/internal/platform/id"
	"github.com/riskibarqy/courtside/internal/platform/logging"
)

// GameService creates games and serves their read-side views. Creation
// materializes a zeroed ledger row for every active roster player of both
// teams so the recording engine never has to invent rows mid-game.
type GameService struct {
	gameRepo   game.Repository
	statsRepo  stats.Repository
	eventSvc   *EventService
	rosterRepo roster.Repository
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewGameService(
	gameRepo game.Repository,
	statsRepo stats.Repository,
	eventSvc *EventService,
	rosterRepo roster.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *GameService {
	if idGen == nil {
		idGen = idgen.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &GameService{
		gameRepo:   gameRepo,
		statsRepo:  statsRepo,
		eventSvc:   eventSvc,
		rosterRepo: rosterRepo,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

type CreateGameInput struct {
	LeagueID    string
	HomeTeamID  string
	AwayTeamID  string
	ScheduledAt time.Time
	Settings    *game.Settings
}

func (s *GameService) CreateGame(ctx context.Context, input CreateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.CreateGame")
	defer span.End()

	if input.HomeTeamID == "" || input.AwayTeamID == "" {
		return game.Game{}, fmt.Errorf("%w: home and away team ids are required", ErrInvalidInput)
	}
	if input.HomeTeamID == input.AwayTeamID {
		return game.Game{}, fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	}

	for _, teamID := range []string{input.HomeTeamID, input.AwayTeamID} {
		team, ok, err := s.rosterRepo.GetTeam(ctx, teamID)
		if err != nil {
			return game.Game{}, fmt.Errorf("get team: %w", err)
		}
		if !ok {
			return game.Game{}, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
		}
		if input.LeagueID == "" {
			input.LeagueID = team.LeagueID
		}
	}

	settings := game.DefaultSettings()
	if input.Settings != nil {
		settings = *input.Settings
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return game.Game{}, fmt.Errorf("generate game id: %w", err)
	}

	now := s.now().UTC()
	scheduledAt := input.ScheduledAt
	if scheduledAt.IsZero() {
		scheduledAt = now
	}

	g := game.Game{
		ID:                   id,
		LeagueID:             input.LeagueID,
		HomeTeamID:           input.HomeTeamID,
		AwayTeamID:           input.AwayTeamID,
		Status:               game.StatusScheduled,
		CurrentQuarter:       1,
		TimeRemainingSeconds: settings.QuarterSeconds(),
		ShotClockSeconds:     game.DefaultShotClock,
		Settings:             settings,
		ScheduledAt:          scheduledAt,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.gameRepo.Insert(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("insert game: %w", err)
	}

	rows, err := s.materializeLedger(ctx, g)
	if err != nil {
		return game.Game{}, err
	}
	if err := s.statsRepo.InsertPlayerStats(ctx, rows); err != nil {
		return game.Game{}, fmt.Errorf("materialize ledger rows: %w", err)
	}

	s.logger.InfoContext(ctx, "game created",
		"game_id", g.ID, "home_team", g.HomeTeamID, "away_team", g.AwayTeamID, "players", len(rows))
	return g, nil
}

func (s *GameService) materializeLedger(ctx context.Context, g game.Game) ([]stats.PlayerStat, error) {
	var rows []stats.PlayerStat
	for _, teamID := range []string{g.HomeTeamID, g.AwayTeamID} {
		players, err := s.rosterRepo.ListActivePlayersByTeam(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("list roster for ledger: %w", err)
		}
		for _, p := range players {
			rows = append(rows, stats.PlayerStat{
				GameID:   g.ID,
				PlayerID: p.ID,
				TeamID:   teamID,
			})
		}
	}
	return rows, nil
}

// UpdateGameSettingsInput carries only the fields being changed; nil means
// keep the current value.
type UpdateGameSettingsInput struct {
	QuarterMinutes  *int
	OvertimeMinutes *int
	FoulLimit       *int
	TimeoutsPerTeam *int
	HomeStarters    []string
	AwayStarters    []string
}

func (s *GameService) UpdateGameSettings(ctx context.Context, gameID string, input UpdateGameSettingsInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.UpdateGameSettings")
	defer span.End()

	g, ok, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game for settings: %w", err)
	}
	if !ok {
		return game.Game{}, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	if g.Status == game.StatusCompleted {
		return game.Game{}, fmt.Errorf("%w: cannot change settings on a completed game", ErrInvalidTransition)
	}

	if input.QuarterMinutes != nil {
		if *input.QuarterMinutes <= 0 {
			return game.Game{}, fmt.Errorf("%w: quarter minutes must be positive", ErrInvalidInput)
		}
		g.Settings.QuarterMinutes = *input.QuarterMinutes
		if g.Status == game.StatusScheduled {
			g.TimeRemainingSeconds = g.Settings.QuarterSeconds()
		}
	}
	if input.OvertimeMinutes != nil {
		if *input.OvertimeMinutes <= 0 {
			return game.Game{}, fmt.Errorf("%w: overtime minutes must be positive", ErrInvalidInput)
		}
		g.Settings.OvertimeMinutes = *input.OvertimeMinutes
	}
	if input.FoulLimit != nil {
		g.Settings.FoulLimit = *input.FoulLimit
	}
	if input.TimeoutsPerTeam != nil {
		g.Settings.TimeoutsPerTeam = *input.TimeoutsPerTeam
	}
	if len(input.HomeStarters) > 0 {
		g.Settings.HomeStarters = append([]string(nil), input.HomeStarters...)
	}
	if len(input.AwayStarters) > 0 {
		g.Settings.AwayStarters = append([]string(nil), input.AwayStarters...)
	}
	g.UpdatedAt = s.now().UTC()

	if err := s.gameRepo.Update(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist game settings: %w", err)
	}

	return g, nil
}

func (s *GameService) GetGame(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetGame")
	defer span.End()

	g, ok, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !ok {
		return game.Game{}, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	return g, nil
}

// LiveStats is the scorekeeper's working view: clock values derived to the
// querying instant, scores, and who is on the floor.
type LiveStats struct {
	Game           game.Game
	ShotClockValue int
	ClockDisplay   string
	OnCourt        map[string][]string
	PlayerStats    []stats.PlayerStat
	TeamStats      []stats.TeamStat
}

func (s *GameService) GetLiveStats(ctx context.Context, gameID string) (LiveStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetLiveStats")
	defer span.End()

	g, err := s.GetGame(ctx, gameID)
	if err != nil {
		return LiveStats{}, err
	}

	playerRows, err := s.statsRepo.ListPlayerStatsByGame(ctx, gameID)
	if err != nil {
		return LiveStats{}, fmt.Errorf("list player stats: %w", err)
	}
	teamRows, err := s.statsRepo.ListTeamStatsByGame(ctx, gameID)
	if err != nil {
		return LiveStats{}, fmt.Errorf("list team stats: %w", err)
	}

	onCourt := map[string][]string{}
	for _, row := range playerRows {
		if row.OnCourt {
			onCourt[row.TeamID] = append(onCourt[row.TeamID], row.PlayerID)
		}
	}
	for teamID := range onCourt {
		sort.Strings(onCourt[teamID])
	}

	return LiveStats{
		Game:           g,
		ShotClockValue: g.ShotClockValue(s.now().UTC()),
		ClockDisplay:   game.FormatClock(g.TimeRemainingSeconds),
		OnCourt:        onCourt,
		PlayerStats:    playerRows,
		TeamStats:      teamRows,
	}, nil
}

// BoxScore is the per-player per-team summary of one game.
type BoxScore struct {
	Game      game.Game
	HomeLines []stats.PlayerStat
	AwayLines []stats.PlayerStat
	TeamStats []stats.TeamStat
	Events    []event.GameEvent
}

// GetBoxScore assembles the box score, fetching the independent views
// concurrently.
func (s *GameService) GetBoxScore(ctx context.Context, gameID string) (BoxScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetBoxScore")
	defer span.End()

	g, err := s.GetGame(ctx, gameID)
	if err != nil {
		return BoxScore{}, err
	}

	var (
		playerRows []stats.PlayerStat
		teamRows   []stats.TeamStat
		events     []event.GameEvent
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		rows, err := s.statsRepo.ListPlayerStatsByGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("list player stats: %w", err)
		}
		playerRows = rows
		return nil
	})
	p.Go(func(ctx context.Context) error {
		rows, err := s.statsRepo.ListTeamStatsByGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("list team stats: %w", err)
		}
		teamRows = rows
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.eventSvc.ListByGame(ctx, gameID, defaultEventListLimit)
		if err != nil {
			return err
		}
		events = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return BoxScore{}, err
	}

	box := BoxScore{Game: g, TeamStats: teamRows, Events: events}
	for _, row := range playerRows {
		if row.TeamID == g.HomeTeamID {
			box.HomeLines = append(box.HomeLines, row)
		} else {
			box.AwayLines = append(box.AwayLines, row)
		}
	}
	sortLines := func(lines []stats.PlayerStat) {
		sort.Slice(lines, func(i, j int) bool {
			if lines[i].Points != lines[j].Points {
				return lines[i].Points > lines[j].Points
			}
			return lines[i].PlayerID < lines[j].PlayerID
		})
	}
	sortLines(box.HomeLines)
	sortLines(box.AwayLines)

	return box, nil
}
