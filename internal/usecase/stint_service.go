package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/courtside/internal/domain/game"
	"github.com/riskibarqy/courtside/internal/domain/roster"
	"github.com/riskibarqy/courtside/internal/domain/stint"
	idgen "github.com/riskibarqy/courtside/internal/platform/id"
	"github.com/riskibarqy/courtside/internal/platform/logging"
)

const lineupReportWorkers = 4

// StintService tracks which five players are on court per team and turns the
// closed stints into lineup and pair plus/minus tables.
type StintService struct {
	stintRepo  stint.Repository
	gameRepo   game.Repository
	rosterRepo roster.Repository
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewStintService(
	stintRepo stint.Repository,
	gameRepo game.Repository,
	rosterRepo roster.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *StintService {
	if idGen == nil {
		idGen = idgen.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StintService{
		stintRepo:  stintRepo,
		gameRepo:   gameRepo,
		rosterRepo: rosterRepo,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// StartStintInput opens a stint for a freshly fielded five-man unit.
type StartStintInput struct {
	GameID   string
	TeamID   string
	Players  []string
	Quarter  int
	GameTime int
}

// StartStint opens a stint for exactly five players, closing any stint still
// active for the team first so each team has at most one active stint per
// game at any time.
func (s *StintService) StartStint(ctx context.Context, input StartStintInput) (stint.LineupStint, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StintService.StartStint")
	defer span.End()

	if len(input.Players) != stint.LineupSize {
		return stint.LineupStint{}, fmt.Errorf("%w: a stint requires exactly %d players, got %d",
			ErrInvalidInput, stint.LineupSize, len(input.Players))
	}
	if input.Quarter < 1 {
		return stint.LineupStint{}, fmt.Errorf("%w: quarter must be >= 1", ErrInvalidInput)
	}

	if err := s.EndStint(ctx, input.GameID, input.TeamID, input.Quarter, input.GameTime); err != nil {
		return stint.LineupStint{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return stint.LineupStint{}, fmt.Errorf("generate stint id: %w", err)
	}

	item := stint.LineupStint{
		ID:            id,
		GameID:        input.GameID,
		TeamID:        input.TeamID,
		Players:       stint.CanonicalPlayers(input.Players),
		StartQuarter:  input.Quarter,
		StartGameTime: input.GameTime,
		IsActive:      true,
	}
	if err := s.stintRepo.Insert(ctx, item); err != nil {
		return stint.LineupStint{}, fmt.Errorf("insert stint: %w", err)
	}

	return item, nil
}

// EndStint closes every active stint the team has in the game at the given
// clock position, accruing played seconds into the accumulator.
func (s *StintService) EndStint(ctx context.Context, gameID, teamID string, quarter, gameTime int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StintService.EndStint")
	defer span.End()

	active, err := s.stintRepo.ListActiveByTeam(ctx, gameID, teamID)
	if err != nil {
		return fmt.Errorf("list active stints: %w", err)
	}
	if len(active) == 0 {
		return nil
	}

	settings, err := s.gameSettings(ctx, gameID)
	if err != nil {
		return err
	}

	for _, item := range active {
		s.closeStint(&item, settings, quarter, gameTime)
		if err := s.stintRepo.Update(ctx, item); err != nil {
			return fmt.Errorf("close stint: %w", err)
		}
	}
	return nil
}

// EndAllStints closes every active stint in the game, both teams. Used at
// game end.
func (s *StintService) EndAllStints(ctx context.Context, gameID string, quarter, gameTime int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StintService.EndAllStints")
	defer span.End()

	active, err := s.stintRepo.ListActiveByGame(ctx, gameID)
	if err != nil {
		return fmt.Errorf("list active stints: %w", err)
	}
	if len(active) == 0 {
		return nil
	}

	settings, err := s.gameSettings(ctx, gameID)
	if err != nil {
		return err
	}

	for _, item := range active {
		s.closeStint(&item, settings, quarter, gameTime)
		if err := s.stintRepo.Update(ctx, item); err != nil {
			return fmt.Errorf("close stint: %w", err)
		}
	}
	return nil
}

// RollStints carries each team's active five across a period boundary: the
// old stint closes at 0:00 of the ending period and an identical unit opens
// at the top of the next one.
func (s *StintService) RollStints(ctx context.Context, gameID string, fromQuarter, toQuarter, toGameTime int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StintService.RollStints")
	defer span.End()

	active, err := s.stintRepo.ListActiveByGame(ctx, gameID)
	if err != nil {
		return fmt.Errorf("list active stints: %w", err)
	}
	if len(active) == 0 {
		return nil
	}

	settings, err := s.gameSettings(ctx, gameID)
	if err != nil {
		return err
	}

	for _, item := range active {
		s.closeStint(&item, settings, fromQuarter, 0)
		if err := s.stintRepo.Update(ctx, item); err != nil {
			return fmt.Errorf("close stint at period boundary: %w", err)
		}

		id, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate stint id: %w", err)
		}
		if err := s.stintRepo.Insert(ctx, stint.LineupStint{
			ID:            id,
			GameID:        gameID,
			TeamID:        item.TeamID,
			Players:       append([]string(nil), item.Players...),
			StartQuarter:  toQuarter,
			StartGameTime: toGameTime,
			IsActive:      true,
		}); err != nil {
			return fmt.Errorf("reopen stint in new period: %w", err)
		}
	}
	return nil
}

// OnPointsScored accrues a scoring event into every active stint in the game:
// the scoring team's units gain, everyone else on court concedes. The deltas
// always cancel out, which is what makes plus/minus comparable across units.
func (s *StintService) OnPointsScored(ctx context.Context, gameID, scoringTeamID string, points int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StintService.OnPointsScored")
	defer span.End()

	if points == 0 {
		return nil
	}

	active, err := s.stintRepo.ListActiveByGame(ctx, gameID)
	if err != nil {
		return fmt.Errorf("list active stints: %w", err)
	}

	for _, item := range active {
		if item.TeamID == scoringTeamID {
			item.PointsScored = floorZero(item.PointsScored + points)
			item.PlusMinus += points
		} else {
			item.PointsAllowed = floorZero(item.PointsAllowed + points)
			item.PlusMinus -= points
		}
		if err := s.stintRepo.Update(ctx, item); err != nil {
			return fmt.Errorf("accrue points into stint: %w", err)
		}
	}
	return nil
}

// GetGameLineupStints returns every stint of one game, active ones included.
func (s *StintService) GetGameLineupStints(ctx context.Context, gameID string) ([]stint.LineupStint, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StintService.GetGameLineupStints")
	defer span.End()

	items, err := s.stintRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list game stints: %w", err)
	}
	return items, nil
}

// GetTeamLineupStats groups all of a team's stints across games by the
// canonical five-player key and sums them into net-rating rows, most-played
// first.
func (s *StintService) GetTeamLineupStats(ctx context.Context, teamID string) ([]stint.LineupAggregate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StintService.GetTeamLineupStats")
	defer span.End()

	items, err := s.stintRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team stints: %w", err)
	}

	type bucket struct {
		agg   stint.LineupAggregate
		games map[string]struct{}
	}
	buckets := make(map[string]*bucket)
	for _, item := range items {
		key := lineupKey(item.Players)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{
				agg:   stint.LineupAggregate{Players: append([]string(nil), item.Players...)},
				games: make(map[string]struct{}),
			}
			buckets[key] = b
		}
		b.agg.SecondsPlayed += item.SecondsPlayed
		b.agg.PointsScored += item.PointsScored
		b.agg.PointsAllowed += item.PointsAllowed
		b.agg.PlusMinus += item.PlusMinus
		b.games[item.GameID] = struct{}{}
	}

	out := make([]stint.LineupAggregate, 0, len(buckets))
	for _, b := range buckets {
		b.agg.GamesPlayed = len(b.games)
		b.agg.NetRating = stint.NetRating(b.agg.PlusMinus, b.agg.SecondsPlayed)
		out = append(out, b.agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SecondsPlayed > out[j].SecondsPlayed })

	return out, nil
}

// GetTeamPairStats derives every two-player pair from each stint and sums
// their shared floor time into the same net-rating shape.
func (s *StintService) GetTeamPairStats(ctx context.Context, teamID string) ([]stint.PairAggregate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StintService.GetTeamPairStats")
	defer span.End()

	items, err := s.stintRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team stints: %w", err)
	}

	type bucket struct {
		agg   stint.PairAggregate
		games map[string]struct{}
	}
	buckets := make(map[string]*bucket)
	for _, item := range items {
		players := item.Players
		for i := 0; i < len(players); i++ {
			for j := i + 1; j < len(players); j++ {
				key := players[i] + "|" + players[j]
				b, ok := buckets[key]
				if !ok {
					b = &bucket{
						agg:   stint.PairAggregate{PlayerA: players[i], PlayerB: players[j]},
						games: make(map[string]struct{}),
					}
					buckets[key] = b
				}
				b.agg.SecondsPlayed += item.SecondsPlayed
				b.agg.PointsScored += item.PointsScored
				b.agg.PointsAllowed += item.PointsAllowed
				b.agg.PlusMinus += item.PlusMinus
				b.games[item.GameID] = struct{}{}
			}
		}
	}

	out := make([]stint.PairAggregate, 0, len(buckets))
	for _, b := range buckets {
		b.agg.GamesPlayed = len(b.games)
		b.agg.NetRating = stint.NetRating(b.agg.PlusMinus, b.agg.SecondsPlayed)
		out = append(out, b.agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SecondsPlayed > out[j].SecondsPlayed })

	return out, nil
}

// TeamLineupReport pairs one team's lineup table with its identity.
type TeamLineupReport struct {
	TeamID  string
	Lineups []stint.LineupAggregate
}

// LeagueLineupReport computes the lineup table for every team in the league
// over a bounded worker pool.
func (s *StintService) LeagueLineupReport(ctx context.Context, leagueID string) ([]TeamLineupReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StintService.LeagueLineupReport")
	defer span.End()

	teams, err := s.rosterRepo.ListTeamsByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams for lineup report: %w", err)
	}
	if len(teams) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(lineupReportWorkers)
	if err != nil {
		return nil, fmt.Errorf("create lineup report pool: %w", err)
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
		reports  = make([]TeamLineupReport, 0, len(teams))
	)
	for _, team := range teams {
		team := team
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			lineups, err := s.GetTeamLineupStats(ctx, team.ID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("lineup report for team %s: %w", team.ID, err)
				}
				return
			}
			reports = append(reports, TeamLineupReport{TeamID: team.ID, Lineups: lineups})
		})
		if submitErr != nil {
			wg.Done()
			return nil, fmt.Errorf("submit lineup report task: %w", submitErr)
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].TeamID < reports[j].TeamID })
	return reports, nil
}

// closeStint finalizes one stint at the given clock position. Played seconds
// thread the game's configured period lengths rather than assuming 12-minute
// quarters, and the delta adds into the accumulator so a re-evaluated stint
// keeps previously banked time.
func (s *StintService) closeStint(item *stint.LineupStint, settings game.Settings, quarter, gameTime int) {
	seconds := stintSeconds(settings, item.StartQuarter, item.StartGameTime, quarter, gameTime)
	item.SecondsPlayed = floorZero(item.SecondsPlayed + seconds)
	endQuarter, endGameTime := quarter, gameTime
	item.EndQuarter = &endQuarter
	item.EndGameTime = &endGameTime
	item.IsActive = false
}

func stintSeconds(settings game.Settings, startQuarter, startGameTime, endQuarter, endGameTime int) int {
	if endQuarter == startQuarter {
		return floorZero(startGameTime - endGameTime)
	}
	if endQuarter < startQuarter {
		return 0
	}

	total := startGameTime
	for q := startQuarter + 1; q < endQuarter; q++ {
		total += settings.PeriodSeconds(q)
	}
	total += settings.PeriodSeconds(endQuarter) - endGameTime
	return floorZero(total)
}

func (s *StintService) gameSettings(ctx context.Context, gameID string) (game.Settings, error) {
	g, ok, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Settings{}, fmt.Errorf("get game settings: %w", err)
	}
	if !ok {
		return game.Settings{}, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	return g.Settings, nil
}

func lineupKey(players []string) string {
	return strings.Join(stint.CanonicalPlayers(players), ",")
}
