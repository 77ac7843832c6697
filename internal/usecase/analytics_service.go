package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/courtside/internal/domain/event"
	"github.com/riskibarqy/courtside/internal/domain/game"
	"github.com/riskibarqy/courtside/internal/platform/cache"
)

const defaultRunThreshold = 8

// TimelineEntry is one point-in-time score after a made shot.
type TimelineEntry struct {
	Quarter        int
	GameTime       int
	ElapsedSeconds int
	ScoringTeamID  string
	Points         int
	HomeScore      int
	AwayScore      int
}

// ScoringRun is an uninterrupted burst by one team.
type ScoringRun struct {
	TeamID         string
	Points         int
	OpponentPoints int
	StartElapsed   int
	EndElapsed     int
}

// ScoringTimeline is the derived, read-only view of a game's scoring history.
type ScoringTimeline struct {
	GameID      string
	Entries     []TimelineEntry
	Runs        []ScoringRun
	LeadChanges int
	TimesTied   int
	LargestLead map[string]int
}

// AnalyticsService reconstructs scoring analytics from the append-only event
// log. Nothing here writes; every answer is recomputed (and cached) from the
// chronological history.
type AnalyticsService struct {
	gameRepo     game.Repository
	eventSvc     *EventService
	store        *cache.Store
	runThreshold int
	now          func() time.Time
}

func NewAnalyticsService(gameRepo game.Repository, eventSvc *EventService, store *cache.Store) *AnalyticsService {
	return &AnalyticsService{
		gameRepo:     gameRepo,
		eventSvc:     eventSvc,
		store:        store,
		runThreshold: defaultRunThreshold,
		now:          time.Now,
	}
}

// GetScoringTimeline walks the made shots in chronological order and derives
// the running score, scoring runs, lead changes and ties.
func (s *AnalyticsService) GetScoringTimeline(ctx context.Context, gameID string) (ScoringTimeline, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.GetScoringTimeline")
	defer span.End()

	g, ok, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return ScoringTimeline{}, fmt.Errorf("get game for timeline: %w", err)
	}
	if !ok {
		return ScoringTimeline{}, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}

	events, err := s.eventSvc.ListChronological(ctx, gameID)
	if err != nil {
		return ScoringTimeline{}, err
	}

	build := func(context.Context) (any, error) {
		return s.buildTimeline(g, events), nil
	}

	if s.store == nil {
		timeline, _ := build(ctx)
		return timeline.(ScoringTimeline), nil
	}

	// The event log is append-only, so the event count fully identifies the
	// input to the reconstruction.
	key := fmt.Sprintf("timeline:%s:%d", gameID, len(events))
	value, err := s.store.GetOrLoad(ctx, key, build)
	if err != nil {
		return ScoringTimeline{}, err
	}
	return value.(ScoringTimeline), nil
}

func (s *AnalyticsService) buildTimeline(g game.Game, events []event.GameEvent) ScoringTimeline {
	timeline := ScoringTimeline{
		GameID:      g.ID,
		LargestLead: map[string]int{g.HomeTeamID: 0, g.AwayTeamID: 0},
	}

	var (
		homeScore, awayScore int
		lastSign             int
		runTeam              string
		runPoints            int
		runOppPoints         int
		runStartElapsed      int
		runEndElapsed        int
	)

	flushRun := func() {
		if runTeam != "" && runPoints >= s.runThreshold {
			timeline.Runs = append(timeline.Runs, ScoringRun{
				TeamID:         runTeam,
				Points:         runPoints,
				OpponentPoints: runOppPoints,
				StartElapsed:   runStartElapsed,
				EndElapsed:     runEndElapsed,
			})
		}
	}

	for _, e := range events {
		teamID, points, ok := scoringPlay(e)
		if !ok {
			continue
		}

		if teamID == g.HomeTeamID {
			homeScore += points
		} else {
			awayScore += points
		}

		elapsed := elapsedSeconds(g.Settings, e.Quarter, e.GameTime)
		timeline.Entries = append(timeline.Entries, TimelineEntry{
			Quarter:        e.Quarter,
			GameTime:       e.GameTime,
			ElapsedSeconds: elapsed,
			ScoringTeamID:  teamID,
			Points:         points,
			HomeScore:      homeScore,
			AwayScore:      awayScore,
		})

		diff := homeScore - awayScore
		switch {
		case diff == 0:
			if lastSign != 0 {
				timeline.TimesTied++
			}
		case diff > 0:
			if lastSign < 0 {
				timeline.LeadChanges++
			}
			lastSign = 1
			if diff > timeline.LargestLead[g.HomeTeamID] {
				timeline.LargestLead[g.HomeTeamID] = diff
			}
		default:
			if lastSign > 0 {
				timeline.LeadChanges++
			}
			lastSign = -1
			if -diff > timeline.LargestLead[g.AwayTeamID] {
				timeline.LargestLead[g.AwayTeamID] = -diff
			}
		}

		// Run tracking: the opponent may interleave up to half the threshold
		// before a run is considered broken.
		switch {
		case runTeam == "":
			runTeam = teamID
			runPoints = points
			runOppPoints = 0
			runStartElapsed = elapsed
			runEndElapsed = elapsed
		case teamID == runTeam:
			runPoints += points
			runEndElapsed = elapsed
		default:
			// The basket that breaks the run belongs to the answering
			// team's fresh run, not to the one being flushed.
			if (runOppPoints+points)*2 >= s.runThreshold {
				flushRun()
				runTeam = teamID
				runPoints = points
				runOppPoints = 0
				runStartElapsed = elapsed
				runEndElapsed = elapsed
			} else {
				runOppPoints += points
			}
		}
	}
	flushRun()

	return timeline
}

// scoringPlay extracts the team and points from a made shot or free throw.
func scoringPlay(e event.GameEvent) (teamID string, points int, ok bool) {
	if e.EventType != event.TypeShot || e.TeamID == "" {
		return "", 0, false
	}
	made, _ := e.Details["made"].(bool)
	if !made {
		return "", 0, false
	}

	switch v := e.Details["points"].(type) {
	case int:
		points = v
	case float64:
		points = int(v)
	}
	if points <= 0 {
		return "", 0, false
	}
	return e.TeamID, points, true
}

// elapsedSeconds converts (quarter, seconds remaining) into seconds elapsed
// since the opening tip, respecting configured period lengths.
func elapsedSeconds(settings game.Settings, quarter, gameTimeRemaining int) int {
	total := 0
	for q := 1; q < quarter; q++ {
		total += settings.PeriodSeconds(q)
	}
	return total + settings.PeriodSeconds(quarter) - gameTimeRemaining
}
