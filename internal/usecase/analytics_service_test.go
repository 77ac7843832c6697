package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/courtside/internal/domain/game"
	"github.com/riskibarqy/courtside/internal/domain/stats"
	"github.com/riskibarqy/courtside/internal/infrastructure/repository/memory"
)

// score records one made shot through the full stat path so the timeline
// sees exactly what a live game would produce.
func score(t *testing.T, e *engine, gameID, playerID string, statType stats.StatType) {
	t.Helper()
	if _, err := e.stats.Record(context.Background(), RecordStatInput{
		GameID:   gameID,
		PlayerID: playerID,
		StatType: statType,
		Made:     true,
	}); err != nil {
		t.Fatalf("record %s for %s: %v", statType, playerID, err)
	}
}

func TestAnalyticsService_Timeline_RunningScore(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	score(t, e, g.ID, "dtd-01", stats.StatShot2)
	score(t, e, g.ID, "rvr-01", stats.StatShot3)
	score(t, e, g.ID, "dtd-02", stats.StatFreeThrow)

	timeline, err := e.analytics.GetScoringTimeline(ctx, g.ID)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}

	if len(timeline.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(timeline.Entries))
	}
	last := timeline.Entries[2]
	if last.HomeScore != 3 || last.AwayScore != 3 {
		t.Fatalf("running score: %d-%d", last.HomeScore, last.AwayScore)
	}
	if timeline.Entries[0].Points != 2 || timeline.Entries[1].Points != 3 || timeline.Entries[2].Points != 1 {
		t.Fatalf("entry points wrong: %+v", timeline.Entries)
	}
}

func TestAnalyticsService_Timeline_IgnoresMissesAndNonShots(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	if _, err := e.stats.Record(ctx, RecordStatInput{GameID: g.ID, PlayerID: "dtd-01", StatType: stats.StatShot3, Made: false}); err != nil {
		t.Fatalf("record miss: %v", err)
	}
	if _, err := e.stats.Record(ctx, RecordStatInput{GameID: g.ID, PlayerID: "dtd-02", StatType: stats.StatRebound}); err != nil {
		t.Fatalf("record rebound: %v", err)
	}
	score(t, e, g.ID, "dtd-01", stats.StatShot2)

	timeline, err := e.analytics.GetScoringTimeline(ctx, g.ID)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(timeline.Entries) != 1 {
		t.Fatalf("only the made shot belongs on the timeline, got %d entries", len(timeline.Entries))
	}
}

func TestAnalyticsService_LeadChangesAndTies(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	// 2-0, 2-3, 4-3, 4-4: two lead changes, one tie re-entry.
	score(t, e, g.ID, "dtd-01", stats.StatShot2)
	score(t, e, g.ID, "rvr-01", stats.StatShot3)
	score(t, e, g.ID, "dtd-02", stats.StatShot2)
	score(t, e, g.ID, "rvr-02", stats.StatFreeThrow)

	timeline, err := e.analytics.GetScoringTimeline(ctx, g.ID)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if timeline.LeadChanges != 2 {
		t.Fatalf("lead changes: got %d, want 2", timeline.LeadChanges)
	}
	if timeline.TimesTied != 1 {
		t.Fatalf("times tied: got %d, want 1", timeline.TimesTied)
	}
	// The opening 0-0 is not a tie; only transitions back into level count.
	if timeline.LargestLead[memory.TeamIDDowntown] != 2 || timeline.LargestLead[memory.TeamIDRiverside] != 1 {
		t.Fatalf("largest leads: %v", timeline.LargestLead)
	}
}

func TestAnalyticsService_ScoringRuns(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	// Downtown scores 9 straight with a single interleaved riverside deuce,
	// then riverside breaks the run with enough answer points.
	score(t, e, g.ID, "dtd-01", stats.StatShot3)
	score(t, e, g.ID, "dtd-02", stats.StatShot2)
	score(t, e, g.ID, "rvr-01", stats.StatShot2)
	score(t, e, g.ID, "dtd-03", stats.StatShot2)
	score(t, e, g.ID, "dtd-01", stats.StatShot2)
	score(t, e, g.ID, "rvr-02", stats.StatShot2)
	score(t, e, g.ID, "rvr-03", stats.StatShot2)

	timeline, err := e.analytics.GetScoringTimeline(ctx, g.ID)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(timeline.Runs) != 1 {
		t.Fatalf("expected one qualifying run, got %+v", timeline.Runs)
	}
	run := timeline.Runs[0]
	if run.TeamID != memory.TeamIDDowntown {
		t.Fatalf("run team: %s", run.TeamID)
	}
	if run.Points != 9 || run.OpponentPoints != 2 {
		t.Fatalf("run totals: %+v", run)
	}
}

func TestAnalyticsService_NoRunBelowThreshold(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	score(t, e, g.ID, "dtd-01", stats.StatShot3)
	score(t, e, g.ID, "dtd-02", stats.StatShot2)

	timeline, err := e.analytics.GetScoringTimeline(ctx, g.ID)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(timeline.Runs) != 0 {
		t.Fatalf("5 points is below the run threshold, got %+v", timeline.Runs)
	}
}

func TestAnalyticsService_ElapsedSeconds(t *testing.T) {
	settings := game.DefaultSettings()

	// 8:00 left in Q1 is 4 minutes in.
	if got := elapsedSeconds(settings, 1, 480); got != 240 {
		t.Fatalf("got %d, want 240", got)
	}
	// Top of Q3 is halftime, 24 minutes in.
	if got := elapsedSeconds(settings, 3, 720); got != 1440 {
		t.Fatalf("got %d, want 1440", got)
	}
	// Overtime threads the shorter period length.
	if got := elapsedSeconds(settings, 5, 300); got != 4*720 {
		t.Fatalf("got %d, want 2880", got)
	}

	custom := game.Settings{QuarterMinutes: 10, OvertimeMinutes: 4}
	if got := elapsedSeconds(custom, 2, 300); got != 600+300 {
		t.Fatalf("got %d, want 900", got)
	}
}

func TestAnalyticsService_UnknownGame(t *testing.T) {
	e := newEngine()

	_, err := e.analytics.GetScoringTimeline(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalyticsService_CacheRefreshesWithNewEvents(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	score(t, e, g.ID, "dtd-01", stats.StatShot2)

	first, err := e.analytics.GetScoringTimeline(ctx, g.ID)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(first.Entries) != 1 {
		t.Fatalf("entries: %d", len(first.Entries))
	}

	// The cache key tracks the log length, so a new event must show up on
	// the next read without waiting out the TTL.
	score(t, e, g.ID, "rvr-01", stats.StatShot3)

	second, err := e.analytics.GetScoringTimeline(ctx, g.ID)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(second.Entries) != 2 {
		t.Fatalf("stale timeline served: %d entries", len(second.Entries))
	}
}
