package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/courtside/internal/domain/event"
	"github.com/riskibarqy/courtside/internal/domain/game"
	"github.com/riskibarqy/courtside/internal/domain/stats"
	"github.com/riskibarqy/courtside/internal/infrastructure/repository/memory"
)

func TestStatService_Record_MadeThree(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	// Seed prior attempts so the counters move from a non-zero base.
	seed, _, _ := e.statsRepo.GetPlayerStat(ctx, g.ID, "dtd-01")
	seed.FieldGoalsAttempted = 4
	seed.FieldGoalsMade = 2
	seed.ThreePointersAttempted = 1
	seed.Points = 4
	if err := e.statsRepo.UpdatePlayerStat(ctx, seed); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}

	row, err := e.stats.Record(ctx, RecordStatInput{
		GameID:   g.ID,
		PlayerID: "dtd-01",
		StatType: stats.StatShot3,
		Made:     true,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if row.FieldGoalsAttempted != 5 || row.FieldGoalsMade != 3 {
		t.Fatalf("field goals: got %d/%d", row.FieldGoalsMade, row.FieldGoalsAttempted)
	}
	if row.ThreePointersAttempted != 2 || row.ThreePointersMade != 1 {
		t.Fatalf("threes: got %d/%d", row.ThreePointersMade, row.ThreePointersAttempted)
	}
	if row.Points != 7 {
		t.Fatalf("points: got %d", row.Points)
	}

	got, _, _ := e.gameRepo.GetByID(ctx, g.ID)
	if got.HomeScore != 3 || got.AwayScore != 0 {
		t.Fatalf("score: got %d-%d", got.HomeScore, got.AwayScore)
	}

	events, _ := e.events.ListChronological(ctx, g.ID)
	last := events[len(events)-1]
	if last.EventType != event.TypeShot {
		t.Fatalf("expected a shot event, got %q", last.EventType)
	}
	if made, _ := last.Details["made"].(bool); !made {
		t.Fatalf("shot event must record made=true, details=%v", last.Details)
	}
	if pts, _ := last.Details["points"].(int); pts != 3 {
		t.Fatalf("shot event must carry points=3, details=%v", last.Details)
	}
}

func TestStatService_Record_MissedShotMovesNoScore(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	row, err := e.stats.Record(ctx, RecordStatInput{
		GameID:   g.ID,
		PlayerID: "rvr-02",
		StatType: stats.StatShot2,
		Made:     false,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if row.FieldGoalsAttempted != 1 || row.FieldGoalsMade != 0 || row.Points != 0 {
		t.Fatalf("miss must only bump the attempt, got %+v", row)
	}

	got, _, _ := e.gameRepo.GetByID(ctx, g.ID)
	if got.HomeScore != 0 || got.AwayScore != 0 {
		t.Fatalf("miss moved the score: %d-%d", got.HomeScore, got.AwayScore)
	}
}

func TestStatService_ScoreMatchesLedger(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	plays := []RecordStatInput{
		{GameID: g.ID, PlayerID: "dtd-01", StatType: stats.StatShot2, Made: true},
		{GameID: g.ID, PlayerID: "dtd-02", StatType: stats.StatShot3, Made: true},
		{GameID: g.ID, PlayerID: "dtd-03", StatType: stats.StatFreeThrow, Made: true},
		{GameID: g.ID, PlayerID: "rvr-01", StatType: stats.StatShot2, Made: true},
		{GameID: g.ID, PlayerID: "rvr-01", StatType: stats.StatShot2, Made: false},
		{GameID: g.ID, PlayerID: "rvr-04", StatType: stats.StatFreeThrow, Made: true},
	}
	for i, play := range plays {
		if _, err := e.stats.Record(ctx, play); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	got, _, _ := e.gameRepo.GetByID(ctx, g.ID)
	if got.HomeScore != 6 || got.AwayScore != 3 {
		t.Fatalf("score: got %d-%d, want 6-3", got.HomeScore, got.AwayScore)
	}

	rows, _ := e.statsRepo.ListPlayerStatsByGame(ctx, g.ID)
	home, away := 0, 0
	for _, row := range rows {
		if row.TeamID == got.HomeTeamID {
			home += row.Points
		} else {
			away += row.Points
		}
	}
	if home != got.HomeScore || away != got.AwayScore {
		t.Fatalf("ledger sums %d-%d diverge from score %d-%d", home, away, got.HomeScore, got.AwayScore)
	}
}

func TestStatService_Undo_InvertsAndFloors(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	input := RecordStatInput{GameID: g.ID, PlayerID: "dtd-01", StatType: stats.StatShot3, Made: true}
	if _, err := e.stats.Record(ctx, input); err != nil {
		t.Fatalf("record: %v", err)
	}
	before, _ := e.events.ListChronological(ctx, g.ID)

	row, err := e.stats.Undo(ctx, input)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if row.FieldGoalsAttempted != 0 || row.ThreePointersMade != 0 || row.Points != 0 {
		t.Fatalf("undo must restore zeros, got %+v", row)
	}

	got, _, _ := e.gameRepo.GetByID(ctx, g.ID)
	if got.HomeScore != 0 {
		t.Fatalf("undo must revert the score, got %d", got.HomeScore)
	}

	// The original event stays; undo appends nothing.
	after, _ := e.events.ListChronological(ctx, g.ID)
	if len(after) != len(before) {
		t.Fatalf("undo appended %d events", len(after)-len(before))
	}

	// A second undo of the same make floors at zero instead of going negative.
	row, err = e.stats.Undo(ctx, input)
	if err != nil {
		t.Fatalf("second undo: %v", err)
	}
	if row.Points != 0 || row.FieldGoalsAttempted != 0 {
		t.Fatalf("counters went negative: %+v", row)
	}
	got, _, _ = e.gameRepo.GetByID(ctx, g.ID)
	if got.HomeScore != 0 {
		t.Fatalf("score went negative: %d", got.HomeScore)
	}
}

func TestStatService_Rebounds_TeamAndBuckets(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	if _, err := e.stats.Record(ctx, RecordStatInput{GameID: g.ID, PlayerID: "dtd-04", StatType: stats.StatRebound, Offensive: true}); err != nil {
		t.Fatalf("offensive rebound: %v", err)
	}
	row, err := e.stats.Record(ctx, RecordStatInput{GameID: g.ID, PlayerID: "dtd-04", StatType: stats.StatRebound})
	if err != nil {
		t.Fatalf("defensive rebound: %v", err)
	}

	if row.OffensiveRebounds != 1 || row.DefensiveRebounds != 1 || row.Rebounds() != 2 {
		t.Fatalf("rebound buckets: %+v", row)
	}

	ts, ok, err := e.statsRepo.GetTeamStat(ctx, g.ID, memory.TeamIDDowntown)
	if err != nil || !ok {
		t.Fatalf("get team stat: ok=%v err=%v", ok, err)
	}
	if ts.Rebounds != 2 {
		t.Fatalf("team rebounds: got %d", ts.Rebounds)
	}
}

func TestStatService_Fouls_PeriodBucketsAndFoulOut(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	foul := RecordStatInput{GameID: g.ID, PlayerID: "rvr-05", StatType: stats.StatFoul}
	for i := 0; i < 5; i++ {
		row, err := e.stats.Record(ctx, foul)
		if err != nil {
			t.Fatalf("foul %d: %v", i+1, err)
		}
		if row.FouledOut {
			t.Fatalf("fouled out at %d with limit %d", row.Fouls, g.Settings.FoulLimit)
		}
	}

	row, err := e.stats.Record(ctx, foul)
	if err != nil {
		t.Fatalf("sixth foul: %v", err)
	}
	if !row.FouledOut || row.Fouls != 6 {
		t.Fatalf("expected foul-out at six, got %+v", row)
	}

	ts, _, _ := e.statsRepo.GetTeamStat(ctx, g.ID, memory.TeamIDRiverside)
	if ts.Fouls != 6 || ts.FoulsByPeriod["Q1"] != 6 {
		t.Fatalf("team foul buckets: fouls=%d byPeriod=%v", ts.Fouls, ts.FoulsByPeriod)
	}

	// Undoing one foul clears the flag again.
	row, err = e.stats.Undo(ctx, foul)
	if err != nil {
		t.Fatalf("undo foul: %v", err)
	}
	if row.FouledOut || row.Fouls != 5 {
		t.Fatalf("undo must clear foul-out, got %+v", row)
	}
}

func TestStatService_Record_UnknownStatType(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	_, err = e.stats.Record(ctx, RecordStatInput{GameID: g.ID, PlayerID: "dtd-01", StatType: "dunk"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStatService_Record_UnknownPlayer(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	_, err = e.stats.Record(ctx, RecordStatInput{GameID: g.ID, PlayerID: "ghost", StatType: stats.StatAssist})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatService_RecordTimeout(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	for want := game.DefaultTimeouts - 1; want >= 0; want-- {
		ts, err := e.stats.RecordTimeout(ctx, g.ID, memory.TeamIDDowntown)
		if err != nil {
			t.Fatalf("timeout: %v", err)
		}
		if ts.TimeoutsRemaining != want {
			t.Fatalf("remaining: got %d want %d", ts.TimeoutsRemaining, want)
		}
	}

	if _, err := e.stats.RecordTimeout(ctx, g.ID, memory.TeamIDDowntown); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition at zero timeouts, got %v", err)
	}

	events, _ := e.events.ListByGame(ctx, g.ID, 50)
	timeouts := 0
	for _, ev := range events {
		if ev.EventType == event.TypeTimeout {
			timeouts++
		}
	}
	if timeouts != game.DefaultTimeouts {
		t.Fatalf("expected %d timeout events, got %d", game.DefaultTimeouts, timeouts)
	}
}

func TestStatService_Substitute(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	row, err := e.stats.Substitute(ctx, g.ID, "dtd-01", false)
	if err != nil {
		t.Fatalf("sub out: %v", err)
	}
	if row.OnCourt {
		t.Fatal("dtd-01 must be off the court")
	}

	row, err = e.stats.Substitute(ctx, g.ID, "dtd-06", true)
	if err != nil {
		t.Fatalf("sub in: %v", err)
	}
	if !row.OnCourt {
		t.Fatal("dtd-06 must be on the court")
	}

	events, _ := e.events.ListChronological(ctx, g.ID)
	subs := 0
	for _, ev := range events {
		if ev.EventType == event.TypeSubstitution {
			subs++
		}
	}
	if subs != 2 {
		t.Fatalf("expected 2 substitution events, got %d", subs)
	}
}

func TestStatService_UpdateMinutes(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	row, err := e.stats.UpdateMinutes(ctx, g.ID, "dtd-02", 31)
	if err != nil {
		t.Fatalf("update minutes: %v", err)
	}
	if row.MinutesPlayed != 31 {
		t.Fatalf("minutes: got %d", row.MinutesPlayed)
	}

	if _, err := e.stats.UpdateMinutes(ctx, g.ID, "dtd-02", -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative minutes, got %v", err)
	}
}

func TestStatService_PlusMinusAcrossStints(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	g, err := e.startGame(ctx)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	if _, err := e.stats.Record(ctx, RecordStatInput{GameID: g.ID, PlayerID: "dtd-01", StatType: stats.StatShot2, Made: true}); err != nil {
		t.Fatalf("record: %v", err)
	}

	active, err := e.stintRepo.ListActiveByGame(ctx, g.ID)
	if err != nil {
		t.Fatalf("list active stints: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected both opening stints active, got %d", len(active))
	}
	total := 0
	for _, st := range active {
		total += st.PlusMinus
		if st.TeamID == memory.TeamIDDowntown {
			if st.PointsScored != 2 || st.PlusMinus != 2 {
				t.Fatalf("scoring stint: %+v", st)
			}
		} else {
			if st.PointsAllowed != 2 || st.PlusMinus != -2 {
				t.Fatalf("conceding stint: %+v", st)
			}
		}
	}
	if total != 0 {
		t.Fatalf("plus/minus must net to zero across active stints, got %d", total)
	}
}
