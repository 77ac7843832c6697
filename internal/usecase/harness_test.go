package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/courtside/internal/domain/game"
	"github.com/riskibarqy/courtside/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/courtside/internal/platform/cache"
)

// fakeClock is a manually-advanced time source shared by every service in a
// test engine.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Each read moves one microsecond so appended events keep distinct,
	// strictly increasing timestamps.
	c.t = c.t.Add(time.Microsecond)
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Publish(_ context.Context, _, msgType, _, _ string, _ map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msgType)
	return nil
}

func (n *recordingNotifier) count(msgType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := 0
	for _, m := range n.messages {
		if m == msgType {
			total++
		}
	}
	return total
}

// engine wires every service against fresh memory repositories.
type engine struct {
	clock     *fakeClock
	notifier  *recordingNotifier
	gameRepo  *memory.GameRepository
	statsRepo *memory.StatsRepository
	eventRepo *memory.EventRepository
	stintRepo *memory.StintRepository
	roster    *memory.RosterRepository

	games     *GameService
	clocks    *ClockService
	stats     *StatService
	stints    *StintService
	events    *EventService
	analytics *AnalyticsService
}

func newEngine() *engine {
	e := &engine{
		clock:     newFakeClock(),
		notifier:  &recordingNotifier{},
		gameRepo:  memory.NewGameRepository(),
		statsRepo: memory.NewStatsRepository(),
		eventRepo: memory.NewEventRepository(),
		stintRepo: memory.NewStintRepository(),
		roster:    memory.NewRosterRepository(memory.SeedTeams(), memory.SeedPlayers()),
	}

	e.events = NewEventService(e.eventRepo, nil)
	e.events.now = e.clock.Now

	e.stints = NewStintService(e.stintRepo, e.gameRepo, e.roster, nil, nil)
	e.stints.now = e.clock.Now

	e.games = NewGameService(e.gameRepo, e.statsRepo, e.events, e.roster, nil, nil)
	e.games.now = e.clock.Now

	e.clocks = NewClockService(e.gameRepo, e.statsRepo, e.events, e.stints, e.notifier, nil)
	e.clocks.now = e.clock.Now
	// Keep scheduled timers out of deterministic tests; ticks are driven
	// explicitly through Tick.
	e.clocks.tickInterval = time.Hour

	e.stats = NewStatService(e.gameRepo, e.statsRepo, e.events, e.stints, nil)
	e.stats.now = e.clock.Now

	e.analytics = NewAnalyticsService(e.gameRepo, e.events, cache.NewStore(time.Minute))

	return e
}

// createGame makes a Downtown vs Riverside game with default settings.
func (e *engine) createGame(ctx context.Context) (game.Game, error) {
	return e.games.CreateGame(ctx, CreateGameInput{
		LeagueID:   memory.LeagueIDCityHoops,
		HomeTeamID: memory.TeamIDDowntown,
		AwayTeamID: memory.TeamIDRiverside,
	})
}

// startGame creates, starts and resumes a game so the clock is running.
func (e *engine) startGame(ctx context.Context) (game.Game, error) {
	g, err := e.createGame(ctx)
	if err != nil {
		return game.Game{}, err
	}
	if _, err := e.clocks.Start(ctx, g.ID); err != nil {
		return game.Game{}, err
	}
	return e.clocks.Resume(ctx, g.ID)
}
