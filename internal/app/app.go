package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/courtside/internal/config"
	"github.com/riskibarqy/courtside/internal/domain/event"
	"github.com/riskibarqy/courtside/internal/domain/game"
	"github.com/riskibarqy/courtside/internal/domain/league"
	"github.com/riskibarqy/courtside/internal/domain/roster"
	"github.com/riskibarqy/courtside/internal/domain/stats"
	"github.com/riskibarqy/courtside/internal/domain/stint"
	"github.com/riskibarqy/courtside/internal/infrastructure/access"
	"github.com/riskibarqy/courtside/internal/infrastructure/notify"
	cacherepo "github.com/riskibarqy/courtside/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/courtside/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/courtside/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/courtside/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/courtside/internal/platform/cache"
	idgen "github.com/riskibarqy/courtside/internal/platform/id"
	"github.com/riskibarqy/courtside/internal/platform/logging"
	"github.com/riskibarqy/courtside/internal/platform/resilience"
	"github.com/riskibarqy/courtside/internal/usecase"
)

type repositories struct {
	games   game.Repository
	stats   stats.Repository
	events  event.Repository
	stints  stint.Repository
	rosters roster.Repository
	leagues league.Repository
}

// NewHTTPServer assembles the full service graph behind one http.Server.
// The returned cleanup releases backend resources and must run on shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	store := basecache.NewStore(cfg.CacheTTL)
	if cfg.CacheEnabled {
		repos.leagues = cacherepo.NewLeagueRepository(repos.leagues, store)
		repos.rosters = cacherepo.NewRosterRepository(repos.rosters, store)
	}

	accessClient := access.NewClient(
		&http.Client{Timeout: cfg.AccessTimeout},
		access.Config{
			BaseURL:        cfg.AccessBaseURL,
			IntrospectPath: cfg.AccessIntrospectPath,
			RolePath:       cfg.AccessRolePath,
			AdminKey:       cfg.AccessAdminKey,
			Timeout:        cfg.AccessTimeout,
			CacheTTL:       cfg.AccessCacheTTL,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.AccessCircuitEnabled,
				FailureThreshold: cfg.AccessCircuitFailureCount,
				OpenTimeout:      cfg.AccessCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.AccessCircuitHalfOpenMaxReq,
			},
		},
		logger,
	)

	var notifier usecase.Notifier = usecase.NopNotifier{}
	if cfg.PushEnabled {
		notifier = notify.NewPushPublisher(notify.PushPublisherConfig{
			BaseURL: cfg.PushBaseURL,
			Token:   cfg.PushToken,
			Timeout: cfg.PushTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.PushCircuitEnabled,
				FailureThreshold: cfg.PushCircuitFailureCount,
				OpenTimeout:      cfg.PushCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.PushCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	ids := idgen.NewRandomGenerator()

	eventSvc := usecase.NewEventService(repos.events, ids)
	stintSvc := usecase.NewStintService(repos.stints, repos.games, repos.rosters, ids, logger)
	gameSvc := usecase.NewGameService(repos.games, repos.stats, eventSvc, repos.rosters, ids, logger)
	clockSvc := usecase.NewClockService(repos.games, repos.stats, eventSvc, stintSvc, notifier, logger)
	clockSvc.SetTickInterval(cfg.ClockTickInterval)
	statSvc := usecase.NewStatService(repos.games, repos.stats, eventSvc, stintSvc, logger)
	analyticsSvc := usecase.NewAnalyticsService(repos.games, eventSvc, store)

	handler := httpapi.NewHandler(gameSvc, clockSvc, statSvc, stintSvc, eventSvc, analyticsSvc, accessClient, logger)
	router := httpapi.NewRouter(handler, accessClient, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func(), error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		if cfg.SeedOnStart {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				_ = db.Close()
				return repositories{}, nil, fmt.Errorf("seed database: %w", err)
			}
		}
		logger.Info("storage backend ready", "backend", cfg.StorageBackend, "database", dbNameFromURL(cfg.DBURL))
		return repositories{
			games:   postgres.NewGameRepository(db),
			stats:   postgres.NewStatsRepository(db),
			events:  postgres.NewEventRepository(db),
			stints:  postgres.NewStintRepository(db),
			rosters: postgres.NewRosterRepository(db),
			leagues: postgres.NewLeagueRepository(db),
		}, func() { _ = db.Close() }, nil
	case config.StorageMemory:
		logger.Info("storage backend ready", "backend", cfg.StorageBackend)
		return repositories{
			games:   memory.NewGameRepository(),
			stats:   memory.NewStatsRepository(),
			events:  memory.NewEventRepository(),
			stints:  memory.NewStintRepository(),
			rosters: memory.NewRosterRepository(memory.SeedTeams(), memory.SeedPlayers()),
			leagues: memory.NewLeagueRepository(memory.SeedLeagues()),
		}, func() {}, nil
	default:
		return repositories{}, nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
