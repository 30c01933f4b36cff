package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchontv/reconcile/external/sportmonks"
	"github.com/matchontv/reconcile/internal/config"
	"github.com/matchontv/reconcile/internal/infrastructure/repository/postgres"
	"github.com/matchontv/reconcile/internal/platform/logging"
	"github.com/matchontv/reconcile/internal/platform/resilience"
	"github.com/matchontv/reconcile/internal/usecase"
)

// App bundles the wired reconciliation services and the resources they
// share. One App backs one batch run.
type App struct {
	Config config.Config
	Logger *logging.Logger

	Sync      *usecase.FixtureSyncService
	Merge     *usecase.TeamMergeService
	Broadcast *usecase.BroadcastService

	db *sqlx.DB
}

// New connects the database, builds the provider client and wires every
// reconciliation service on top of the postgres repositories.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}

	teamRepo := postgres.NewTeamRepository(db)
	fixtureRepo := postgres.NewFixtureRepository(db)
	broadcastRepo := postgres.NewBroadcastRepository(db)
	competitionRepo := postgres.NewCompetitionRepository(db)

	provider := sportmonks.NewClient(sportmonks.ClientConfig{
		BaseURL:      cfg.SportMonksBaseURL,
		Token:        cfg.SportMonksToken,
		Timeout:      cfg.SportMonksTimeout,
		MaxRetries:   cfg.SportMonksMaxRetries,
		PaceInterval: cfg.SportMonksPaceInterval,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SportMonksCircuitEnabled,
			FailureThreshold: cfg.SportMonksCircuitFailureCount,
			OpenTimeout:      cfg.SportMonksCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SportMonksCircuitHalfOpenReq,
		},
	})

	resolver := usecase.NewTeamResolver(teamRepo, logger)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Sync:      usecase.NewFixtureSyncService(provider, competitionRepo, fixtureRepo, broadcastRepo, resolver, logger),
		Merge:     usecase.NewTeamMergeService(teamRepo, logger),
		Broadcast: usecase.NewBroadcastService(broadcastRepo, fixtureRepo, logger),
		db:        db,
	}, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
