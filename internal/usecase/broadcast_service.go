package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/matchontv/reconcile/internal/domain/broadcast"
	"github.com/matchontv/reconcile/internal/domain/fixture"
	"github.com/matchontv/reconcile/internal/platform/logging"
)

// CoverageReport summarizes how well provider TV stations resolve to
// canonical broadcasters.
type CoverageReport struct {
	MappedStations   int
	UnmappedStations int
	UnmappedRows     int64
	Unmapped         []broadcast.UnmappedStation
}

// RecomputeResult is the outcome of a primary-broadcaster sweep.
type RecomputeResult struct {
	Fixtures int
	Updated  int
	Cleared  int
	Failed   int
	Workers  int
}

type BroadcastService struct {
	broadcastRepo broadcast.Repository
	fixtureRepo   fixture.Repository
	logger        *logging.Logger
}

func NewBroadcastService(
	broadcastRepo broadcast.Repository,
	fixtureRepo fixture.Repository,
	logger *logging.Logger,
) *BroadcastService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BroadcastService{
		broadcastRepo: broadcastRepo,
		fixtureRepo:   fixtureRepo,
		logger:        logger,
	}
}

// MappingCoverage reports every station id seen in broadcast rows that
// still lacks a canonical broadcaster mapping, ordered by how many rows
// it would resolve.
func (s *BroadcastService) MappingCoverage(ctx context.Context) (CoverageReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BroadcastService.MappingCoverage")
	defer span.End()

	var report CoverageReport
	if s.broadcastRepo == nil {
		return report, fmt.Errorf("%w: broadcast service is not fully configured", ErrDependencyUnavailable)
	}

	mapped, err := s.broadcastRepo.CountMappedStations(ctx)
	if err != nil {
		return report, fmt.Errorf("count mapped stations: %w", err)
	}
	report.MappedStations = mapped

	unmapped, err := s.broadcastRepo.ListUnmappedStations(ctx)
	if err != nil {
		return report, fmt.Errorf("list unmapped stations: %w", err)
	}

	sort.SliceStable(unmapped, func(i, j int) bool {
		if unmapped[i].RowCount != unmapped[j].RowCount {
			return unmapped[i].RowCount > unmapped[j].RowCount
		}
		return unmapped[i].StationID < unmapped[j].StationID
	})

	report.Unmapped = unmapped
	report.UnmappedStations = len(unmapped)
	for _, station := range unmapped {
		report.UnmappedRows += station.RowCount
	}
	return report, nil
}

// FixtureVisibility reports the coverage state for one fixture.
func (s *BroadcastService) FixtureVisibility(ctx context.Context, fixtureID int64) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BroadcastService.FixtureVisibility")
	defer span.End()

	if s.broadcastRepo == nil {
		return "", fmt.Errorf("%w: broadcast service is not fully configured", ErrDependencyUnavailable)
	}
	if fixtureID <= 0 {
		return "", fmt.Errorf("%w: fixture id must be greater than zero", ErrInvalidInput)
	}

	rows, err := s.broadcastRepo.ListByFixture(ctx, fixtureID)
	if err != nil {
		return "", fmt.Errorf("list broadcasts fixture_id=%d: %w", fixtureID, err)
	}
	return broadcast.Visibility(rows), nil
}

// RecomputePrimaries re-runs primary selection for every fixture that
// has broadcast rows, typically after the broadcaster mapping table
// gained entries. Only the store is touched, so fixtures fan out over a
// small worker pool.
func (s *BroadcastService) RecomputePrimaries(ctx context.Context, maxWorkers int) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BroadcastService.RecomputePrimaries")
	defer span.End()

	var result RecomputeResult
	if s.broadcastRepo == nil || s.fixtureRepo == nil {
		return result, fmt.Errorf("%w: broadcast service is not fully configured", ErrDependencyUnavailable)
	}

	fixtureIDs, err := s.fixtureRepo.ListIDsWithBroadcasts(ctx)
	if err != nil {
		return result, fmt.Errorf("list fixtures with broadcasts: %w", err)
	}
	result.Fixtures = len(fixtureIDs)
	if len(fixtureIDs) == 0 {
		return result, nil
	}

	workerCount := normalizeRecomputeWorkerCount(maxWorkers, len(fixtureIDs))
	result.Workers = workerCount

	var updated atomic.Int32
	var cleared atomic.Int32
	var failed atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return result, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, fixtureID := range fixtureIDs {
		fixtureID := fixtureID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			outcome, err := s.recomputeOne(ctx, fixtureID)
			if err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "recompute primary failed", "fixture_id", fixtureID, "error", err)
				return
			}
			switch outcome {
			case recomputeUpdated:
				updated.Add(1)
			case recomputeCleared:
				cleared.Add(1)
			}
		}); err != nil {
			workers.Done()
			return result, fmt.Errorf("submit fixture to worker pool: %w", err)
		}
	}
	workers.Wait()

	result.Updated = int(updated.Load())
	result.Cleared = int(cleared.Load())
	result.Failed = int(failed.Load())

	s.logger.InfoContext(ctx, "primary broadcaster sweep finished",
		"fixtures", result.Fixtures,
		"updated", result.Updated,
		"cleared", result.Cleared,
		"failed", result.Failed,
		"workers", result.Workers,
	)
	return result, nil
}

type recomputeOutcome int

const (
	recomputeUnchanged recomputeOutcome = iota
	recomputeUpdated
	recomputeCleared
)

func (s *BroadcastService) recomputeOne(ctx context.Context, fixtureID int64) (recomputeOutcome, error) {
	rows, err := s.broadcastRepo.ListByFixture(ctx, fixtureID)
	if err != nil {
		return recomputeUnchanged, fmt.Errorf("list broadcasts fixture_id=%d: %w", fixtureID, err)
	}

	primary, ok := broadcast.SelectPrimary(rows)
	if !ok || primary.Provider == nil {
		// Nothing resolved yet: leave whatever the fixture carries alone
		// rather than erasing a manually set channel.
		return recomputeUnchanged, nil
	}

	if primary.Provider.Type == broadcast.ProviderTypeBlackout {
		if err := s.fixtureRepo.SetPrimaryBroadcaster(ctx, fixtureID, "", primary.StationID); err != nil {
			return recomputeUnchanged, fmt.Errorf("clear primary fixture_id=%d: %w", fixtureID, err)
		}
		return recomputeCleared, nil
	}

	if err := s.fixtureRepo.SetPrimaryBroadcaster(ctx, fixtureID, primary.Provider.Name, primary.StationID); err != nil {
		return recomputeUnchanged, fmt.Errorf("set primary fixture_id=%d: %w", fixtureID, err)
	}
	return recomputeUpdated, nil
}

func normalizeRecomputeWorkerCount(value, fixtureCount int) int {
	if fixtureCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 4
	}
	if value > 16 {
		value = 16
	}
	if value > fixtureCount {
		value = fixtureCount
	}
	return value
}
