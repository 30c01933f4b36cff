package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/matchontv/reconcile/internal/domain/broadcast"
	"github.com/matchontv/reconcile/internal/domain/competition"
	"github.com/matchontv/reconcile/internal/domain/fixture"
	"github.com/matchontv/reconcile/internal/domain/team"
	"github.com/matchontv/reconcile/internal/platform/logging"
)

// SyncInput scopes one synchronization run.
type SyncInput struct {
	CompetitionSlug   string    `validate:"required"`
	From              time.Time `validate:"required"`
	To                time.Time `validate:"required"`
	IncludeBroadcasts bool
	BackfillTeams     bool
}

// WindowFailure records one date window whose provider fetch failed.
type WindowFailure struct {
	Start time.Time
	End   time.Time
	Err   error
}

// SyncResult is the run summary: window outcomes, per-fixture write
// counts and broadcast ingestion counters.
type SyncResult struct {
	WindowsOK     int
	WindowsFailed int

	Inserted int
	Updated  int
	Skipped  int
	Failed   int

	BroadcastsInserted int
	BroadcastsUnmapped int

	SkippedFixtures []int64
	FailedWindows   []WindowFailure
}

type FixtureSyncService struct {
	provider        FixtureProvider
	competitionRepo competition.Repository
	fixtureRepo     fixture.Repository
	broadcastRepo   broadcast.Repository
	resolver        *TeamResolver
	validator       *validator.Validate
	logger          *logging.Logger
}

func NewFixtureSyncService(
	provider FixtureProvider,
	competitionRepo competition.Repository,
	fixtureRepo fixture.Repository,
	broadcastRepo broadcast.Repository,
	resolver *TeamResolver,
	logger *logging.Logger,
) *FixtureSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &FixtureSyncService{
		provider:        provider,
		competitionRepo: competitionRepo,
		fixtureRepo:     fixtureRepo,
		broadcastRepo:   broadcastRepo,
		resolver:        resolver,
		validator:       validator.New(),
		logger:          logger,
	}
}

// SyncRange fetches provider fixtures for one competition over a date
// range and upserts them into the canonical store. A failed window or a
// failed fixture write never aborts the run; both are counted and the
// rest of the batch continues.
func (s *FixtureSyncService) SyncRange(ctx context.Context, input SyncInput) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureSyncService.SyncRange")
	defer span.End()

	var result SyncResult

	if s.provider == nil || s.competitionRepo == nil || s.fixtureRepo == nil || s.resolver == nil {
		return result, fmt.Errorf("%w: fixture sync service is not fully configured", ErrDependencyUnavailable)
	}
	if err := s.validator.StructCtx(ctx, input); err != nil {
		return result, fmt.Errorf("%w: validation failed: %v", ErrInvalidInput, err)
	}
	if input.To.Before(input.From) {
		return result, fmt.Errorf("%w: sync range end %s precedes start %s",
			ErrInvalidInput, input.To.Format(time.DateOnly), input.From.Format(time.DateOnly))
	}
	if input.IncludeBroadcasts && s.broadcastRepo == nil {
		return result, fmt.Errorf("%w: broadcast ingestion requested without a broadcast store", ErrDependencyUnavailable)
	}

	comp, found, err := s.competitionRepo.GetBySlug(ctx, input.CompetitionSlug)
	if err != nil {
		return result, fmt.Errorf("load competition slug=%s: %w", input.CompetitionSlug, err)
	}
	if !found {
		return result, fmt.Errorf("%w: competition slug=%s", ErrNotFound, input.CompetitionSlug)
	}
	if comp.RefID <= 0 {
		return result, fmt.Errorf("%w: competition slug=%s has no provider reference", ErrDependencyUnavailable, input.CompetitionSlug)
	}

	windows, err := s.provider.FetchFixturesBetween(ctx, comp.RefID, input.From, input.To)
	if err != nil {
		return result, fmt.Errorf("fetch fixtures competition=%s: %w", input.CompetitionSlug, err)
	}

	if input.BackfillTeams {
		refs := collectTeamRefs(windows)
		backfill, err := s.resolver.BackfillExternalIDs(ctx, refs)
		if err != nil {
			s.logger.WarnContext(ctx, "team external id backfill failed, continuing sync",
				"competition", input.CompetitionSlug,
				"error", err,
			)
		} else if backfill.Linked > 0 || backfill.Ambiguous > 0 {
			s.logger.InfoContext(ctx, "team external id backfill",
				"competition", input.CompetitionSlug,
				"linked", backfill.Linked,
				"already_linked", backfill.AlreadyLinked,
				"ambiguous", backfill.Ambiguous,
				"unmatched", backfill.Unmatched,
			)
		}
	}

	for _, window := range windows {
		if window.Err != nil {
			result.WindowsFailed++
			result.FailedWindows = append(result.FailedWindows, WindowFailure{
				Start: window.Start,
				End:   window.End,
				Err:   window.Err,
			})
			s.logger.WarnContext(ctx, "fixture window fetch failed",
				"competition", input.CompetitionSlug,
				"window_start", window.Start.Format(time.DateOnly),
				"window_end", window.End.Format(time.DateOnly),
				"error", window.Err,
			)
			continue
		}
		result.WindowsOK++

		for _, item := range window.Fixtures {
			s.syncOne(ctx, comp, item, input.IncludeBroadcasts, &result)
		}
	}

	s.logger.InfoContext(ctx, "fixture sync finished",
		"competition", input.CompetitionSlug,
		"windows_ok", result.WindowsOK,
		"windows_failed", result.WindowsFailed,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"broadcasts_inserted", result.BroadcastsInserted,
		"broadcasts_unmapped", result.BroadcastsUnmapped,
	)

	return result, nil
}

// CompetitionSyncOutcome pairs one competition with its run result.
type CompetitionSyncOutcome struct {
	Slug   string
	Result SyncResult
	Err    error
}

// SyncVisible runs SyncRange for every visible competition over the
// same date range. A competition that fails carries its error in the
// outcome and does not stop the remaining ones. The CompetitionSlug on
// the input is ignored.
func (s *FixtureSyncService) SyncVisible(ctx context.Context, input SyncInput) ([]CompetitionSyncOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureSyncService.SyncVisible")
	defer span.End()

	if s.competitionRepo == nil {
		return nil, fmt.Errorf("%w: fixture sync service is not fully configured", ErrDependencyUnavailable)
	}

	competitions, err := s.competitionRepo.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list visible competitions: %w", err)
	}

	out := make([]CompetitionSyncOutcome, 0, len(competitions))
	for _, comp := range competitions {
		scoped := input
		scoped.CompetitionSlug = comp.Slug
		result, err := s.SyncRange(ctx, scoped)
		if err != nil {
			s.logger.WarnContext(ctx, "competition sync failed",
				"competition_slug", comp.Slug,
				"error", err,
			)
		}
		out = append(out, CompetitionSyncOutcome{Slug: comp.Slug, Result: result, Err: err})
	}
	return out, nil
}

func (s *FixtureSyncService) syncOne(
	ctx context.Context,
	comp competition.Competition,
	item ExternalFixture,
	includeBroadcasts bool,
	result *SyncResult,
) {
	if item.ExternalID <= 0 || item.KickoffAt.IsZero() {
		result.Skipped++
		result.SkippedFixtures = append(result.SkippedFixtures, item.ExternalID)
		return
	}

	home, homeFound, err := s.resolver.Resolve(ctx, item.HomeTeamExternalID)
	if err != nil {
		result.Failed++
		s.logger.WarnContext(ctx, "resolve home team failed", "fixture_external_id", item.ExternalID, "error", err)
		return
	}
	away, awayFound, err := s.resolver.Resolve(ctx, item.AwayTeamExternalID)
	if err != nil {
		result.Failed++
		s.logger.WarnContext(ctx, "resolve away team failed", "fixture_external_id", item.ExternalID, "error", err)
		return
	}
	if !homeFound || !awayFound {
		result.Skipped++
		result.SkippedFixtures = append(result.SkippedFixtures, item.ExternalID)
		s.logger.WarnContext(ctx, "fixture skipped: unresolved team",
			"fixture_external_id", item.ExternalID,
			"home_external_id", item.HomeTeamExternalID,
			"home_resolved", homeFound,
			"away_external_id", item.AwayTeamExternalID,
			"away_resolved", awayFound,
		)
		return
	}

	fixtureID, inserted, err := s.upsertFixture(ctx, comp, item, home, away)
	if err != nil {
		result.Failed++
		s.logger.WarnContext(ctx, "fixture upsert failed",
			"fixture_external_id", item.ExternalID,
			"error", err,
		)
		return
	}
	if inserted {
		result.Inserted++
	} else {
		result.Updated++
	}

	if includeBroadcasts && len(item.TVStations) > 0 {
		s.ingestBroadcasts(ctx, fixtureID, item.TVStations, result)
	}
}

// upsertFixture matches the provider fixture to a canonical row by
// external id first, then by team pair and kickoff day for rows entered
// before they were linked. The fallback match adopts the provider id.
func (s *FixtureSyncService) upsertFixture(
	ctx context.Context,
	comp competition.Competition,
	item ExternalFixture,
	home, away team.Team,
) (int64, bool, error) {
	existing, found, err := s.fixtureRepo.GetByExternalID(ctx, item.ExternalID)
	if err != nil {
		return 0, false, fmt.Errorf("lookup fixture external_id=%d: %w", item.ExternalID, err)
	}
	if !found {
		existing, found, err = s.fixtureRepo.GetByTeamsAndDate(ctx, home.ID, away.ID, item.KickoffAt.UTC())
		if err != nil {
			return 0, false, fmt.Errorf("lookup fixture by teams home=%d away=%d: %w", home.ID, away.ID, err)
		}
		if found && existing.ExternalID > 0 && existing.ExternalID != item.ExternalID {
			// Same pairing, same day, different provider id: replays and
			// rescheduled cup ties land here. Treat as a distinct fixture.
			found = false
		}
	}

	next := fixture.Fixture{
		ExternalID:    item.ExternalID,
		HomeTeamID:    home.ID,
		AwayTeamID:    away.ID,
		KickoffAt:     item.KickoffAt.UTC(),
		CompetitionID: comp.ID,
		Status:        fixture.MapProviderStatus(item.State),
		HomeScore:     cloneIntPtr(item.HomeScore),
		AwayScore:     cloneIntPtr(item.AwayScore),
		Round:         item.Round,
		Stage:         item.Stage,
		Venue:         item.Venue,
	}
	if err := next.Validate(); err != nil {
		return 0, false, fmt.Errorf("fixture external_id=%d: %w", item.ExternalID, err)
	}

	if !found {
		id, err := s.fixtureRepo.Insert(ctx, next)
		if err != nil {
			return 0, false, fmt.Errorf("insert fixture external_id=%d: %w", item.ExternalID, err)
		}
		return id, true, nil
	}

	next.ID = existing.ID
	// Denormalized broadcaster fields belong to broadcast ingestion, a
	// fixture update must not clear them.
	next.TVChannel = existing.TVChannel
	next.TVStationID = existing.TVStationID
	if err := s.fixtureRepo.Update(ctx, next); err != nil {
		return 0, false, fmt.Errorf("update fixture id=%d external_id=%d: %w", existing.ID, item.ExternalID, err)
	}
	return existing.ID, false, nil
}

// ingestBroadcasts appends provider TV-station rows for one fixture,
// resolves each station against the broadcaster mapping table and
// refreshes the fixture's denormalized primary. Rows are never deleted;
// a station already recorded for the fixture is skipped.
func (s *FixtureSyncService) ingestBroadcasts(
	ctx context.Context,
	fixtureID int64,
	stations []ExternalTVStation,
	result *SyncResult,
) {
	insertedAny := false
	for _, station := range stations {
		if station.StationID <= 0 {
			continue
		}

		exists, err := s.broadcastRepo.ExistsForFixtureStation(ctx, fixtureID, station.StationID)
		if err != nil {
			s.logger.WarnContext(ctx, "broadcast dedupe lookup failed",
				"fixture_id", fixtureID,
				"station_id", station.StationID,
				"error", err,
			)
			continue
		}
		if exists {
			continue
		}

		row := broadcast.Broadcast{
			FixtureID: fixtureID,
			StationID: station.StationID,
			Channel:   station.Name,
		}
		if station.CountryID > 0 {
			row.Country = strconv.FormatInt(station.CountryID, 10)
		}
		provider, mapped, err := s.broadcastRepo.GetProviderByStationID(ctx, station.StationID)
		if err != nil {
			s.logger.WarnContext(ctx, "broadcaster mapping lookup failed",
				"station_id", station.StationID,
				"error", err,
			)
			continue
		}
		if mapped {
			row.Provider = &provider
		} else {
			result.BroadcastsUnmapped++
		}

		if _, err := s.broadcastRepo.Insert(ctx, row); err != nil {
			s.logger.WarnContext(ctx, "broadcast insert failed",
				"fixture_id", fixtureID,
				"station_id", station.StationID,
				"error", err,
			)
			continue
		}
		result.BroadcastsInserted++
		insertedAny = true
	}

	if !insertedAny {
		return
	}
	rows, err := s.broadcastRepo.ListByFixture(ctx, fixtureID)
	if err != nil {
		s.logger.WarnContext(ctx, "primary refresh: list broadcasts failed", "fixture_id", fixtureID, "error", err)
		return
	}
	primary, ok := broadcast.SelectPrimary(rows)
	if !ok || primary.Provider == nil {
		return
	}
	channel := primary.Provider.Name
	if primary.Provider.Type == broadcast.ProviderTypeBlackout {
		channel = ""
	}
	if err := s.fixtureRepo.SetPrimaryBroadcaster(ctx, fixtureID, channel, primary.StationID); err != nil {
		s.logger.WarnContext(ctx, "primary refresh failed", "fixture_id", fixtureID, "error", err)
	}
}

func collectTeamRefs(windows []FetchWindow) []ExternalTeamRef {
	seen := make(map[int64]struct{}, 32)
	var refs []ExternalTeamRef
	for _, window := range windows {
		if window.Err != nil {
			continue
		}
		for _, item := range window.Fixtures {
			for _, side := range []ExternalTeamRef{
				{ExternalID: item.HomeTeamExternalID, Name: item.HomeTeamName},
				{ExternalID: item.AwayTeamExternalID, Name: item.AwayTeamName},
			} {
				if side.ExternalID <= 0 {
					continue
				}
				if _, dup := seen[side.ExternalID]; dup {
					continue
				}
				seen[side.ExternalID] = struct{}{}
				refs = append(refs, side)
			}
		}
	}
	return refs
}

func cloneIntPtr(value *int) *int {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
