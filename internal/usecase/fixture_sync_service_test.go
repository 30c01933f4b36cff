package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/matchontv/reconcile/internal/domain/fixture"
	"github.com/matchontv/reconcile/internal/infrastructure/repository/memory"
)

type stubProvider struct {
	windows []FetchWindow
	err     error
	calls   int
}

func (p *stubProvider) FetchFixturesBetween(_ context.Context, _ int64, _, _ time.Time) ([]FetchWindow, error) {
	p.calls++
	return p.windows, p.err
}

func newSyncFixtureEnv(provider FixtureProvider) (*FixtureSyncService, *memory.FixtureRepository, *memory.BroadcastRepository) {
	fixtureRepo := memory.NewFixtureRepository(nil)
	broadcastRepo := memory.NewBroadcastRepository(nil, memory.SeedProvidersByStation())
	fixtureRepo.AttachBroadcasts(broadcastRepo)
	teamRepo := memory.NewTeamRepository(memory.SeedTeams(), fixtureRepo)
	competitionRepo := memory.NewCompetitionRepository(memory.SeedCompetitions())

	svc := NewFixtureSyncService(
		provider,
		competitionRepo,
		fixtureRepo,
		broadcastRepo,
		NewTeamResolver(teamRepo, nil),
		nil,
	)
	return svc, fixtureRepo, broadcastRepo
}

func syncWindow(fixtures ...ExternalFixture) FetchWindow {
	return FetchWindow{
		Start:    memory.SeedKickoff.AddDate(0, 0, -1),
		End:      memory.SeedKickoff.AddDate(0, 1, 0),
		Fixtures: fixtures,
	}
}

func externalDerby(score int) ExternalFixture {
	home := score
	away := 0
	return ExternalFixture{
		ExternalID:         5001,
		HomeTeamExternalID: 19,
		AwayTeamExternalID: 8,
		HomeTeamName:       "Arsenal",
		AwayTeamName:       "Liverpool",
		KickoffAt:          memory.SeedKickoff,
		State:              "FT",
		Round:              "1",
		Venue:              "Emirates Stadium",
		HomeScore:          &home,
		AwayScore:          &away,
	}
}

func TestFixtureSyncService_SyncRange_InsertThenUpdate(t *testing.T) {
	provider := &stubProvider{windows: []FetchWindow{syncWindow(externalDerby(1))}}
	svc, fixtureRepo, _ := newSyncFixtureEnv(provider)

	input := SyncInput{
		CompetitionSlug: memory.CompetitionSlugPremierLeague,
		From:            memory.SeedKickoff.AddDate(0, 0, -1),
		To:              memory.SeedKickoff.AddDate(0, 1, 0),
	}

	first, err := svc.SyncRange(t.Context(), input)
	if err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	if first.Inserted != 1 || first.Updated != 0 || first.WindowsOK != 1 {
		t.Fatalf("unexpected first run counts: %+v", first)
	}

	provider.windows = []FetchWindow{syncWindow(externalDerby(3))}
	second, err := svc.SyncRange(t.Context(), input)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if second.Inserted != 0 || second.Updated != 1 {
		t.Fatalf("unexpected second run counts: %+v", second)
	}

	stored, found, err := fixtureRepo.GetByExternalID(t.Context(), 5001)
	if err != nil || !found {
		t.Fatalf("fixture not stored: found=%v err=%v", found, err)
	}
	if stored.Status != fixture.StatusFinished {
		t.Fatalf("unexpected status: %s", stored.Status)
	}
	if stored.HomeScore == nil || *stored.HomeScore != 3 {
		t.Fatalf("score not updated: %+v", stored.HomeScore)
	}
}

func TestFixtureSyncService_SyncRange_SkipsUnresolvedTeam(t *testing.T) {
	unknown := externalDerby(0)
	unknown.ExternalID = 5002
	unknown.AwayTeamExternalID = 9999
	provider := &stubProvider{windows: []FetchWindow{syncWindow(unknown)}}
	svc, _, _ := newSyncFixtureEnv(provider)

	result, err := svc.SyncRange(t.Context(), SyncInput{
		CompetitionSlug: memory.CompetitionSlugPremierLeague,
		From:            memory.SeedKickoff.AddDate(0, 0, -1),
		To:              memory.SeedKickoff.AddDate(0, 1, 0),
	})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.Skipped != 1 || result.Inserted != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(result.SkippedFixtures) != 1 || result.SkippedFixtures[0] != 5002 {
		t.Fatalf("skipped fixture ids not recorded: %v", result.SkippedFixtures)
	}
}

func TestFixtureSyncService_SyncRange_CountsFailedWindows(t *testing.T) {
	provider := &stubProvider{windows: []FetchWindow{
		syncWindow(externalDerby(0)),
		{
			Start: memory.SeedKickoff.AddDate(0, 1, 0),
			End:   memory.SeedKickoff.AddDate(0, 2, 0),
			Err:   fmt.Errorf("provider returned 503"),
		},
	}}
	svc, _, _ := newSyncFixtureEnv(provider)

	result, err := svc.SyncRange(t.Context(), SyncInput{
		CompetitionSlug: memory.CompetitionSlugPremierLeague,
		From:            memory.SeedKickoff.AddDate(0, 0, -1),
		To:              memory.SeedKickoff.AddDate(0, 2, 0),
	})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.WindowsOK != 1 || result.WindowsFailed != 1 {
		t.Fatalf("unexpected window counts: %+v", result)
	}
	if result.Inserted != 1 {
		t.Fatalf("ok window should still ingest: %+v", result)
	}
	if len(result.FailedWindows) != 1 || result.FailedWindows[0].Err == nil {
		t.Fatalf("failed window not recorded: %+v", result.FailedWindows)
	}
}

func TestFixtureSyncService_SyncRange_FallbackMatchAdoptsExternalID(t *testing.T) {
	provider := &stubProvider{windows: []FetchWindow{syncWindow(externalDerby(2))}}
	svc, fixtureRepo, _ := newSyncFixtureEnv(provider)

	// Entered by hand before the provider link existed: same pairing,
	// same day, slightly different kickoff time, no external id.
	manualID, err := fixtureRepo.Insert(t.Context(), fixture.Fixture{
		HomeTeamID:    1,
		AwayTeamID:    2,
		KickoffAt:     memory.SeedKickoff.Add(30 * time.Minute),
		CompetitionID: 1,
		Status:        fixture.StatusScheduled,
	})
	if err != nil {
		t.Fatalf("seed manual fixture: %v", err)
	}

	result, err := svc.SyncRange(t.Context(), SyncInput{
		CompetitionSlug: memory.CompetitionSlugPremierLeague,
		From:            memory.SeedKickoff.AddDate(0, 0, -1),
		To:              memory.SeedKickoff.AddDate(0, 1, 0),
	})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.Inserted != 0 || result.Updated != 1 {
		t.Fatalf("fallback match should update, not insert: %+v", result)
	}

	stored, found, err := fixtureRepo.GetByID(t.Context(), manualID)
	if err != nil || !found {
		t.Fatalf("manual fixture missing: found=%v err=%v", found, err)
	}
	if stored.ExternalID != 5001 {
		t.Fatalf("external id not adopted: %d", stored.ExternalID)
	}
	if stored.Status != fixture.StatusFinished {
		t.Fatalf("fallback match not updated: %s", stored.Status)
	}
}

func TestFixtureSyncService_SyncRange_IngestsBroadcasts(t *testing.T) {
	item := externalDerby(0)
	item.TVStations = []ExternalTVStation{
		{StationID: 100, Name: "Sky Sports Main Event", CountryID: 462},
		{StationID: 555, Name: "Obscure Regional", CountryID: 462},
	}
	provider := &stubProvider{windows: []FetchWindow{syncWindow(item)}}
	svc, fixtureRepo, broadcastRepo := newSyncFixtureEnv(provider)

	input := SyncInput{
		CompetitionSlug:   memory.CompetitionSlugPremierLeague,
		From:              memory.SeedKickoff.AddDate(0, 0, -1),
		To:                memory.SeedKickoff.AddDate(0, 1, 0),
		IncludeBroadcasts: true,
	}

	result, err := svc.SyncRange(t.Context(), input)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.BroadcastsInserted != 2 || result.BroadcastsUnmapped != 1 {
		t.Fatalf("unexpected broadcast counts: %+v", result)
	}

	stored, _, err := fixtureRepo.GetByExternalID(t.Context(), 5001)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	if stored.TVChannel != "Sky Sports" || stored.TVStationID != 100 {
		t.Fatalf("primary broadcaster not set: channel=%q station=%d", stored.TVChannel, stored.TVStationID)
	}

	// Re-running must not duplicate broadcast rows.
	again, err := svc.SyncRange(t.Context(), input)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if again.BroadcastsInserted != 0 {
		t.Fatalf("broadcast rows duplicated: %+v", again)
	}
	rows, err := broadcastRepo.ListByFixture(t.Context(), stored.ID)
	if err != nil {
		t.Fatalf("list broadcasts: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unexpected broadcast row count: %d", len(rows))
	}
	for _, row := range rows {
		if row.Country != "462" {
			t.Fatalf("provider country not persisted: %+v", row)
		}
	}
}

func TestFixtureSyncService_SyncRange_BackfillLinksTeamByName(t *testing.T) {
	item := ExternalFixture{
		ExternalID:         5005,
		HomeTeamExternalID: 11,
		AwayTeamExternalID: 8,
		HomeTeamName:       "Fulham",
		AwayTeamName:       "Liverpool",
		KickoffAt:          memory.SeedKickoff,
		State:              "NS",
	}
	provider := &stubProvider{windows: []FetchWindow{syncWindow(item)}}
	svc, fixtureRepo, _ := newSyncFixtureEnv(provider)

	result, err := svc.SyncRange(t.Context(), SyncInput{
		CompetitionSlug: memory.CompetitionSlugPremierLeague,
		From:            memory.SeedKickoff.AddDate(0, 0, -1),
		To:              memory.SeedKickoff.AddDate(0, 1, 0),
		BackfillTeams:   true,
	})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.Inserted != 1 || result.Skipped != 0 {
		t.Fatalf("backfilled team should resolve: %+v", result)
	}

	stored, found, err := fixtureRepo.GetByExternalID(t.Context(), 5005)
	if err != nil || !found {
		t.Fatalf("fixture missing: found=%v err=%v", found, err)
	}
	if stored.HomeTeamID != 4 {
		t.Fatalf("fixture not linked to backfilled team: %d", stored.HomeTeamID)
	}
}

func TestFixtureSyncService_SyncVisible_SkipsHiddenCompetitions(t *testing.T) {
	provider := &stubProvider{windows: []FetchWindow{syncWindow(externalDerby(1))}}
	svc, _, _ := newSyncFixtureEnv(provider)

	outcomes, err := svc.SyncVisible(t.Context(), SyncInput{
		From: memory.SeedKickoff.AddDate(0, 0, -1),
		To:   memory.SeedKickoff.AddDate(0, 1, 0),
	})
	if err != nil {
		t.Fatalf("sync visible failed: %v", err)
	}

	// The seed has two competitions but only the Premier League is visible.
	if len(outcomes) != 1 || outcomes[0].Slug != memory.CompetitionSlugPremierLeague {
		t.Fatalf("unexpected outcomes: %+v", outcomes)
	}
	if outcomes[0].Err != nil {
		t.Fatalf("visible competition should sync: %v", outcomes[0].Err)
	}
	if outcomes[0].Result.Inserted != 1 {
		t.Fatalf("unexpected run counts: %+v", outcomes[0].Result)
	}
	if provider.calls != 1 {
		t.Fatalf("hidden competition must not reach the provider: %d calls", provider.calls)
	}
}

func TestFixtureSyncService_SyncRange_InputValidation(t *testing.T) {
	provider := &stubProvider{}
	svc, _, _ := newSyncFixtureEnv(provider)

	_, err := svc.SyncRange(t.Context(), SyncInput{
		CompetitionSlug: memory.CompetitionSlugPremierLeague,
		From:            memory.SeedKickoff,
		To:              memory.SeedKickoff.AddDate(0, 0, -7),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inverted range, got %v", err)
	}

	_, err = svc.SyncRange(t.Context(), SyncInput{
		CompetitionSlug: "no-such-competition",
		From:            memory.SeedKickoff,
		To:              memory.SeedKickoff.AddDate(0, 1, 0),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown competition, got %v", err)
	}
	if provider.calls != 0 {
		t.Fatalf("provider must not be called on rejected input: %d", provider.calls)
	}
}
