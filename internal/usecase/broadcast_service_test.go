package usecase

import (
	"testing"
	"time"

	"github.com/matchontv/reconcile/internal/domain/broadcast"
	"github.com/matchontv/reconcile/internal/domain/fixture"
	"github.com/matchontv/reconcile/internal/infrastructure/repository/memory"
)

func newBroadcastEnv() (*BroadcastService, *memory.FixtureRepository, *memory.BroadcastRepository) {
	fixtureRepo := memory.NewFixtureRepository([]fixture.Fixture{
		{ID: 1, ExternalID: 9001, HomeTeamID: 1, AwayTeamID: 2, KickoffAt: memory.SeedKickoff, CompetitionID: 1, Status: fixture.StatusScheduled},
		{ID: 2, ExternalID: 9002, HomeTeamID: 3, AwayTeamID: 1, KickoffAt: memory.SeedKickoff.AddDate(0, 0, 7), CompetitionID: 1, Status: fixture.StatusScheduled},
		{ID: 3, ExternalID: 9003, HomeTeamID: 2, AwayTeamID: 3, KickoffAt: memory.SeedKickoff.AddDate(0, 0, 14), CompetitionID: 1, Status: fixture.StatusScheduled},
	})
	broadcastRepo := memory.NewBroadcastRepository([]broadcast.Broadcast{
		// Fixture 1: streaming row recorded before the TV one.
		{ID: 1, FixtureID: 1, StationID: 200, Channel: "Amazon Prime", CreatedAt: memory.SeedKickoff.Add(-48 * time.Hour)},
		{ID: 2, FixtureID: 1, StationID: 100, Channel: "Sky Sports Main Event", CreatedAt: memory.SeedKickoff.Add(-24 * time.Hour)},
		// Fixture 2: blackout sentinel plus a TV row.
		{ID: 3, FixtureID: 2, StationID: 101, Channel: "TNT Sports 1", CreatedAt: memory.SeedKickoff.Add(-24 * time.Hour)},
		{ID: 4, FixtureID: 2, StationID: 900, Channel: "", CreatedAt: memory.SeedKickoff.Add(-12 * time.Hour)},
		// Fixture 3: only an unmapped station.
		{ID: 5, FixtureID: 3, StationID: 555, Channel: "Obscure Regional", CreatedAt: memory.SeedKickoff.Add(-24 * time.Hour)},
		{ID: 6, FixtureID: 3, StationID: 555, Channel: "Obscure Regional", CreatedAt: memory.SeedKickoff.Add(-12 * time.Hour)},
	}, memory.SeedProvidersByStation())
	fixtureRepo.AttachBroadcasts(broadcastRepo)

	return NewBroadcastService(broadcastRepo, fixtureRepo, nil), fixtureRepo, broadcastRepo
}

func TestBroadcastService_RecomputePrimaries(t *testing.T) {
	svc, fixtureRepo, _ := newBroadcastEnv()

	result, err := svc.RecomputePrimaries(t.Context(), 2)
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if result.Fixtures != 3 {
		t.Fatalf("unexpected fixture count: %+v", result)
	}
	if result.Updated != 1 || result.Cleared != 1 || result.Failed != 0 {
		t.Fatalf("unexpected outcome counts: %+v", result)
	}

	one, _, _ := fixtureRepo.GetByID(t.Context(), 1)
	if one.TVChannel != "Sky Sports" || one.TVStationID != 100 {
		t.Fatalf("television should beat streaming: channel=%q station=%d", one.TVChannel, one.TVStationID)
	}

	two, _, _ := fixtureRepo.GetByID(t.Context(), 2)
	if two.TVChannel != "" || two.TVStationID != 900 {
		t.Fatalf("blackout should clear the channel: channel=%q station=%d", two.TVChannel, two.TVStationID)
	}

	// Fixture 3 has no resolved rows and must keep whatever it carried.
	three, _, _ := fixtureRepo.GetByID(t.Context(), 3)
	if three.TVChannel != "" || three.TVStationID != 0 {
		t.Fatalf("unmapped-only fixture must stay untouched: %+v", three)
	}
}

func TestBroadcastService_RecomputePrimaries_AfterMappingAdded(t *testing.T) {
	svc, fixtureRepo, broadcastRepo := newBroadcastEnv()

	if _, err := svc.RecomputePrimaries(t.Context(), 1); err != nil {
		t.Fatalf("first sweep failed: %v", err)
	}

	broadcastRepo.MapStation(555, broadcast.Provider{
		ID: 9, Name: "Regional One", Slug: "regional-one", Type: broadcast.ProviderTypeTelevision,
	})

	result, err := svc.RecomputePrimaries(t.Context(), 1)
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if result.Updated != 2 || result.Cleared != 1 {
		t.Fatalf("unexpected counts after mapping: %+v", result)
	}

	three, _, _ := fixtureRepo.GetByID(t.Context(), 3)
	if three.TVChannel != "Regional One" || three.TVStationID != 555 {
		t.Fatalf("new mapping should resolve fixture 3: %+v", three)
	}
}

func TestBroadcastService_MappingCoverage(t *testing.T) {
	svc, _, _ := newBroadcastEnv()

	report, err := svc.MappingCoverage(t.Context())
	if err != nil {
		t.Fatalf("coverage failed: %v", err)
	}
	// Stations 100, 101, 200 and 900 resolve through the mapping table.
	if report.MappedStations != 4 {
		t.Fatalf("unexpected mapped station count: %+v", report)
	}
	if report.UnmappedStations != 1 {
		t.Fatalf("unexpected unmapped station count: %+v", report)
	}
	if report.UnmappedRows != 2 {
		t.Fatalf("unexpected unmapped row count: %+v", report)
	}
	if report.Unmapped[0].StationID != 555 || report.Unmapped[0].Channel != "Obscure Regional" {
		t.Fatalf("unexpected unmapped station: %+v", report.Unmapped[0])
	}
}

func TestBroadcastService_FixtureVisibility(t *testing.T) {
	svc, _, _ := newBroadcastEnv()

	cases := []struct {
		fixtureID int64
		want      string
	}{
		{1, broadcast.VisibilityConfirmed},
		{2, broadcast.VisibilityBlackout},
		{3, broadcast.VisibilityTBD},
		{404, broadcast.VisibilityTBD},
	}
	for _, tc := range cases {
		got, err := svc.FixtureVisibility(t.Context(), tc.fixtureID)
		if err != nil {
			t.Fatalf("visibility fixture=%d: %v", tc.fixtureID, err)
		}
		if got != tc.want {
			t.Fatalf("fixture=%d visibility=%s want=%s", tc.fixtureID, got, tc.want)
		}
	}
}
