package usecase

import (
	"errors"
	"testing"

	"github.com/matchontv/reconcile/internal/domain/fixture"
	"github.com/matchontv/reconcile/internal/domain/team"
	"github.com/matchontv/reconcile/internal/infrastructure/repository/memory"
)

func newMergeEnv(t *testing.T) (*TeamMergeService, *memory.TeamRepository, *memory.FixtureRepository) {
	t.Helper()

	fixtureRepo := memory.NewFixtureRepository([]fixture.Fixture{
		{ID: 1, ExternalID: 9001, HomeTeamID: 1, AwayTeamID: 2, KickoffAt: memory.SeedKickoff, CompetitionID: 1, Status: fixture.StatusFinished},
		{ID: 2, ExternalID: 9002, HomeTeamID: 5, AwayTeamID: 2, KickoffAt: memory.SeedKickoff.AddDate(0, 0, 7), CompetitionID: 1, Status: fixture.StatusScheduled},
		{ID: 3, ExternalID: 9003, HomeTeamID: 3, AwayTeamID: 5, KickoffAt: memory.SeedKickoff.AddDate(0, 0, 14), CompetitionID: 1, Status: fixture.StatusScheduled},
	})

	teams := append(memory.SeedTeams(), team.Team{
		// Same club imported twice under the provider id Arsenal holds.
		ID: 5, Name: "Arsenal FC", Slug: "arsenal-fc", ExternalID: 19, CompetitionID: 1,
	})
	teamRepo := memory.NewTeamRepository(teams, fixtureRepo)

	return NewTeamMergeService(teamRepo, nil), teamRepo, fixtureRepo
}

func TestTeamMergeService_DetectDuplicates(t *testing.T) {
	svc, _, _ := newMergeEnv(t)

	pairs, err := svc.DetectDuplicates(t.Context())
	if err != nil {
		t.Fatalf("detect duplicates failed: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected one duplicate pair, got %d", len(pairs))
	}

	pair := pairs[0]
	if pair.ExternalID != 19 {
		t.Fatalf("unexpected external id: %d", pair.ExternalID)
	}
	// Team 5 plays two fixtures against team 1's one, so it survives.
	if pair.KeepID != 5 || pair.DeleteID != 1 {
		t.Fatalf("unexpected survivor proposal: keep=%d delete=%d", pair.KeepID, pair.DeleteID)
	}
}

func TestTeamMergeService_MergePairs_RewritesFixtures(t *testing.T) {
	svc, teamRepo, fixtureRepo := newMergeEnv(t)

	result, err := svc.MergePairs(t.Context(), []MergePair{{KeepID: 1, DeleteID: 5}})
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if result.Merged != 1 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	report := result.Reports[0]
	if report.HomeRewritten != 1 || report.AwayRewritten != 1 {
		t.Fatalf("unexpected rewrite counts: %+v", report)
	}
	if report.KeepFixtures != 3 {
		t.Fatalf("unexpected keep fixture count: %d", report.KeepFixtures)
	}

	if _, found, _ := teamRepo.GetByID(t.Context(), 5); found {
		t.Fatal("losing team still exists after merge")
	}

	count, err := fixtureRepo.CountByTeam(t.Context(), 1)
	if err != nil {
		t.Fatalf("count fixtures: %v", err)
	}
	if count != 3 {
		t.Fatalf("fixtures not rewritten to survivor: %d", count)
	}
}

func TestTeamMergeService_MergePairs_ContinuesPastFailures(t *testing.T) {
	svc, _, _ := newMergeEnv(t)

	result, err := svc.MergePairs(t.Context(), []MergePair{
		{KeepID: 1, DeleteID: 404},
		{KeepID: 2, DeleteID: 2},
		{KeepID: 1, DeleteID: 5},
	})
	if err != nil {
		t.Fatalf("merge run failed: %v", err)
	}
	if result.Merged != 1 || result.Failed != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	if !errors.Is(result.Reports[0].Err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing team, got %v", result.Reports[0].Err)
	}
	if !errors.Is(result.Reports[1].Err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self merge, got %v", result.Reports[1].Err)
	}
	if result.Reports[2].Err != nil {
		t.Fatalf("valid pair should merge after failures: %v", result.Reports[2].Err)
	}
}

func TestTeamMergeService_MergePairs_RejectsEmptyInput(t *testing.T) {
	svc, _, _ := newMergeEnv(t)

	if _, err := svc.MergePairs(t.Context(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
