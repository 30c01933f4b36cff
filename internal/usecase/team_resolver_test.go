package usecase

import (
	"testing"

	"github.com/matchontv/reconcile/internal/domain/team"
	"github.com/matchontv/reconcile/internal/infrastructure/repository/memory"
)

func TestTeamResolver_Resolve(t *testing.T) {
	teamRepo := memory.NewTeamRepository(memory.SeedTeams(), nil)
	resolver := NewTeamResolver(teamRepo, nil)

	resolved, found, err := resolver.Resolve(t.Context(), 19)
	if err != nil || !found {
		t.Fatalf("resolve failed: found=%v err=%v", found, err)
	}
	if resolved.Slug != "arsenal" {
		t.Fatalf("unexpected team: %+v", resolved)
	}

	if _, found, err := resolver.Resolve(t.Context(), 9999); err != nil || found {
		t.Fatalf("unknown id must miss without error: found=%v err=%v", found, err)
	}
	if _, found, err := resolver.Resolve(t.Context(), 0); err != nil || found {
		t.Fatalf("zero id must miss without error: found=%v err=%v", found, err)
	}
}

func TestTeamResolver_BackfillExternalIDs(t *testing.T) {
	teams := append(memory.SeedTeams(),
		team.Team{ID: 5, Name: "Wednesday", Slug: "wednesday-a", CompetitionID: 1},
		team.Team{ID: 6, Name: "Wednesday", Slug: "wednesday-b", CompetitionID: 1},
	)
	teamRepo := memory.NewTeamRepository(teams, nil)
	resolver := NewTeamResolver(teamRepo, nil)

	result, err := resolver.BackfillExternalIDs(t.Context(), []ExternalTeamRef{
		{ExternalID: 11, Name: "Fulham"},      // matches "Fulham FC" once normalized
		{ExternalID: 19, Name: "Arsenal"},     // already linked
		{ExternalID: 77, Name: "Wednesday"},   // two unlinked candidates
		{ExternalID: 88, Name: "Nonexistent"}, // no candidate
		{ExternalID: 11, Name: "Fulham"},      // duplicate ref, counted once
	})
	if err != nil {
		t.Fatalf("backfill failed: %v", err)
	}

	if result.Linked != 1 || result.AlreadyLinked != 1 || result.Ambiguous != 1 || result.Unmatched != 1 {
		t.Fatalf("unexpected backfill counts: %+v", result)
	}

	linked, found, err := teamRepo.GetByExternalID(t.Context(), 11)
	if err != nil || !found {
		t.Fatalf("backfilled team not linked: found=%v err=%v", found, err)
	}
	if linked.Slug != "fulham-fc" {
		t.Fatalf("wrong team linked: %+v", linked)
	}

	// The resolver cache must serve the just-linked team immediately.
	resolved, found, err := resolver.Resolve(t.Context(), 11)
	if err != nil || !found {
		t.Fatalf("resolve after backfill failed: found=%v err=%v", found, err)
	}
	if resolved.ID != linked.ID {
		t.Fatalf("cache returned wrong team: %+v", resolved)
	}
}
