package usecase

import (
	"context"
	"fmt"

	"github.com/matchontv/reconcile/internal/domain/team"
	"github.com/matchontv/reconcile/internal/platform/logging"
)

// TeamResolver maps provider team ids to canonical teams. Resolution is
// a pure lookup: an unknown provider team never creates a canonical row
// as a side effect of fixture sync.
type TeamResolver struct {
	teamRepo team.Repository
	logger   *logging.Logger

	cache map[int64]resolvedTeam
}

type resolvedTeam struct {
	team  team.Team
	found bool
}

func NewTeamResolver(teamRepo team.Repository, logger *logging.Logger) *TeamResolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamResolver{
		teamRepo: teamRepo,
		logger:   logger,
		cache:    make(map[int64]resolvedTeam, 64),
	}
}

// Resolve returns the canonical team linked to the provider id. The
// per-run cache keeps a long batch from hitting the store once per
// fixture side.
func (r *TeamResolver) Resolve(ctx context.Context, externalID int64) (team.Team, bool, error) {
	if externalID <= 0 {
		return team.Team{}, false, nil
	}
	if cached, ok := r.cache[externalID]; ok {
		return cached.team, cached.found, nil
	}

	resolved, found, err := r.teamRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return team.Team{}, false, fmt.Errorf("resolve team external_id=%d: %w", externalID, err)
	}
	r.cache[externalID] = resolvedTeam{team: resolved, found: found}
	return resolved, found, nil
}

// ExternalTeamRef is one provider team seen during a fetch.
type ExternalTeamRef struct {
	ExternalID int64
	Name       string
}

// BackfillResult reports what linking provider refs to canonical rows
// achieved.
type BackfillResult struct {
	Linked        int
	AlreadyLinked int
	Ambiguous     int
	Unmatched     int
}

// BackfillExternalIDs links provider team refs to canonical teams that
// were entered manually and have no external id yet, matching on
// normalized name. Ambiguous names are reported, never guessed.
func (r *TeamResolver) BackfillExternalIDs(ctx context.Context, refs []ExternalTeamRef) (BackfillResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamResolver.BackfillExternalIDs")
	defer span.End()

	var result BackfillResult
	if len(refs) == 0 {
		return result, nil
	}

	teams, err := r.teamRepo.List(ctx)
	if err != nil {
		return result, fmt.Errorf("list teams for external id backfill: %w", err)
	}

	linkedExternal := make(map[int64]bool, len(teams))
	unlinkedByName := make(map[string][]team.Team, len(teams))
	for _, item := range teams {
		if item.ExternalID > 0 {
			linkedExternal[item.ExternalID] = true
			continue
		}
		key := team.NormalizeName(item.Name)
		if key == "" {
			continue
		}
		unlinkedByName[key] = append(unlinkedByName[key], item)
	}

	seen := make(map[int64]bool, len(refs))
	for _, ref := range refs {
		if ref.ExternalID <= 0 || seen[ref.ExternalID] {
			continue
		}
		seen[ref.ExternalID] = true

		if linkedExternal[ref.ExternalID] {
			result.AlreadyLinked++
			continue
		}

		key := team.NormalizeName(ref.Name)
		candidates := unlinkedByName[key]
		switch len(candidates) {
		case 0:
			result.Unmatched++
		case 1:
			if err := r.teamRepo.SetExternalID(ctx, candidates[0].ID, ref.ExternalID); err != nil {
				r.logger.WarnContext(ctx, "backfill external id failed",
					"team_id", candidates[0].ID,
					"external_id", ref.ExternalID,
					"error", err,
				)
				result.Unmatched++
				continue
			}
			// Refresh the cache so fixtures in the same run resolve.
			linked := candidates[0]
			linked.ExternalID = ref.ExternalID
			r.cache[ref.ExternalID] = resolvedTeam{team: linked, found: true}
			delete(unlinkedByName, key)
			result.Linked++
		default:
			r.logger.WarnContext(ctx, "ambiguous team name during external id backfill",
				"name", ref.Name,
				"external_id", ref.ExternalID,
				"candidate_count", len(candidates),
			)
			result.Ambiguous++
		}
	}

	return result, nil
}
