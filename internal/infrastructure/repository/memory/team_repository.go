package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/matchontv/reconcile/internal/domain/team"
)

type TeamRepository struct {
	mu       sync.RWMutex
	rows     map[int64]team.Team
	next     int64
	fixtures *FixtureRepository
}

// NewTeamRepository seeds an in-memory team store. Passing the fixture
// repository lets Merge rewrite fixture references the way the SQL
// implementation does inside its transaction.
func NewTeamRepository(teams []team.Team, fixtures *FixtureRepository) *TeamRepository {
	rows := make(map[int64]team.Team, len(teams))
	var next int64 = 1
	for _, item := range teams {
		rows[item.ID] = item
		if item.ID >= next {
			next = item.ID + 1
		}
	}
	return &TeamRepository{rows: rows, next: next, fixtures: fixtures}
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.rows[id]
	return item, ok, nil
}

func (r *TeamRepository) GetByExternalID(_ context.Context, externalID int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var match team.Team
	found := false
	for _, item := range r.rows {
		if item.ExternalID != externalID {
			continue
		}
		if !found || item.ID < match.ID {
			match = item
			found = true
		}
	}
	return match, found, nil
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.rows))
	for _, item := range r.rows {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) ListDuplicateExternalIDs(ctx context.Context) ([]team.DuplicatePair, error) {
	r.mu.RLock()
	byExternal := make(map[int64][]team.Team)
	for _, item := range r.rows {
		if item.ExternalID > 0 {
			byExternal[item.ExternalID] = append(byExternal[item.ExternalID], item)
		}
	}
	r.mu.RUnlock()

	var pairs []team.DuplicatePair
	for externalID, group := range byExternal {
		if len(group) < 2 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			left, _ := r.countFixtures(ctx, group[i].ID)
			right, _ := r.countFixtures(ctx, group[j].ID)
			if left != right {
				return left > right
			}
			return group[i].ID < group[j].ID
		})
		keep := group[0]
		for _, loser := range group[1:] {
			pairs = append(pairs, team.DuplicatePair{
				ExternalID: externalID,
				KeepID:     keep.ID,
				DeleteID:   loser.ID,
				KeepSlug:   keep.Slug,
				DeleteSlug: loser.Slug,
			})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].ExternalID != pairs[j].ExternalID {
			return pairs[i].ExternalID < pairs[j].ExternalID
		}
		return pairs[i].DeleteID < pairs[j].DeleteID
	})
	return pairs, nil
}

func (r *TeamRepository) countFixtures(ctx context.Context, teamID int64) (int64, error) {
	if r.fixtures == nil {
		return 0, nil
	}
	return r.fixtures.CountByTeam(ctx, teamID)
}

func (r *TeamRepository) SetExternalID(_ context.Context, id, externalID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("team id=%d not found", id)
	}
	item.ExternalID = externalID
	r.rows[id] = item
	return nil
}

func (r *TeamRepository) Insert(_ context.Context, item team.Team) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == 0 {
		item.ID = r.next
		r.next++
	} else if item.ID >= r.next {
		r.next = item.ID + 1
	}
	r.rows[item.ID] = item
	return item.ID, nil
}

func (r *TeamRepository) Merge(ctx context.Context, keepID, deleteID int64) (team.MergeOutcome, error) {
	var outcome team.MergeOutcome

	r.mu.Lock()
	if _, ok := r.rows[keepID]; !ok {
		r.mu.Unlock()
		return outcome, fmt.Errorf("keep team id=%d not found", keepID)
	}
	if _, ok := r.rows[deleteID]; !ok {
		r.mu.Unlock()
		return outcome, fmt.Errorf("delete team id=%d not found", deleteID)
	}
	r.mu.Unlock()

	if r.fixtures != nil {
		home, away := r.fixtures.rewriteTeam(deleteID, keepID)
		outcome.HomeRewritten = home
		outcome.AwayRewritten = away
		keepCount, err := r.fixtures.CountByTeam(ctx, keepID)
		if err != nil {
			return outcome, err
		}
		outcome.KeepFixtures = keepCount
	}

	r.mu.Lock()
	delete(r.rows, deleteID)
	r.mu.Unlock()
	return outcome, nil
}
