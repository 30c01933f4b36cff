package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/matchontv/reconcile/internal/domain/fixture"
)

type FixtureRepository struct {
	mu         sync.RWMutex
	rows       map[int64]fixture.Fixture
	next       int64
	broadcasts *BroadcastRepository
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	rows := make(map[int64]fixture.Fixture, len(fixtures))
	var next int64 = 1
	for _, item := range fixtures {
		rows[item.ID] = item
		if item.ID >= next {
			next = item.ID + 1
		}
	}
	return &FixtureRepository{rows: rows, next: next}
}

// AttachBroadcasts lets ListIDsWithBroadcasts consult the broadcast
// store, mirroring the SQL join.
func (r *FixtureRepository) AttachBroadcasts(broadcasts *BroadcastRepository) {
	r.broadcasts = broadcasts
}

func (r *FixtureRepository) GetByID(_ context.Context, id int64) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.rows[id]
	return item, ok, nil
}

func (r *FixtureRepository) GetByExternalID(_ context.Context, externalID int64) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if externalID <= 0 {
		return fixture.Fixture{}, false, nil
	}
	for _, item := range r.rows {
		if item.ExternalID == externalID {
			return item, true, nil
		}
	}
	return fixture.Fixture{}, false, nil
}

func (r *FixtureRepository) GetByTeamsAndDate(_ context.Context, homeTeamID, awayTeamID int64, day time.Time) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	target := day.UTC().Truncate(24 * time.Hour)
	for _, item := range r.rows {
		if item.HomeTeamID != homeTeamID || item.AwayTeamID != awayTeamID {
			continue
		}
		if item.KickoffAt.UTC().Truncate(24 * time.Hour).Equal(target) {
			return item, true, nil
		}
	}
	return fixture.Fixture{}, false, nil
}

func (r *FixtureRepository) Insert(_ context.Context, item fixture.Fixture) (int64, error) {
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

func (r *FixtureRepository) Update(_ context.Context, item fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[item.ID]; !ok {
		return fmt.Errorf("fixture id=%d not found", item.ID)
	}
	r.rows[item.ID] = item
	return nil
}

func (r *FixtureRepository) List(_ context.Context) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(r.rows))
	for _, item := range r.rows {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FixtureRepository) ListIDsWithBroadcasts(ctx context.Context) ([]int64, error) {
	if r.broadcasts == nil {
		return nil, nil
	}
	fixtureIDs := r.broadcasts.fixtureIDs()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int64, 0, len(fixtureIDs))
	for _, id := range fixtureIDs {
		if _, ok := r.rows[id]; ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *FixtureRepository) SetPrimaryBroadcaster(_ context.Context, fixtureID int64, channel string, stationID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.rows[fixtureID]
	if !ok {
		return fmt.Errorf("fixture id=%d not found", fixtureID)
	}
	item.TVChannel = channel
	item.TVStationID = stationID
	r.rows[fixtureID] = item
	return nil
}

func (r *FixtureRepository) CountByTeam(_ context.Context, teamID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, item := range r.rows {
		if item.HomeTeamID == teamID || item.AwayTeamID == teamID {
			count++
		}
	}
	return count, nil
}

func (r *FixtureRepository) rewriteTeam(fromTeamID, toTeamID int64) (home, away int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.rows {
		changed := false
		if item.HomeTeamID == fromTeamID {
			item.HomeTeamID = toTeamID
			home++
			changed = true
		}
		if item.AwayTeamID == fromTeamID {
			item.AwayTeamID = toTeamID
			away++
			changed = true
		}
		if changed {
			r.rows[id] = item
		}
	}
	return home, away
}
