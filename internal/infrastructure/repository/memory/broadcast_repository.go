package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matchontv/reconcile/internal/domain/broadcast"
)

type BroadcastRepository struct {
	mu        sync.RWMutex
	rows      map[int64]broadcast.Broadcast
	providers map[int64]broadcast.Provider
	next      int64
	now       func() time.Time
}

// NewBroadcastRepository seeds the store with broadcast rows and the
// station-to-broadcaster mapping keyed by provider station id.
func NewBroadcastRepository(rows []broadcast.Broadcast, providersByStation map[int64]broadcast.Provider) *BroadcastRepository {
	byID := make(map[int64]broadcast.Broadcast, len(rows))
	var next int64 = 1
	for _, item := range rows {
		byID[item.ID] = item
		if item.ID >= next {
			next = item.ID + 1
		}
	}
	providers := make(map[int64]broadcast.Provider, len(providersByStation))
	for stationID, provider := range providersByStation {
		providers[stationID] = provider
	}
	return &BroadcastRepository{
		rows:      byID,
		providers: providers,
		next:      next,
		now:       time.Now,
	}
}

// SetNow overrides the clock used to stamp inserted rows.
func (r *BroadcastRepository) SetNow(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// MapStation adds or replaces one station-to-broadcaster mapping.
func (r *BroadcastRepository) MapStation(stationID int64, provider broadcast.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[stationID] = provider
}

func (r *BroadcastRepository) ListByFixture(_ context.Context, fixtureID int64) ([]broadcast.Broadcast, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []broadcast.Broadcast
	for _, item := range r.rows {
		if item.FixtureID != fixtureID {
			continue
		}
		// The SQL repository resolves the mapping on read via join, so
		// rows inserted before a station was mapped still surface it.
		if provider, ok := r.providers[item.StationID]; ok {
			p := provider
			item.Provider = &p
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BroadcastRepository) Insert(_ context.Context, item broadcast.Broadcast) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == 0 {
		item.ID = r.next
		r.next++
	} else if item.ID >= r.next {
		r.next = item.ID + 1
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = r.now().UTC()
	}
	r.rows[item.ID] = item
	return item.ID, nil
}

func (r *BroadcastRepository) ExistsForFixtureStation(_ context.Context, fixtureID, stationID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.rows {
		if item.FixtureID == fixtureID && item.StationID == stationID {
			return true, nil
		}
	}
	return false, nil
}

func (r *BroadcastRepository) GetProviderByStationID(_ context.Context, stationID int64) (broadcast.Provider, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[stationID]
	return provider, ok, nil
}

func (r *BroadcastRepository) ListUnmappedStations(_ context.Context) ([]broadcast.UnmappedStation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byStation := make(map[int64]*broadcast.UnmappedStation)
	for _, item := range r.rows {
		if _, mapped := r.providers[item.StationID]; mapped {
			continue
		}
		entry, ok := byStation[item.StationID]
		if !ok {
			entry = &broadcast.UnmappedStation{StationID: item.StationID, Channel: item.Channel}
			byStation[item.StationID] = entry
		}
		entry.RowCount++
	}

	out := make([]broadcast.UnmappedStation, 0, len(byStation))
	for _, entry := range byStation {
		out = append(out, *entry)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StationID < out[j].StationID })
	return out, nil
}

func (r *BroadcastRepository) CountMappedStations(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int64]struct{})
	for _, item := range r.rows {
		if _, mapped := r.providers[item.StationID]; !mapped {
			continue
		}
		seen[item.StationID] = struct{}{}
	}
	return len(seen), nil
}

func (r *BroadcastRepository) fixtureIDs() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int64]struct{}, len(r.rows))
	var out []int64
	for _, item := range r.rows {
		if _, dup := seen[item.FixtureID]; dup {
			continue
		}
		seen[item.FixtureID] = struct{}{}
		out = append(out, item.FixtureID)
	}
	return out
}
