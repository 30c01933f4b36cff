package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matchontv/reconcile/internal/domain/competition"
)

type CompetitionRepository struct {
	mu   sync.RWMutex
	rows []competition.Competition
}

func NewCompetitionRepository(rows []competition.Competition) *CompetitionRepository {
	out := make([]competition.Competition, 0, len(rows))
	out = append(out, rows...)
	return &CompetitionRepository{rows: out}
}

func (r *CompetitionRepository) GetBySlug(_ context.Context, slug string) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.rows {
		if item.Slug == slug {
			return item, true, nil
		}
	}
	return competition.Competition{}, false, nil
}

func (r *CompetitionRepository) ListVisible(_ context.Context) ([]competition.Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []competition.Competition
	for _, item := range r.rows {
		if item.Visible {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
