package postgres

import (
	"time"

	"github.com/matchontv/reconcile/internal/domain/competition"
)

type competitionTableModel struct {
	ID        int64     `db:"id"`
	RefID     int64     `db:"ref_id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	Visible   bool      `db:"visible"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m competitionTableModel) toDomain() competition.Competition {
	return competition.Competition{
		ID:      m.ID,
		RefID:   m.RefID,
		Name:    m.Name,
		Slug:    m.Slug,
		Visible: m.Visible,
	}
}
