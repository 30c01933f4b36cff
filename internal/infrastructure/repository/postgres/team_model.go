package postgres

import (
	"database/sql"
	"time"

	"github.com/matchontv/reconcile/internal/domain/team"
)

type teamTableModel struct {
	ID            int64         `db:"id"`
	Name          string        `db:"name"`
	Slug          string        `db:"slug"`
	ExternalID    sql.NullInt64 `db:"external_id"`
	CompetitionID int64         `db:"competition_id"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:            m.ID,
		Name:          m.Name,
		Slug:          m.Slug,
		ExternalID:    nullInt64ToInt64(m.ExternalID),
		CompetitionID: m.CompetitionID,
	}
}

// duplicateTeamRow is one side of a duplicated external id, annotated
// with how many fixtures reference the team.
type duplicateTeamRow struct {
	ID           int64  `db:"id"`
	ExternalID   int64  `db:"external_id"`
	Slug         string `db:"slug"`
	FixtureCount int64  `db:"fixture_count"`
}
