package postgres

import (
	"database/sql"
	"time"

	"github.com/matchontv/reconcile/internal/domain/broadcast"
)

// broadcastRowModel joins a broadcast row with its resolved broadcaster
// mapping; the provider columns are NULL while the station is unmapped.
type broadcastRowModel struct {
	ID           int64          `db:"id"`
	FixtureID    int64          `db:"fixture_id"`
	StationID    int64          `db:"station_id"`
	Channel      string         `db:"channel"`
	Country      string         `db:"country"`
	CreatedAt    time.Time      `db:"created_at"`
	ProviderID   sql.NullInt64  `db:"provider_id"`
	ProviderName sql.NullString `db:"provider_name"`
	ProviderSlug sql.NullString `db:"provider_slug"`
	ProviderType sql.NullString `db:"provider_type"`
}

func (m broadcastRowModel) toDomain() broadcast.Broadcast {
	out := broadcast.Broadcast{
		ID:        m.ID,
		FixtureID: m.FixtureID,
		StationID: m.StationID,
		Channel:   m.Channel,
		Country:   m.Country,
		CreatedAt: m.CreatedAt,
	}
	if m.ProviderID.Valid {
		out.Provider = &broadcast.Provider{
			ID:   m.ProviderID.Int64,
			Name: m.ProviderName.String,
			Slug: m.ProviderSlug.String,
			Type: m.ProviderType.String,
		}
	}
	return out
}

type broadcastInsertModel struct {
	FixtureID int64  `db:"fixture_id"`
	StationID int64  `db:"station_id"`
	Channel   string `db:"channel"`
	Country   string `db:"country"`
}

type broadcasterTableModel struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Slug string `db:"slug"`
	Type string `db:"type"`
}

func (m broadcasterTableModel) toDomain() broadcast.Provider {
	return broadcast.Provider{
		ID:   m.ID,
		Name: m.Name,
		Slug: m.Slug,
		Type: m.Type,
	}
}

type unmappedStationRow struct {
	StationID int64  `db:"station_id"`
	Channel   string `db:"channel"`
	RowCount  int64  `db:"row_count"`
}
