package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchontv/reconcile/internal/domain/broadcast"
	qb "github.com/matchontv/reconcile/internal/platform/querybuilder"
)

type BroadcastRepository struct {
	db *sqlx.DB
}

func NewBroadcastRepository(db *sqlx.DB) *BroadcastRepository {
	return &BroadcastRepository{db: db}
}

// ListByFixture resolves the broadcaster mapping at read time, so rows
// ingested before a station was mapped still surface their provider
// once the mapping table catches up.
func (r *BroadcastRepository) ListByFixture(ctx context.Context, fixtureID int64) ([]broadcast.Broadcast, error) {
	query, args, err := qb.Select(
		"b.id",
		"b.fixture_id",
		"b.station_id",
		"b.channel",
		"b.country",
		"b.created_at",
		"p.id AS provider_id",
		"p.name AS provider_name",
		"p.slug AS provider_slug",
		"p.type AS provider_type",
	).From("broadcasts b LEFT JOIN station_mappings m ON m.station_id = b.station_id LEFT JOIN broadcasters p ON p.id = m.broadcaster_id").
		Where(qb.Eq("b.fixture_id", fixtureID)).
		OrderBy("b.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select broadcasts by fixture query: %w", err)
	}

	var rows []broadcastRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select broadcasts by fixture: %w", err)
	}

	out := make([]broadcast.Broadcast, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BroadcastRepository) Insert(ctx context.Context, b broadcast.Broadcast) (int64, error) {
	model := broadcastInsertModel{
		FixtureID: b.FixtureID,
		StationID: b.StationID,
		Channel:   b.Channel,
		Country:   b.Country,
	}
	query, args, err := qb.InsertModel("broadcasts", model, "RETURNING id")
	if err != nil {
		return 0, fmt.Errorf("build insert broadcast query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("broadcast fixture=%d station=%d already exists: %w", b.FixtureID, b.StationID, err)
		}
		return 0, fmt.Errorf("insert broadcast: %w", err)
	}
	return id, nil
}

func (r *BroadcastRepository) ExistsForFixtureStation(ctx context.Context, fixtureID, stationID int64) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From("broadcasts").
		Where(
			qb.Eq("fixture_id", fixtureID),
			qb.Eq("station_id", stationID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build count broadcast query: %w", err)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("count broadcast: %w", err)
	}
	return count > 0, nil
}

func (r *BroadcastRepository) GetProviderByStationID(ctx context.Context, stationID int64) (broadcast.Provider, bool, error) {
	query, args, err := qb.Select("p.id", "p.name", "p.slug", "p.type").
		From("station_mappings m JOIN broadcasters p ON p.id = m.broadcaster_id").
		Where(qb.Eq("m.station_id", stationID)).
		ToSQL()
	if err != nil {
		return broadcast.Provider{}, false, fmt.Errorf("build select broadcaster by station query: %w", err)
	}

	var row broadcasterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return broadcast.Provider{}, false, nil
		}
		return broadcast.Provider{}, false, fmt.Errorf("select broadcaster by station: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *BroadcastRepository) CountMappedStations(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(DISTINCT b.station_id)").
		From("broadcasts b JOIN station_mappings m ON m.station_id = b.station_id").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count mapped stations query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count mapped stations: %w", err)
	}
	return count, nil
}

func (r *BroadcastRepository) ListUnmappedStations(ctx context.Context) ([]broadcast.UnmappedStation, error) {
	query, args, err := qb.Select(
		"b.station_id",
		"MIN(b.channel) AS channel",
		"COUNT(1) AS row_count",
	).From("broadcasts b LEFT JOIN station_mappings m ON m.station_id = b.station_id").
		Where(qb.IsNull("m.station_id")).
		GroupBy("b.station_id").
		OrderBy("row_count DESC", "b.station_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select unmapped stations query: %w", err)
	}

	var rows []unmappedStationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select unmapped stations: %w", err)
	}

	out := make([]broadcast.UnmappedStation, 0, len(rows))
	for _, row := range rows {
		out = append(out, broadcast.UnmappedStation{
			StationID: row.StationID,
			Channel:   row.Channel,
			RowCount:  row.RowCount,
		})
	}
	return out, nil
}
