package broadcast

import "context"

// UnmappedStation is one provider TV-station id that has no canonical
// broadcaster mapping yet, with how often it appears.
type UnmappedStation struct {
	StationID int64
	Channel   string
	RowCount  int64
}

// Repository exposes broadcast-row and broadcaster-mapping operations.
type Repository interface {
	ListByFixture(ctx context.Context, fixtureID int64) ([]Broadcast, error)
	Insert(ctx context.Context, b Broadcast) (int64, error)
	ExistsForFixtureStation(ctx context.Context, fixtureID, stationID int64) (bool, error)

	// GetProviderByStationID resolves the manually maintained
	// station-to-broadcaster mapping table.
	GetProviderByStationID(ctx context.Context, stationID int64) (Provider, bool, error)
	ListUnmappedStations(ctx context.Context) ([]UnmappedStation, error)

	// CountMappedStations counts the distinct station ids on broadcast
	// rows that resolve through the mapping table.
	CountMappedStations(ctx context.Context) (int, error)
}
