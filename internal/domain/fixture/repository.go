package fixture

import (
	"context"
	"time"
)

// Repository exposes fixture lookup and write operations.
type Repository interface {
	GetByExternalID(ctx context.Context, externalID int64) (Fixture, bool, error)

	// GetByTeamsAndDate is the fallback match for fixtures entered
	// before they were linked to the provider: same team pair kicking
	// off on the same calendar day (UTC).
	GetByTeamsAndDate(ctx context.Context, homeTeamID, awayTeamID int64, day time.Time) (Fixture, bool, error)

	Insert(ctx context.Context, f Fixture) (int64, error)
	Update(ctx context.Context, f Fixture) error
	ListIDsWithBroadcasts(ctx context.Context) ([]int64, error)
	SetPrimaryBroadcaster(ctx context.Context, fixtureID int64, channel string, stationID int64) error
	CountByTeam(ctx context.Context, teamID int64) (int64, error)
}
