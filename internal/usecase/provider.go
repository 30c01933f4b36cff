package usecase

import (
	"context"
	"time"
)

// FixtureProvider fetches provider-native fixtures over a date range.
type FixtureProvider interface {
	FetchFixturesBetween(ctx context.Context, leagueRefID int64, from, to time.Time) ([]FetchWindow, error)
}

// FetchWindow is the tagged outcome of one date-window fetch. A failed
// window keeps its error so the run summary can distinguish "provider
// call failed" from "no fixtures in this window".
type FetchWindow struct {
	Start    time.Time
	End      time.Time
	Fixtures []ExternalFixture
	Err      error
}

// ExternalFixture is one provider-native fixture translated to the
// neutral shape the synchronizer consumes.
type ExternalFixture struct {
	ExternalID         int64
	HomeTeamExternalID int64
	AwayTeamExternalID int64
	HomeTeamName       string
	AwayTeamName       string
	KickoffAt          time.Time
	State              string
	Round              string
	Stage              string
	Venue              string
	HomeScore          *int
	AwayScore          *int
	TVStations         []ExternalTVStation
}

type ExternalTVStation struct {
	StationID int64
	Name      string
	CountryID int64
}
