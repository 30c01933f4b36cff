package fixture

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusFinished  = "finished"
	StatusPostponed = "postponed"
	StatusSuspended = "suspended"
	StatusCancelled = "cancelled"
)

// Fixture is one canonical match instance. ExternalID is the provider's
// fixture id; zero means the row was entered manually and never matched.
type Fixture struct {
	ID            int64
	ExternalID    int64
	HomeTeamID    int64
	AwayTeamID    int64
	KickoffAt     time.Time
	CompetitionID int64
	Status        string
	HomeScore     *int
	AwayScore     *int
	Round         string
	Stage         string
	Venue         string

	// Quick-access broadcaster fields denormalized from the selected
	// primary broadcast row.
	TVChannel   string
	TVStationID int64
}

func (f Fixture) Validate() error {
	if f.HomeTeamID <= 0 || f.AwayTeamID <= 0 {
		return fmt.Errorf("fixture requires both team references")
	}
	if f.HomeTeamID == f.AwayTeamID {
		return fmt.Errorf("fixture home and away team must differ")
	}
	if f.KickoffAt.IsZero() {
		return fmt.Errorf("fixture kickoff is required")
	}
	return nil
}

// statusByProviderState is the fixed translation table from provider
// state names to canonical statuses. Unknown states map to scheduled.
var statusByProviderState = map[string]string{
	"NS":               StatusScheduled,
	"TBA":              StatusScheduled,
	"INPLAY_1ST_HALF":  StatusLive,
	"INPLAY_2ND_HALF":  StatusLive,
	"INPLAY_ET":        StatusLive,
	"INPLAY_PENALTIES": StatusLive,
	"HT":               StatusLive,
	"BREAK":            StatusLive,
	"EXTRA_TIME_BREAK": StatusLive,
	"PEN_BREAK":        StatusLive,
	"LIVE":             StatusLive,
	"FT":               StatusFinished,
	"AET":              StatusFinished,
	"FT_PEN":           StatusFinished,
	"AWARDED":          StatusFinished,
	"WO":               StatusFinished,
	"POSTPONED":        StatusPostponed,
	"DELAYED":          StatusPostponed,
	"SUSPENDED":        StatusSuspended,
	"INTERRUPTED":      StatusSuspended,
	"CANCELLED":        StatusCancelled,
	"ABANDONED":        StatusCancelled,
	"DELETED":          StatusCancelled,
}

// MapProviderStatus translates a provider state name into one of the
// canonical statuses. The mapping is total: anything unrecognized is
// treated as a not-yet-started fixture rather than an error.
func MapProviderStatus(state string) string {
	key := strings.ToUpper(strings.TrimSpace(state))
	if mapped, ok := statusByProviderState[key]; ok {
		return mapped
	}
	return StatusScheduled
}

// CanonicalStatuses lists every status MapProviderStatus can produce.
func CanonicalStatuses() []string {
	return []string{
		StatusScheduled,
		StatusLive,
		StatusFinished,
		StatusPostponed,
		StatusSuspended,
		StatusCancelled,
	}
}
