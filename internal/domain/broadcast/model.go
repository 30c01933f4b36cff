package broadcast

import (
	"sort"
	"time"
)

const (
	ProviderTypeTelevision = "television"
	ProviderTypeStreaming  = "streaming"
	ProviderTypeBlackout   = "blackout"
)

// Provider is a canonical broadcaster: a TV channel, a streaming
// service, or the blackout sentinel meaning "confirmed no coverage".
type Provider struct {
	ID   int64
	Name string
	Slug string
	Type string
}

// Broadcast is one candidate TV/stream assignment for a fixture.
// Provider is nil while the station id has no canonical mapping.
type Broadcast struct {
	ID        int64
	FixtureID int64
	StationID int64
	Provider  *Provider
	Channel   string
	Country   string
	CreatedAt time.Time
}

// Visibility states for a fixture's broadcast coverage.
const (
	VisibilityTBD       = "tbd"
	VisibilityConfirmed = "confirmed"
	VisibilityBlackout  = "blackout"
)

// Visibility reports the coverage state for one fixture's broadcast
// rows: no rows is TBD, a blackout sentinel wins over everything,
// otherwise any resolved provider confirms coverage.
func Visibility(rows []Broadcast) string {
	confirmed := false
	for _, row := range rows {
		if row.Provider == nil {
			continue
		}
		if row.Provider.Type == ProviderTypeBlackout {
			return VisibilityBlackout
		}
		confirmed = true
	}
	if confirmed {
		return VisibilityConfirmed
	}
	return VisibilityTBD
}

// SelectPrimary picks the single broadcast row shown to users.
//
// Precedence, highest first:
//  1. the blackout sentinel: a confirmed blackout overrides channels;
//  2. television providers over streaming providers;
//  3. earlier CreatedAt, the first confirmed rights assignment;
//  4. lower row id, as a final deterministic tiebreak only.
//
// Rows with an unmapped provider never win while a mapped row exists.
// The result does not depend on input order.
func SelectPrimary(rows []Broadcast) (Broadcast, bool) {
	if len(rows) == 0 {
		return Broadcast{}, false
	}

	candidates := append([]Broadcast(nil), rows...)
	sort.SliceStable(candidates, func(i, j int) bool {
		return primaryLess(candidates[i], candidates[j])
	})
	return candidates[0], true
}

func primaryLess(a, b Broadcast) bool {
	ra, rb := providerRank(a.Provider), providerRank(b.Provider)
	if ra != rb {
		return ra < rb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func providerRank(p *Provider) int {
	if p == nil {
		return 3
	}
	switch p.Type {
	case ProviderTypeBlackout:
		return 0
	case ProviderTypeTelevision:
		return 1
	case ProviderTypeStreaming:
		return 2
	default:
		return 3
	}
}
