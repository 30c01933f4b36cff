package memory

import (
	"time"

	"github.com/matchontv/reconcile/internal/domain/broadcast"
	"github.com/matchontv/reconcile/internal/domain/competition"
	"github.com/matchontv/reconcile/internal/domain/team"
)

const (
	CompetitionSlugPremierLeague = "premier-league"
	CompetitionRefPremierLeague  = 8
)

func SeedCompetitions() []competition.Competition {
	return []competition.Competition{
		{ID: 1, RefID: CompetitionRefPremierLeague, Name: "Premier League", Slug: CompetitionSlugPremierLeague, Visible: true},
		{ID: 2, RefID: 9, Name: "Championship", Slug: "championship", Visible: false},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: 1, Name: "Arsenal", Slug: "arsenal", ExternalID: 19, CompetitionID: 1},
		{ID: 2, Name: "Liverpool", Slug: "liverpool", ExternalID: 8, CompetitionID: 1},
		{ID: 3, Name: "Everton", Slug: "everton", ExternalID: 13, CompetitionID: 1},
		{ID: 4, Name: "Fulham FC", Slug: "fulham-fc", CompetitionID: 1},
	}
}

func SeedProvidersByStation() map[int64]broadcast.Provider {
	return map[int64]broadcast.Provider{
		100: {ID: 1, Name: "Sky Sports", Slug: "sky-sports", Type: broadcast.ProviderTypeTelevision},
		101: {ID: 2, Name: "TNT Sports", Slug: "tnt-sports", Type: broadcast.ProviderTypeTelevision},
		200: {ID: 3, Name: "Amazon Prime", Slug: "amazon-prime", Type: broadcast.ProviderTypeStreaming},
		900: {ID: 4, Name: "Blackout", Slug: "blackout", Type: broadcast.ProviderTypeBlackout},
	}
}

// SeedKickoff is an arbitrary fixed kickoff used across tests.
var SeedKickoff = time.Date(2025, time.August, 16, 14, 0, 0, 0, time.UTC)
