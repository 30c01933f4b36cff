package sportmonks

// Provider-native shapes for the v3 football API. Only the fields the
// reconciliation pipeline reads are modeled; everything else in the
// payload is ignored by the decoder.

type fixturesEnvelope struct {
	Data       []FixtureItem `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

type Pagination struct {
	Count       int     `json:"count"`
	PerPage     int     `json:"per_page"`
	CurrentPage int     `json:"current_page"`
	NextPage    *string `json:"next_page"`
	HasMore     bool    `json:"has_more"`
}

type FixtureItem struct {
	ID         int64  `json:"id"`
	LeagueID   int64  `json:"league_id"`
	SeasonID   int64  `json:"season_id"`
	StageID    *int64 `json:"stage_id"`
	RoundID    *int64 `json:"round_id"`
	VenueID    *int64 `json:"venue_id"`
	Name       string `json:"name"`
	StartingAt string `json:"starting_at"` // "YYYY-MM-DD HH:MM:SS", UTC
	ResultInfo string `json:"result_info"`

	State        State         `json:"state"`
	Round        Round         `json:"round"`
	Participants []Participant `json:"participants"`
	Scores       []ScoreEntry  `json:"scores"`
	TVStations   []TVStation   `json:"tvstations"`
}

type State struct {
	ID            int64  `json:"id"`
	State         string `json:"state"`
	Name          string `json:"name"`
	ShortName     string `json:"short_name"`
	DeveloperName string `json:"developer_name"`
}

type Round struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Finished bool   `json:"finished"`
}

type Participant struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	ShortCode *string `json:"short_code"`
	ImagePath string  `json:"image_path"`
	Meta      struct {
		Location string `json:"location"` // "home" or "away"
		Winner   *bool  `json:"winner"`
	} `json:"meta"`
}

type ScoreEntry struct {
	ID            int64  `json:"id"`
	FixtureID     int64  `json:"fixture_id"`
	TypeID        int64  `json:"type_id"`
	ParticipantID int64  `json:"participant_id"`
	Description   string `json:"description"` // e.g. "CURRENT", "1ST_HALF"
	Score         struct {
		Goals       int    `json:"goals"`
		Participant string `json:"participant"` // "home" or "away"
	} `json:"score"`
}

type TVStation struct {
	ID          int64 `json:"id"`
	FixtureID   int64 `json:"fixture_id"`
	TVStationID int64 `json:"tvstation_id"`
	CountryID   int64 `json:"country_id"`
	Station     struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		URL  string `json:"url"`
		Type string `json:"type"`
	} `json:"tvstation"`
}
