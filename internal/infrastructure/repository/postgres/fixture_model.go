package postgres

import (
	"database/sql"
	"time"

	"github.com/matchontv/reconcile/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID            int64         `db:"id"`
	ExternalID    sql.NullInt64 `db:"external_id"`
	HomeTeamID    int64         `db:"home_team_id"`
	AwayTeamID    int64         `db:"away_team_id"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	CompetitionID int64         `db:"competition_id"`
	Status        string        `db:"status"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	Round         string        `db:"round"`
	Stage         string        `db:"stage"`
	Venue         string        `db:"venue"`
	TVChannel     string        `db:"tv_channel"`
	TVStationID   sql.NullInt64 `db:"tv_station_id"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ID:            m.ID,
		ExternalID:    nullInt64ToInt64(m.ExternalID),
		HomeTeamID:    m.HomeTeamID,
		AwayTeamID:    m.AwayTeamID,
		KickoffAt:     m.KickoffAt,
		CompetitionID: m.CompetitionID,
		Status:        m.Status,
		HomeScore:     nullInt64ToIntPtr(m.HomeScore),
		AwayScore:     nullInt64ToIntPtr(m.AwayScore),
		Round:         m.Round,
		Stage:         m.Stage,
		Venue:         m.Venue,
		TVChannel:     m.TVChannel,
		TVStationID:   nullInt64ToInt64(m.TVStationID),
	}
}

// fixtureInsertModel carries only the columns the application writes;
// id and the timestamps come from the schema defaults.
type fixtureInsertModel struct {
	ExternalID    sql.NullInt64 `db:"external_id"`
	HomeTeamID    int64         `db:"home_team_id"`
	AwayTeamID    int64         `db:"away_team_id"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	CompetitionID int64         `db:"competition_id"`
	Status        string        `db:"status"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	Round         string        `db:"round"`
	Stage         string        `db:"stage"`
	Venue         string        `db:"venue"`
}

func fixtureToInsertModel(f fixture.Fixture) fixtureInsertModel {
	return fixtureInsertModel{
		ExternalID:    int64ToNullInt64(f.ExternalID),
		HomeTeamID:    f.HomeTeamID,
		AwayTeamID:    f.AwayTeamID,
		KickoffAt:     f.KickoffAt.UTC(),
		CompetitionID: f.CompetitionID,
		Status:        f.Status,
		HomeScore:     nullIntPtr(f.HomeScore),
		AwayScore:     nullIntPtr(f.AwayScore),
		Round:         f.Round,
		Stage:         f.Stage,
		Venue:         f.Venue,
	}
}
