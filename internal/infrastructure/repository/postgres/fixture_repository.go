package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchontv/reconcile/internal/domain/fixture"
	qb "github.com/matchontv/reconcile/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByExternalID(ctx context.Context, externalID int64) (fixture.Fixture, bool, error) {
	if externalID <= 0 {
		return fixture.Fixture{}, false, nil
	}

	query, args, err := qb.Select("*").From("fixtures").
		Where(qb.Eq("external_id", externalID)).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build select fixture by external id query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("select fixture by external id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *FixtureRepository) GetByTeamsAndDate(ctx context.Context, homeTeamID, awayTeamID int64, day time.Time) (fixture.Fixture, bool, error) {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.Eq("home_team_id", homeTeamID),
			qb.Eq("away_team_id", awayTeamID),
			qb.Expr("kickoff_at >= ? AND kickoff_at < ?", dayStart, dayEnd),
		).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build select fixture by teams and date query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("select fixture by teams and date: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *FixtureRepository) Insert(ctx context.Context, f fixture.Fixture) (int64, error) {
	query, args, err := qb.InsertModel("fixtures", fixtureToInsertModel(f), "RETURNING id")
	if err != nil {
		return 0, fmt.Errorf("build insert fixture query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("fixture external_id=%d already exists: %w", f.ExternalID, err)
		}
		return 0, fmt.Errorf("insert fixture: %w", err)
	}
	return id, nil
}

func (r *FixtureRepository) Update(ctx context.Context, f fixture.Fixture) error {
	query, args, err := qb.Update("fixtures").
		Set("external_id", int64ToNullInt64(f.ExternalID)).
		Set("home_team_id", f.HomeTeamID).
		Set("away_team_id", f.AwayTeamID).
		Set("kickoff_at", f.KickoffAt.UTC()).
		Set("competition_id", f.CompetitionID).
		Set("status", f.Status).
		Set("home_score", nullIntPtr(f.HomeScore)).
		Set("away_score", nullIntPtr(f.AwayScore)).
		Set("round", f.Round).
		Set("stage", f.Stage).
		Set("venue", f.Venue).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", f.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update fixture query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update fixture: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update fixture rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("fixture id=%d not found", f.ID)
	}
	return nil
}

func (r *FixtureRepository) ListIDsWithBroadcasts(ctx context.Context) ([]int64, error) {
	query, args, err := qb.Select("DISTINCT f.id").
		From("fixtures f JOIN broadcasts b ON b.fixture_id = f.id").
		OrderBy("f.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures with broadcasts query: %w", err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures with broadcasts: %w", err)
	}
	return ids, nil
}

func (r *FixtureRepository) SetPrimaryBroadcaster(ctx context.Context, fixtureID int64, channel string, stationID int64) error {
	query, args, err := qb.Update("fixtures").
		Set("tv_channel", channel).
		Set("tv_station_id", int64ToNullInt64(stationID)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", fixtureID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update primary broadcaster query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update primary broadcaster: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update primary broadcaster rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("fixture id=%d not found", fixtureID)
	}
	return nil
}

func (r *FixtureRepository) CountByTeam(ctx context.Context, teamID int64) (int64, error) {
	query, args, err := qb.Select("COUNT(1)").From("fixtures").
		Where(qb.Expr("home_team_id = ? OR away_team_id = ?", teamID, teamID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count fixtures by team query: %w", err)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count fixtures by team: %w", err)
	}
	return count, nil
}
