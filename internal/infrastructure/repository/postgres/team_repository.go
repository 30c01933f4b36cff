package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchontv/reconcile/internal/domain/team"
	qb "github.com/matchontv/reconcile/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team by id query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) GetByExternalID(ctx context.Context, externalID int64) (team.Team, bool, error) {
	// Duplicates can share an external id until they are merged; the
	// lowest id wins deterministically in the meantime.
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("external_id", externalID)).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team by external id query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team by external id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) ListDuplicateExternalIDs(ctx context.Context) ([]team.DuplicatePair, error) {
	query, args, err := qb.Select(
		"t.id",
		"t.external_id",
		"t.slug",
		"(SELECT COUNT(1) FROM fixtures f WHERE f.home_team_id = t.id OR f.away_team_id = t.id) AS fixture_count",
	).From("teams t").
		Where(qb.Expr("t.external_id IN (SELECT external_id FROM teams WHERE external_id IS NOT NULL GROUP BY external_id HAVING COUNT(1) > 1)")).
		OrderBy("t.external_id", "fixture_count DESC", "t.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select duplicate teams query: %w", err)
	}

	var rows []duplicateTeamRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select duplicate teams: %w", err)
	}

	// Rows arrive grouped by external id with the proposed survivor
	// first; every later row becomes a delete candidate against it.
	var pairs []team.DuplicatePair
	var keep duplicateTeamRow
	for _, row := range rows {
		if keep.ExternalID != row.ExternalID {
			keep = row
			continue
		}
		pairs = append(pairs, team.DuplicatePair{
			ExternalID: row.ExternalID,
			KeepID:     keep.ID,
			DeleteID:   row.ID,
			KeepSlug:   keep.Slug,
			DeleteSlug: row.Slug,
		})
	}
	return pairs, nil
}

func (r *TeamRepository) SetExternalID(ctx context.Context, id, externalID int64) error {
	query, args, err := qb.Update("teams").
		Set("external_id", externalID).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team external id query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update team external id: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update team external id rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("team id=%d not found", id)
	}
	return nil
}

// Merge folds deleteID into keepID inside one transaction: fixtures
// referencing the loser are rewritten home side first, then away, the
// surviving team's fixtures are recounted and the loser row is removed.
func (r *TeamRepository) Merge(ctx context.Context, keepID, deleteID int64) (team.MergeOutcome, error) {
	var outcome team.MergeOutcome

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return outcome, fmt.Errorf("begin team merge tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	homeQuery, homeArgs, err := qb.Update("fixtures").
		Set("home_team_id", keepID).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("home_team_id", deleteID)).
		ToSQL()
	if err != nil {
		return outcome, fmt.Errorf("build rewrite home fixtures query: %w", err)
	}
	homeResult, err := tx.ExecContext(ctx, homeQuery, homeArgs...)
	if err != nil {
		return outcome, fmt.Errorf("rewrite home fixtures: %w", err)
	}
	outcome.HomeRewritten, err = homeResult.RowsAffected()
	if err != nil {
		return outcome, fmt.Errorf("rewrite home fixtures rows affected: %w", err)
	}

	awayQuery, awayArgs, err := qb.Update("fixtures").
		Set("away_team_id", keepID).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("away_team_id", deleteID)).
		ToSQL()
	if err != nil {
		return outcome, fmt.Errorf("build rewrite away fixtures query: %w", err)
	}
	awayResult, err := tx.ExecContext(ctx, awayQuery, awayArgs...)
	if err != nil {
		return outcome, fmt.Errorf("rewrite away fixtures: %w", err)
	}
	outcome.AwayRewritten, err = awayResult.RowsAffected()
	if err != nil {
		return outcome, fmt.Errorf("rewrite away fixtures rows affected: %w", err)
	}

	countQuery, countArgs, err := qb.Select("COUNT(1)").From("fixtures").
		Where(qb.Expr("home_team_id = ? OR away_team_id = ?", keepID, keepID)).
		ToSQL()
	if err != nil {
		return outcome, fmt.Errorf("build count survivor fixtures query: %w", err)
	}
	if err := tx.GetContext(ctx, &outcome.KeepFixtures, countQuery, countArgs...); err != nil {
		return outcome, fmt.Errorf("count survivor fixtures: %w", err)
	}

	deleteQuery, deleteArgs, err := qb.DeleteFrom("teams").
		Where(qb.Eq("id", deleteID)).
		ToSQL()
	if err != nil {
		return outcome, fmt.Errorf("build delete merged team query: %w", err)
	}
	deleteResult, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...)
	if err != nil {
		return outcome, fmt.Errorf("delete merged team: %w", err)
	}
	deleted, err := deleteResult.RowsAffected()
	if err != nil {
		return outcome, fmt.Errorf("delete merged team rows affected: %w", err)
	}
	if deleted == 0 {
		return outcome, fmt.Errorf("team id=%d not found", deleteID)
	}

	if err := tx.Commit(); err != nil {
		return outcome, fmt.Errorf("commit team merge tx: %w", err)
	}
	return outcome, nil
}
