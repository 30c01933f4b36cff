package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectWithConditions(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id", "name").
		From("teams").
		Where(
			Eq("external_id", int64(52)),
			IsNull("deleted_at"),
		).
		OrderBy("id").
		Limit(10).
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, name FROM teams WHERE external_id = $1 AND deleted_at IS NULL ORDER BY id LIMIT 10", query)
	assert.Equal(t, []any{int64(52)}, args)
}

func TestSelectGroupByCount(t *testing.T) {
	t.Parallel()

	query, args, err := Select("external_id", "COUNT(*) AS n").
		From("teams").
		Where(
			IsNotNull("external_id"),
			IsNull("deleted_at"),
		).
		GroupBy("external_id").
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "SELECT external_id, COUNT(*) AS n FROM teams WHERE external_id IS NOT NULL AND deleted_at IS NULL GROUP BY external_id", query)
	assert.Empty(t, args)
}

func TestInsertWithUpsertSuffix(t *testing.T) {
	t.Parallel()

	query, args, err := InsertInto("fixtures").
		Columns("external_id", "status").
		Values(int64(6057), "scheduled").
		Suffix("ON CONFLICT (external_id) DO UPDATE SET status = EXCLUDED.status").
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO fixtures (external_id, status) VALUES ($1, $2) ON CONFLICT (external_id) DO UPDATE SET status = EXCLUDED.status", query)
	assert.Equal(t, []any{int64(6057), "scheduled"}, args)
}

func TestUpdateWithWhere(t *testing.T) {
	t.Parallel()

	query, args, err := Update("fixtures").
		Set("home_team_id", int64(20)).
		SetExpr("updated_at", "NOW()").
		Where(Eq("home_team_id", int64(306))).
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "UPDATE fixtures SET home_team_id = $1, updated_at = NOW() WHERE home_team_id = $2", query)
	assert.Equal(t, []any{int64(20), int64(306)}, args)
}

func TestDeleteRequiresWhere(t *testing.T) {
	t.Parallel()

	_, _, err := DeleteFrom("teams").ToSQL()
	require.Error(t, err)

	query, args, err := DeleteFrom("teams").Where(Eq("id", int64(306))).ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM teams WHERE id = $1", query)
	assert.Equal(t, []any{int64(306)}, args)
}

func TestInsertModelUsesDBTags(t *testing.T) {
	t.Parallel()

	type row struct {
		ExternalID int64  `db:"external_id"`
		Name       string `db:"name"`
		ignored    string `db:"secret"`
		NoTag      string
	}

	query, args, err := InsertModel("teams", row{ExternalID: 52, Name: "Arsenal"}, "")
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO teams (external_id, name) VALUES ($1, $2)", query)
	assert.Equal(t, []any{int64(52), "Arsenal"}, args)
}

func TestInCondition(t *testing.T) {
	t.Parallel()

	query, args, err := Select("*").
		From("broadcasts").
		Where(In("fixture_id", []any{int64(1), int64(2)})).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM broadcasts WHERE fixture_id IN ($1, $2)", query)
	assert.Len(t, args, 2)

	query, _, err = Select("*").From("broadcasts").Where(In("fixture_id", nil)).ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM broadcasts WHERE 1=0", query)
}
