package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carehire/carehire-api/internal/store"
)

func TestBuildSelect(t *testing.T) {
	q := store.Where().
		Eq("status", "active").
		ILike("location", "%manila%").
		Gte("salary_max", 40000).
		OrderBy("created_at", true).
		Page(2, 10)

	stmt, err := buildSelect("jobs", q)
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT coalesce(json_agg(row_to_json(t) ORDER BY t."created_at" DESC NULLS LAST), '[]'::json) FROM `+
			`(SELECT * FROM "jobs" WHERE "status" = $1 AND "location" ILIKE $2 AND "salary_max" >= $3 `+
			`ORDER BY "created_at" DESC NULLS LAST LIMIT 10 OFFSET 10) t`,
		stmt.sql.String())
	assert.Equal(t, []any{"active", "%manila%", 40000}, stmt.args)
}

func TestBuildSelectWithoutFilters(t *testing.T) {
	stmt, err := buildSelect("employers", store.Where())
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT coalesce(json_agg(row_to_json(t)), '[]'::json) FROM (SELECT * FROM "employers") t`,
		stmt.sql.String())
	assert.Empty(t, stmt.args)
}

func TestWhereOperators(t *testing.T) {
	id := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	var s statement
	err := s.where(store.Where().
		Eq("id", id).
		Gte("salary_max", 10).
		ILike("title", "%nurse%").
		In("job_id", ids).
		In("status", []string{"active", "draft"}).Filters)
	require.NoError(t, err)

	assert.Equal(t,
		` WHERE "id" = $1 AND "salary_max" >= $2 AND "title" ILIKE $3`+
			` AND "job_id"::text = ANY($4::text[]) AND "status"::text = ANY($5::text[])`,
		s.sql.String())
	assert.Equal(t, id.String(), s.args[0], "uuids are bound as text")
	assert.Equal(t, []string{ids[0].String(), ids[1].String()}, s.args[3])
	assert.Equal(t, []string{"active", "draft"}, s.args[4])
}

func TestWhereRejectsUnknownOperator(t *testing.T) {
	var s statement
	err := s.where([]store.Filter{{Column: "x", Op: "between", Value: 1}})
	assert.Error(t, err)
}

func TestIdentifiersAreQuoted(t *testing.T) {
	stmt, err := buildCount(`jobs"; DROP TABLE jobs; --`, store.Where())
	require.NoError(t, err)
	assert.Equal(t, `SELECT count(*) FROM "jobs""; DROP TABLE jobs; --"`, stmt.sql.String())
}

func TestBuildCountIgnoresOrderAndRange(t *testing.T) {
	q := store.Where().Eq("employer_id", "e1").OrderBy("created_at", true).Range(0, 9)
	stmt, err := buildCount("jobs", q.Unranged())
	require.NoError(t, err)
	assert.Equal(t, `SELECT count(*) FROM "jobs" WHERE "employer_id" = $1`, stmt.sql.String())
}

func TestBuildInsertUsesDefaultsForMissingColumns(t *testing.T) {
	stmt, err := buildInsert("job_tags", []store.Values{
		{"job_id": "j1", "tag": "icu"},
		{"job_id": "j1"},
	})
	require.NoError(t, err)

	assert.Equal(t,
		`WITH t AS (INSERT INTO "job_tags" ("job_id", "tag") VALUES ($1, $2), ($3, DEFAULT) RETURNING *) `+
			`SELECT coalesce(json_agg(row_to_json(t)), '[]'::json) FROM t`,
		stmt.sql.String())
	assert.Equal(t, []any{"j1", "icu", "j1"}, stmt.args)
}

func TestBuildInsertErrors(t *testing.T) {
	_, err := buildInsert("jobs", nil)
	assert.Error(t, err)
}

func TestBuildUpdate(t *testing.T) {
	stmt, err := buildUpdate("jobs", store.Where().Eq("id", "j1"), store.Values{"title": "RN", "salary_max": nil})
	require.NoError(t, err)
	assert.Equal(t,
		`WITH t AS (UPDATE "jobs" SET "salary_max" = $1, "title" = $2 WHERE "id" = $3 RETURNING *) `+
			`SELECT coalesce(json_agg(row_to_json(t)), '[]'::json) FROM t`,
		stmt.sql.String())
	assert.Equal(t, []any{nil, "RN", "j1"}, stmt.args)
}

func TestUnfilteredWritesAreRefused(t *testing.T) {
	_, err := buildUpdate("jobs", store.Where(), store.Values{"title": "x"})
	assert.ErrorIs(t, err, errUnfiltered)

	_, err = buildDelete("jobs", store.Where())
	assert.ErrorIs(t, err, errUnfiltered)

	_, err = buildUpdate("jobs", store.Where().Eq("id", "j1"), nil)
	assert.Error(t, err)
}

func TestBuildDelete(t *testing.T) {
	stmt, err := buildDelete("saved_jobs", store.Where().Eq("job_seeker_id", "s1").Eq("job_id", "j1"))
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "saved_jobs" WHERE "job_seeker_id" = $1 AND "job_id" = $2`, stmt.sql.String())
}

func TestBuildCall(t *testing.T) {
	id := uuid.New()
	stmt := buildCall("increment_job_views", store.Values{"job_id": id})
	assert.Equal(t, `SELECT to_json("increment_job_views"("job_id" => $1))`, stmt.sql.String())
	assert.Equal(t, []any{id.String()}, stmt.args)

	stmt = buildCall("now", nil)
	assert.Equal(t, `SELECT to_json("now"())`, stmt.sql.String())
}
