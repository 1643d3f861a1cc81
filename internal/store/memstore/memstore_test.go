package memstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carehire/carehire-api/internal/store"
)

func selectNames(t *testing.T, m *Memory, q store.Query) []string {
	t.Helper()
	raw, err := m.Scope(store.Credential{}).From("jobs").Select(context.Background(), q)
	require.NoError(t, err)
	var rows []struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(raw, &rows))
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Title)
	}
	return names
}

func seedJobs(m *Memory) {
	m.Seed("jobs",
		store.Values{"title": "ICU Nurse", "category": "Nursing", "salary": 50000, "location": "Manila"},
		store.Values{"title": "ER Nurse", "category": "Nursing", "salary": 60000, "location": "Cebu"},
		store.Values{"title": "Pharmacist", "category": "Pharmacy", "salary": 70000, "location": nil},
	)
}

func TestFilters(t *testing.T) {
	m := New()
	seedJobs(m)

	tests := []struct {
		name string
		q    store.Query
		want []string
	}{
		{"eq", store.Where().Eq("category", "Nursing"), []string{"ICU Nurse", "ER Nurse"}},
		{"gte", store.Where().Gte("salary", 60000), []string{"ER Nurse", "Pharmacist"}},
		{"ilike", store.Where().ILike("title", "%nurse%"), []string{"ICU Nurse", "ER Nurse"}},
		{"ilike anchors", store.Where().ILike("title", "nurse"), []string{}},
		{"in", store.Where().In("location", []string{"Cebu", "Davao"}), []string{"ER Nurse"}},
		{"combined", store.Where().Eq("category", "Nursing").Gte("salary", 55000), []string{"ER Nurse"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, selectNames(t, m, tc.q))
		})
	}
}

func TestOrderingAndWindow(t *testing.T) {
	m := New()
	seedJobs(m)

	assert.Equal(t, []string{"Pharmacist", "ER Nurse", "ICU Nurse"},
		selectNames(t, m, store.Where().OrderBy("salary", true)))
	assert.Equal(t, []string{"ER Nurse"},
		selectNames(t, m, store.Where().OrderBy("salary", false).Range(1, 1)))
	assert.Equal(t, []string{"ICU Nurse", "ER Nurse", "Pharmacist"},
		selectNames(t, m, store.Where().OrderBy("location", true).OrderBy("salary", false)),
		"null locations sort last")
	assert.Empty(t, selectNames(t, m, store.Where().Range(10, 19)))
}

func TestInsertFillsDefaults(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	m := New()
	m.SetClock(func() time.Time { return fixed })

	raw, err := m.Scope(store.Credential{}).From("jobs").Insert(context.Background(), store.Values{"title": "x"})
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(raw, &rows))
	require.Len(t, rows, 1)
	assert.NotEmpty(t, rows[0]["id"])
	assert.Equal(t, "2025-03-01T08:00:00Z", rows[0]["created_at"])
	assert.Equal(t, "2025-03-01T08:00:00Z", rows[0]["updated_at"])
}

func TestUniqueOnUpdate(t *testing.T) {
	m := New().Unique("saved", "seeker", "job")
	tbl := m.Scope(store.Credential{}).From("saved")
	ctx := context.Background()

	_, err := tbl.Insert(ctx, store.Values{"id": "1", "seeker": "s", "job": "a"})
	require.NoError(t, err)
	_, err = tbl.Insert(ctx, store.Values{"id": "2", "seeker": "s", "job": "b"})
	require.NoError(t, err)

	_, err = tbl.Update(ctx, store.Where().Eq("id", "1"), store.Values{"job": "a"})
	assert.NoError(t, err, "a row does not conflict with itself")

	_, err = tbl.Update(ctx, store.Where().Eq("id", "2"), store.Values{"job": "a"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestFailureInjectionAndPing(t *testing.T) {
	m := New()
	boom := errors.New("boom")
	m.FailOn("jobs", OpCount, boom)

	_, err := m.Scope(store.Credential{}).From("jobs").Count(context.Background(), store.Where())
	assert.ErrorIs(t, err, boom)

	m.FailOn("jobs", OpCount, nil)
	n, err := m.Scope(store.Credential{}).From("jobs").Count(context.Background(), store.Where())
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, m.Ping(context.Background()))
	m.SetPingError(boom)
	assert.ErrorIs(t, m.Ping(context.Background()), boom)
}

func TestScopeRecordsCredential(t *testing.T) {
	m := New()
	m.Scope(store.Credential{Token: "raw-token", Subject: "abc"})
	require.Len(t, m.Credentials, 1)
	assert.Equal(t, "raw-token", m.Credentials[0].Token)
}

func TestPolicyFiltersScopedAccess(t *testing.T) {
	ctx := context.Background()
	m := New().Policy("notes", func(a Access, r map[string]any) bool {
		if a.Op == OpSelect && r["public"] == true {
			return true
		}
		for _, u := range a.Lookup("users", "id", r["user_id"]) {
			if u["subject"] == a.Subject && a.Subject != "" {
				return true
			}
		}
		return false
	})
	users := m.Seed("users", store.Values{"subject": "alice"}, store.Values{"subject": "bob"})
	m.Seed("notes",
		store.Values{"user_id": users[0]["id"], "public": true, "body": "hello"},
		store.Values{"user_id": users[0]["id"], "public": false, "body": "secret"},
	)
	alice := m.Scope(store.Credential{Token: "t", Subject: "alice"}).From("notes")
	bob := m.Scope(store.Credential{Token: "t", Subject: "bob"}).From("notes")
	anon := m.Scope(store.Credential{}).From("notes")

	n, err := alice.Count(ctx, store.Where())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = bob.Count(ctx, store.Where())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = anon.Count(ctx, store.Where())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	raw, err := bob.Update(ctx, store.Where().Eq("public", true), store.Values{"body": "defaced"})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
	deleted, err := bob.Delete(ctx, store.Where())
	require.NoError(t, err)
	assert.Zero(t, deleted)

	deleted, err = alice.Delete(ctx, store.Where().Eq("public", false))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
	require.Len(t, m.Rows("notes"), 1, "Rows ignores policies")
	assert.Equal(t, "hello", m.Rows("notes")[0]["body"])
}

func TestSchemaRowOwner(t *testing.T) {
	ctx := context.Background()
	m := New().WithSchema()
	employer := m.Seed("employers", store.Values{"user_id": "u-1"})
	job := m.Seed("jobs", store.Values{"employer_id": employer[0]["id"], "status": "draft"})
	stranger := m.Scope(store.Credential{Token: "t", Subject: "u-2"})

	n, err := stranger.From("jobs").Count(ctx, store.Where())
	require.NoError(t, err)
	assert.Zero(t, n, "drafts are hidden from other users")

	raw, err := stranger.Call(ctx, "row_owner", store.Values{"target": "jobs", "row_id": job[0]["id"]})
	require.NoError(t, err)
	assert.JSONEq(t, `"`+employer[0]["id"].(string)+`"`, string(raw))

	raw, err = stranger.Call(ctx, "row_owner", store.Values{"target": "jobs", "row_id": "missing"})
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(raw))

	_, err = stranger.Call(ctx, "row_owner", store.Values{"target": "employers", "row_id": employer[0]["id"]})
	var storeErr *store.Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "22023", storeErr.Code)
}
