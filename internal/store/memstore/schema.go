package memstore

import (
	"context"
	"fmt"

	"github.com/carehire/carehire-api/internal/domain"
	"github.com/carehire/carehire-api/internal/store"
)

// ownerColumns maps the tables row_owner accepts to their owner column.
var ownerColumns = map[string]string{
	domain.TableJobs:           "employer_id",
	domain.TableApplications:   "job_seeker_id",
	domain.TableDocuments:      "job_seeker_id",
	domain.TableEducations:     "job_seeker_id",
	domain.TableExperiences:    "job_seeker_id",
	domain.TableCertifications: "job_seeker_id",
}

// WithSchema declares the unique constraints, row-level security policies and
// server-side functions of the database migrations.
func (m *Memory) WithSchema() *Memory {
	m.Unique(domain.TableJobSeekers, "user_id").
		Unique(domain.TableEmployers, "user_id").
		Unique(domain.TableApplications, "job_id", "job_seeker_id").
		Unique(domain.TableSavedJobs, "job_seeker_id", "job_id").
		Handle(domain.RPCIncrementJobViews, incrementJobViews).
		Handle(domain.RPCRowOwner, rowOwner)

	m.Policy(domain.TableJobSeekers, func(a Access, r map[string]any) bool {
		return a.isSubject(r["user_id"])
	})
	m.Policy(domain.TableEmployers, func(a Access, r map[string]any) bool {
		return a.Op == OpSelect || a.isSubject(r["user_id"])
	})
	m.Policy(domain.TableJobs, func(a Access, r map[string]any) bool {
		return (a.Op == OpSelect && r["status"] == string(domain.JobStatusActive)) ||
			a.ownsProfile(domain.TableEmployers, r["employer_id"])
	})
	for _, child := range []string{domain.TableJobRequirements, domain.TableJobBenefits, domain.TableJobTags} {
		m.Policy(child, func(a Access, r map[string]any) bool {
			if a.Op == OpSelect {
				return a.jobVisible(r["job_id"])
			}
			return a.ownsJob(r["job_id"])
		})
	}
	m.Policy(domain.TableApplications, func(a Access, r map[string]any) bool {
		if a.ownsProfile(domain.TableJobSeekers, r["job_seeker_id"]) {
			return true
		}
		return a.Op != OpDelete && a.ownsJob(r["job_id"])
	})
	for _, owned := range []string{
		domain.TableDocuments, domain.TableEducations, domain.TableExperiences,
		domain.TableCertifications, domain.TableSavedJobs,
	} {
		m.Policy(owned, func(a Access, r map[string]any) bool {
			return a.ownsProfile(domain.TableJobSeekers, r["job_seeker_id"])
		})
	}
	return m
}

func (a Access) isSubject(v any) bool {
	return a.Subject != "" && v != nil && fmt.Sprint(v) == a.Subject
}

// ownsProfile reports whether the profile id in table belongs to the caller.
func (a Access) ownsProfile(table string, id any) bool {
	for _, p := range a.Lookup(table, "id", id) {
		if a.isSubject(p["user_id"]) {
			return true
		}
	}
	return false
}

func (a Access) ownsJob(jobID any) bool {
	for _, j := range a.Lookup(domain.TableJobs, "id", jobID) {
		if a.ownsProfile(domain.TableEmployers, j["employer_id"]) {
			return true
		}
	}
	return false
}

func (a Access) jobVisible(jobID any) bool {
	for _, j := range a.Lookup(domain.TableJobs, "id", jobID) {
		if j["status"] == string(domain.JobStatusActive) || a.ownsProfile(domain.TableEmployers, j["employer_id"]) {
			return true
		}
	}
	return false
}

// incrementJobViews bumps the views of an active job whatever the caller's
// visibility, like the database function it stands in for. Failures injected
// for job updates apply.
func incrementJobViews(_ context.Context, m *Memory, _ store.Credential, args store.Values) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[domain.TableJobs+"/"+OpUpdate]; err != nil {
		return nil, err
	}
	id := normalize(args["job_id"])
	for i, r := range m.tables[domain.TableJobs] {
		if compare(r["id"], id) != 0 || r["status"] != string(domain.JobStatusActive) {
			continue
		}
		views, _ := r["views"].(float64)
		next := copyRow(r)
		next["views"] = views + 1
		m.tables[domain.TableJobs][i] = next
		return int(views) + 1, nil
	}
	return nil, nil
}

// rowOwner reports the owner column of a row regardless of policies, or nil
// when the row does not exist.
func rowOwner(_ context.Context, m *Memory, _ store.Credential, args store.Values) (any, error) {
	target, _ := args["target"].(string)
	column, ok := ownerColumns[target]
	if !ok {
		return nil, &store.Error{Code: "22023", Message: "row_owner: unsupported table " + target}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.lookup(target, "id", args["row_id"])
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0][column], nil
}
