package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carehire/carehire-api/internal/domain"
	"github.com/carehire/carehire-api/internal/store"
	"github.com/carehire/carehire-api/internal/store/memstore"
)

func TestJobSeekerDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := caller()
	seekerID := f.seeker(t, id)
	employerID := f.employer(t, caller())
	jobA := f.job(t, employerID, "A", domain.JobStatusActive)
	jobB := f.job(t, employerID, "B", domain.JobStatusActive)
	f.mem.Seed(domain.TableApplications,
		store.Values{"job_id": jobA, "job_seeker_id": seekerID, "status": "pending"},
		store.Values{"job_id": jobB, "job_seeker_id": seekerID, "status": "interview"},
	)
	f.mem.Seed(domain.TableSavedJobs, store.Values{"job_seeker_id": seekerID, "job_id": jobA})
	f.mem.Seed(domain.TableDocuments, store.Values{"job_seeker_id": seekerID, "storage_key": "k"})

	dash := f.svc.Dashboards.JobSeeker(ctx, id)
	assert.Equal(t, 2, dash.TotalApplications)
	assert.Equal(t, 1, dash.ApplicationsByStatus["pending"])
	assert.Equal(t, 1, dash.ApplicationsByStatus["interview"])
	assert.Equal(t, 0, dash.ApplicationsByStatus["hired"])
	assert.Len(t, dash.ApplicationsByStatus, len(domain.ApplicationStatuses))
	assert.Equal(t, 1, dash.SavedJobs)
	assert.Equal(t, 1, dash.Documents)
	assert.Equal(t, 40, dash.ProfileCompleteness)
}

func TestEmployerDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := caller()
	employerID := f.employer(t, id)
	f.mem.Seed(domain.TableJobs,
		store.Values{"employer_id": employerID, "status": "active", "views": 10},
		store.Values{"employer_id": employerID, "status": "draft", "views": 0},
		store.Values{"employer_id": employerID, "status": "closed", "views": 5},
	)
	jobID := f.job(t, employerID, "Open", domain.JobStatusActive)
	other := f.job(t, f.employer(t, caller()), "Not mine", domain.JobStatusActive)
	seekerID := f.seeker(t, caller())
	f.mem.Seed(domain.TableApplications,
		store.Values{"job_id": jobID, "job_seeker_id": seekerID, "status": "hired"},
		store.Values{"job_id": other, "job_seeker_id": seekerID, "status": "pending"},
	)

	dash := f.svc.Dashboards.Employer(ctx, id)
	assert.Equal(t, 4, dash.TotalJobs)
	assert.Equal(t, 2, dash.ActiveJobs)
	assert.Equal(t, 15, dash.TotalViews)
	assert.Equal(t, 1, dash.TotalApplications)
	assert.Equal(t, 1, dash.ApplicationsByStatus["hired"])
	assert.Equal(t, 0, dash.ApplicationsByStatus["pending"])
}

func TestDashboardsNeverFail(t *testing.T) {
	ctx := context.Background()

	t.Run("no profile", func(t *testing.T) {
		f := newFixture(t)
		assert.Equal(t, domain.EmptyJobSeekerDashboard(), f.svc.Dashboards.JobSeeker(ctx, caller()))
		assert.Equal(t, domain.EmptyEmployerDashboard(), f.svc.Dashboards.Employer(ctx, caller()))
	})

	t.Run("nil identity", func(t *testing.T) {
		f := newFixture(t)
		assert.Equal(t, domain.EmptyJobSeekerDashboard(), f.svc.Dashboards.JobSeeker(ctx, nil))
		assert.Equal(t, domain.EmptyEmployerDashboard(), f.svc.Dashboards.Employer(ctx, nil))
	})

	tables := []string{domain.TableJobSeekers, domain.TableApplications, domain.TableSavedJobs, domain.TableDocuments}
	for _, table := range tables {
		t.Run("job seeker read failure on "+table, func(t *testing.T) {
			f := newFixture(t)
			id := caller()
			seekerID := f.seeker(t, id)
			f.mem.Seed(domain.TableSavedJobs, store.Values{"job_seeker_id": seekerID})
			f.mem.FailOn(table, memstore.OpSelect, errBoom)
			f.mem.FailOn(table, memstore.OpCount, errBoom)
			assert.Equal(t, domain.EmptyJobSeekerDashboard(), f.svc.Dashboards.JobSeeker(ctx, id))
		})
	}

	for _, table := range []string{domain.TableEmployers, domain.TableJobs, domain.TableApplications} {
		t.Run("employer read failure on "+table, func(t *testing.T) {
			f := newFixture(t)
			id := caller()
			f.job(t, f.employer(t, id), "Open", domain.JobStatusActive)
			f.mem.FailOn(table, memstore.OpSelect, errBoom)
			assert.Equal(t, domain.EmptyEmployerDashboard(), f.svc.Dashboards.Employer(ctx, id))
		})
	}
}
