package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/domain"
	"github.com/carehire/carehire-api/internal/service/auth"
	"github.com/carehire/carehire-api/internal/store"
	"github.com/carehire/carehire-api/internal/store/memstore"
)

type applicationFixture struct {
	*fixture
	hirer     *auth.Identity
	applicant *auth.Identity
	seekerID  uuid.UUID
	jobID     uuid.UUID
}

func newApplicationFixture(t *testing.T) applicationFixture {
	t.Helper()
	f := newFixture(t)
	af := applicationFixture{fixture: f, hirer: caller(), applicant: caller()}
	af.jobID = f.job(t, f.employer(t, af.hirer), "Staff Nurse", domain.JobStatusActive)
	af.seekerID = f.seeker(t, af.applicant)
	return af
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("submits pending application", func(t *testing.T) {
		f := newApplicationFixture(t)
		app, err := f.svc.Applications.Apply(ctx, f.applicant, ApplicationInput{
			JobID:       f.jobID,
			CoverLetter: ptr("<p>I have five years of ICU experience.</p>"),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationPending, app.Status)
		assert.Equal(t, f.seekerID, app.JobSeekerID)
		assert.Equal(t, "I have five years of ICU experience.", *app.CoverLetter)

		_, err = f.svc.Applications.Apply(ctx, f.applicant, ApplicationInput{JobID: f.jobID})
		appErr := assertAppError(t, err, apperr.KindConflict, 409)
		assert.Equal(t, "You have already applied to this job", appErr.Message)
	})

	t.Run("job must be active", func(t *testing.T) {
		f := newApplicationFixture(t)
		closed := f.job(t, f.employer(t, caller()), "Closed", domain.JobStatusClosed)
		_, err := f.svc.Applications.Apply(ctx, f.applicant, ApplicationInput{JobID: closed})
		assertAppError(t, err, apperr.KindNotFound, 404)
		_, err = f.svc.Applications.Apply(ctx, f.applicant, ApplicationInput{JobID: uuid.New()})
		assertAppError(t, err, apperr.KindNotFound, 404)
	})

	t.Run("requires seeker profile", func(t *testing.T) {
		f := newApplicationFixture(t)
		_, err := f.svc.Applications.Apply(ctx, f.hirer, ApplicationInput{JobID: f.jobID})
		appErr := assertAppError(t, err, apperr.KindNotFound, 404)
		assert.Equal(t, "Job seeker profile not found", appErr.Message)
	})

	t.Run("document must be the caller's", func(t *testing.T) {
		f := newApplicationFixture(t)
		other := f.seeker(t, caller())
		doc := f.mem.Seed(domain.TableDocuments, store.Values{"job_seeker_id": other, "name": "cv.pdf"})
		_, err := f.svc.Applications.Apply(ctx, f.applicant, ApplicationInput{JobID: f.jobID, DocumentID: ptr(rowID(t, doc[0]))})
		assertAppError(t, err, apperr.KindForbidden, 403)
		assert.Empty(t, f.mem.Rows(domain.TableApplications))
	})

	t.Run("concurrent duplicate is a conflict", func(t *testing.T) {
		f := newApplicationFixture(t)
		f.mem.Seed(domain.TableApplications, store.Values{"job_id": f.jobID, "job_seeker_id": f.seekerID, "status": "pending"})
		f.mem.Policy(domain.TableApplications, func(a memstore.Access, _ map[string]any) bool {
			return a.Op != memstore.OpSelect
		})
		_, err := f.svc.Applications.Apply(ctx, f.applicant, ApplicationInput{JobID: f.jobID})
		appErr := assertAppError(t, err, apperr.KindConflict, 409)
		assert.Equal(t, "You have already applied to this job", appErr.Message)
		assert.Len(t, f.mem.Rows(domain.TableApplications), 1)
	})
}

func TestApplicationAccess(t *testing.T) {
	ctx := context.Background()
	f := newApplicationFixture(t)
	app, err := f.svc.Applications.Apply(ctx, f.applicant, ApplicationInput{JobID: f.jobID})
	require.NoError(t, err)

	other := caller()
	f.seeker(t, other)

	got, err := f.svc.Applications.Get(ctx, f.applicant, app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)

	_, err = f.svc.Applications.Get(ctx, other, app.ID)
	assertAppError(t, err, apperr.KindForbidden, 403)

	err = f.svc.Applications.Withdraw(ctx, other, app.ID)
	assertAppError(t, err, apperr.KindForbidden, 403)

	_, err = f.svc.Applications.Get(ctx, f.applicant, uuid.New())
	assertAppError(t, err, apperr.KindNotFound, 404)

	list, err := f.svc.Applications.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, f.svc.Applications.Withdraw(ctx, f.applicant, app.ID))
	assert.Empty(t, f.mem.Rows(domain.TableApplications))
}

func TestApplicationListDegrades(t *testing.T) {
	ctx := context.Background()
	f := newApplicationFixture(t)
	_, err := f.svc.Applications.Apply(ctx, f.applicant, ApplicationInput{JobID: f.jobID})
	require.NoError(t, err)

	list, err := f.svc.Applications.List(ctx, f.applicant)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	f.mem.FailOn(domain.TableApplications, memstore.OpSelect, errBoom)
	list, err = f.svc.Applications.List(ctx, f.applicant)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestUpdateApplicationStatus(t *testing.T) {
	ctx := context.Background()
	f := newApplicationFixture(t)
	app, err := f.svc.Applications.Apply(ctx, f.applicant, ApplicationInput{JobID: f.jobID})
	require.NoError(t, err)

	updated, err := f.svc.Applications.UpdateStatus(ctx, f.hirer, app.ID, StatusInput{Status: "shortlisted"})
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationShortlisted, updated.Status)

	rival := caller()
	f.employer(t, rival)
	_, err = f.svc.Applications.UpdateStatus(ctx, rival, app.ID, StatusInput{Status: "hired"})
	assertAppError(t, err, apperr.KindForbidden, 403)

	_, err = f.svc.Applications.UpdateStatus(ctx, f.applicant, app.ID, StatusInput{Status: "hired"})
	assertAppError(t, err, apperr.KindNotFound, 404)

	stored := f.mem.Rows(domain.TableApplications)
	require.Len(t, stored, 1)
	assert.Equal(t, "shortlisted", stored[0]["status"])
}
