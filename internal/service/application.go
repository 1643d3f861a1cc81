package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/domain"
	"github.com/carehire/carehire-api/internal/redact"
	"github.com/carehire/carehire-api/internal/service/auth"
	"github.com/carehire/carehire-api/internal/store"
)

// ApplicationInput is the payload applying to a job.
type ApplicationInput struct {
	JobID       uuid.UUID  `json:"job_id" validate:"required"`
	CoverLetter *string    `json:"cover_letter" validate:"omitnil,max=5000"`
	DocumentID  *uuid.UUID `json:"document_id"`
}

// StatusInput is the payload changing an application's status.
type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed shortlisted interview offered hired rejected"`
}

var errAlreadyApplied = apperr.Conflict("You have already applied to this job")

// ApplicationService manages job applications.
type ApplicationService struct {
	base
}

// NewApplicationService creates an ApplicationService.
func NewApplicationService(d Deps) *ApplicationService {
	return &ApplicationService{base: newBase(d, "application_service")}
}

func (s *ApplicationService) repo(sc store.Scope) store.Repository[domain.Application] {
	return store.For[domain.Application](sc, domain.TableApplications)
}

// Apply submits the caller's application to an active job. Each seeker may
// apply to a job once.
func (s *ApplicationService) Apply(ctx context.Context, id *auth.Identity, in ApplicationInput) (*domain.Application, error) {
	sc := s.scope(id)
	seekerID, err := ResolveOwner(ctx, sc, id.Subject, domain.ProfileJobSeeker)
	if err != nil {
		return nil, err
	}

	job, err := store.For[domain.Job](sc, domain.TableJobs).Maybe(ctx, store.Where().Eq("id", in.JobID))
	if err != nil {
		return nil, apperr.FromStore(err, "Job")
	}
	if job == nil || !job.IsActive() {
		return nil, apperr.NotFound("Job")
	}

	if in.DocumentID != nil {
		if err := fetchOwned(ctx, sc, domain.TableDocuments, "Document", *in.DocumentID, seekerID); err != nil {
			return nil, err
		}
	}

	repo := s.repo(sc)
	exists, err := repo.Exists(ctx, store.Where().Eq("job_id", in.JobID).Eq("job_seeker_id", seekerID))
	if err != nil {
		return nil, apperr.FromStore(err, "Application")
	}
	if exists {
		return nil, errAlreadyApplied
	}

	values := store.Values{
		"job_id":        in.JobID,
		"job_seeker_id": seekerID,
		"status":        string(domain.ApplicationPending),
	}
	if in.CoverLetter != nil {
		values["cover_letter"] = s.sanitizer.Text(*in.CoverLetter)
	}
	if in.DocumentID != nil {
		values["document_id"] = *in.DocumentID
	}

	app, err := repo.Insert(ctx, values)
	if store.IsDuplicate(err) {
		return nil, errAlreadyApplied
	}
	if err != nil {
		return nil, apperr.FromStore(err, "Application")
	}
	s.log(ctx).InfoContext(ctx, "application submitted", "application_id", app.ID, "job_id", in.JobID)
	return app, nil
}

// List returns the caller's applications, newest first. A failed read yields
// an empty list.
func (s *ApplicationService) List(ctx context.Context, id *auth.Identity) ([]domain.Application, error) {
	sc := s.scope(id)
	seekerID, err := ResolveOwner(ctx, sc, id.Subject, domain.ProfileJobSeeker)
	if err != nil {
		return nil, err
	}
	apps, err := s.repo(sc).List(ctx, store.Where().Eq("job_seeker_id", seekerID).OrderBy("created_at", true))
	if err != nil {
		s.log(ctx).WarnContext(ctx, "listing applications failed", "error", redact.Error(err))
		return []domain.Application{}, nil
	}
	return nonNil(apps), nil
}

// Get returns one of the caller's applications. Applications of other
// seekers are Forbidden.
func (s *ApplicationService) Get(ctx context.Context, id *auth.Identity, appID uuid.UUID) (*domain.Application, error) {
	sc := s.scope(id)
	seekerID, err := ResolveOwner(ctx, sc, id.Subject, domain.ProfileJobSeeker)
	if err != nil {
		return nil, err
	}
	const forbidden = "You do not have access to this application"
	app, err := s.fetch(ctx, sc, appID, forbidden)
	if err != nil {
		return nil, err
	}
	if app.JobSeekerID != seekerID {
		return nil, apperr.Forbidden(forbidden)
	}
	return app, nil
}

// Withdraw deletes one of the caller's applications.
func (s *ApplicationService) Withdraw(ctx context.Context, id *auth.Identity, appID uuid.UUID) error {
	if _, err := s.Get(ctx, id, appID); err != nil {
		return err
	}
	if err := s.repo(s.scope(id)).Delete(ctx, store.Where().Eq("id", appID)); err != nil {
		return apperr.FromStore(err, "Application")
	}
	s.log(ctx).InfoContext(ctx, "application withdrawn", "application_id", appID)
	return nil
}

// UpdateStatus moves an application to status. Only the employer owning the
// application's job may do so.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id *auth.Identity, appID uuid.UUID, in StatusInput) (*domain.Application, error) {
	sc := s.scope(id)
	employerID, err := ResolveOwner(ctx, sc, id.Subject, domain.ProfileEmployer)
	if err != nil {
		return nil, err
	}
	const forbidden = "You do not own the job this application was made to"
	app, err := s.fetch(ctx, sc, appID, forbidden)
	if err != nil {
		return nil, err
	}

	job, err := store.For[domain.Job](sc, domain.TableJobs).Maybe(ctx, store.Where().Eq("id", app.JobID))
	if err != nil {
		return nil, apperr.FromStore(err, "Job")
	}
	if job == nil {
		return nil, apperr.NotFound("Job")
	}
	if job.EmployerID != employerID {
		return nil, apperr.Forbidden(forbidden)
	}

	updated, err := s.repo(sc).Update(ctx, store.Where().Eq("id", appID), store.Values{"status": in.Status})
	if err != nil {
		return nil, apperr.FromStore(err, "Application")
	}
	s.log(ctx).InfoContext(ctx, "application status changed",
		"application_id", appID, "status", in.Status)
	return updated, nil
}

// fetch loads appID. When the caller cannot see it, forbidden is reported if
// the application exists at all.
func (s *ApplicationService) fetch(ctx context.Context, sc store.Scope, appID uuid.UUID, forbidden string) (*domain.Application, error) {
	app, err := s.repo(sc).Maybe(ctx, store.Where().Eq("id", appID))
	if err != nil {
		return nil, apperr.FromStore(err, "Application")
	}
	if app == nil {
		return nil, missingRow(ctx, sc, domain.TableApplications, "Application", appID, forbidden)
	}
	return app, nil
}
