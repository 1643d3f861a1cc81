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

// SaveJobInput is the payload bookmarking a job.
type SaveJobInput struct {
	JobID uuid.UUID `json:"job_id" validate:"required"`
}

var errAlreadySaved = apperr.Conflict("Job already saved")

// SavedJobService manages the caller's bookmarked jobs.
type SavedJobService struct {
	base
}

// NewSavedJobService creates a SavedJobService.
func NewSavedJobService(d Deps) *SavedJobService {
	return &SavedJobService{base: newBase(d, "saved_job_service")}
}

// List returns the caller's saved jobs, newest first, each with its job. A
// job that cannot be loaded is reported as null; a failed list read yields an
// empty list.
func (s *SavedJobService) List(ctx context.Context, id *auth.Identity) ([]domain.SavedJob, error) {
	sc := s.scope(id)
	seekerID, err := ResolveOwner(ctx, sc, id.Subject, domain.ProfileJobSeeker)
	if err != nil {
		return nil, err
	}
	saved, err := store.For[domain.SavedJob](sc, domain.TableSavedJobs).List(ctx,
		store.Where().Eq("job_seeker_id", seekerID).OrderBy("created_at", true))
	if err != nil {
		s.log(ctx).WarnContext(ctx, "listing saved jobs failed", "error", redact.Error(err))
		return []domain.SavedJob{}, nil
	}
	if len(saved) == 0 {
		return []domain.SavedJob{}, nil
	}

	ids := make([]uuid.UUID, len(saved))
	for i, sj := range saved {
		ids[i] = sj.JobID
	}
	jobs, err := store.For[domain.Job](sc, domain.TableJobs).List(ctx, store.Where().In("id", ids))
	if err != nil {
		s.log(ctx).WarnContext(ctx, "loading saved job details failed", "error", redact.Error(err))
		return saved, nil
	}
	byID := make(map[uuid.UUID]*domain.Job, len(jobs))
	for i := range jobs {
		byID[jobs[i].ID] = &jobs[i]
	}
	for i := range saved {
		saved[i].Job = byID[saved[i].JobID]
	}
	return saved, nil
}

// Save bookmarks an active job for the caller.
func (s *SavedJobService) Save(ctx context.Context, id *auth.Identity, in SaveJobInput) (*domain.SavedJob, error) {
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

	repo := store.For[domain.SavedJob](sc, domain.TableSavedJobs)
	exists, err := repo.Exists(ctx, store.Where().Eq("job_seeker_id", seekerID).Eq("job_id", in.JobID))
	if err != nil {
		return nil, apperr.FromStore(err, "Saved job")
	}
	if exists {
		return nil, errAlreadySaved
	}

	saved, err := repo.Insert(ctx, store.Values{"job_seeker_id": seekerID, "job_id": in.JobID})
	if store.IsDuplicate(err) {
		return nil, errAlreadySaved
	}
	if err != nil {
		return nil, apperr.FromStore(err, "Saved job")
	}
	saved.Job = job
	return saved, nil
}

// Remove deletes the caller's bookmark of jobID.
func (s *SavedJobService) Remove(ctx context.Context, id *auth.Identity, jobID uuid.UUID) error {
	sc := s.scope(id)
	seekerID, err := ResolveOwner(ctx, sc, id.Subject, domain.ProfileJobSeeker)
	if err != nil {
		return err
	}
	err = store.For[domain.SavedJob](sc, domain.TableSavedJobs).Delete(ctx,
		store.Where().Eq("job_seeker_id", seekerID).Eq("job_id", jobID))
	if err != nil {
		return apperr.FromStore(err, "Saved job")
	}
	return nil
}
