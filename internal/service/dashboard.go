package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/carehire/carehire-api/internal/domain"
	"github.com/carehire/carehire-api/internal/redact"
	"github.com/carehire/carehire-api/internal/service/auth"
	"github.com/carehire/carehire-api/internal/store"
)

// statusRow is the projection reduced into status histograms.
type statusRow struct {
	Status string `json:"status"`
}

// jobStatsRow is the projection reduced into employer posting totals.
type jobStatsRow struct {
	ID     uuid.UUID        `json:"id"`
	Status domain.JobStatus `json:"status"`
	Views  int              `json:"views"`
}

// DashboardService aggregates per-caller activity. Its methods never fail:
// any failed read, or a caller without a profile, yields the zero dashboard.
type DashboardService struct {
	base
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(d Deps) *DashboardService {
	return &DashboardService{base: newBase(d, "dashboard_service")}
}

// JobSeeker returns the caller's job-seeker dashboard.
func (s *DashboardService) JobSeeker(ctx context.Context, id *auth.Identity) domain.JobSeekerDashboard {
	empty := domain.EmptyJobSeekerDashboard()
	if id == nil {
		return empty
	}
	sc := s.scope(id)

	profile, err := store.For[domain.JobSeeker](sc, domain.TableJobSeekers).
		Maybe(ctx, store.Where().Eq("user_id", id.Subject))
	if err != nil {
		s.degraded(ctx, "job_seeker", err)
		return empty
	}
	if profile == nil {
		return empty
	}

	apps, err := store.For[statusRow](sc, domain.TableApplications).
		List(ctx, store.Where().Eq("job_seeker_id", profile.ID))
	if err != nil {
		s.degraded(ctx, "job_seeker", err)
		return empty
	}
	saved, err := store.For[ownerRef](sc, domain.TableSavedJobs).
		Count(ctx, store.Where().Eq("job_seeker_id", profile.ID))
	if err != nil {
		s.degraded(ctx, "job_seeker", err)
		return empty
	}
	docs, err := store.For[ownerRef](sc, domain.TableDocuments).
		Count(ctx, store.Where().Eq("job_seeker_id", profile.ID))
	if err != nil {
		s.degraded(ctx, "job_seeker", err)
		return empty
	}

	return domain.JobSeekerDashboard{
		TotalApplications:    len(apps),
		ApplicationsByStatus: histogram(apps),
		SavedJobs:            saved,
		Documents:            docs,
		ProfileCompleteness:  profile.Completeness(),
	}
}

// Employer returns the caller's employer dashboard.
func (s *DashboardService) Employer(ctx context.Context, id *auth.Identity) domain.EmployerDashboard {
	empty := domain.EmptyEmployerDashboard()
	if id == nil {
		return empty
	}
	sc := s.scope(id)

	employerID, found, err := findOwner(ctx, sc, id.Subject, domain.ProfileEmployer)
	if err != nil {
		s.degraded(ctx, "employer", err)
		return empty
	}
	if !found {
		return empty
	}

	jobs, err := store.For[jobStatsRow](sc, domain.TableJobs).
		List(ctx, store.Where().Eq("employer_id", employerID))
	if err != nil {
		s.degraded(ctx, "employer", err)
		return empty
	}
	if len(jobs) == 0 {
		return empty
	}

	dash := domain.EmployerDashboard{TotalJobs: len(jobs)}
	ids := make([]uuid.UUID, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
		dash.TotalViews += j.Views
		if j.Status == domain.JobStatusActive {
			dash.ActiveJobs++
		}
	}

	apps, err := store.For[statusRow](sc, domain.TableApplications).
		List(ctx, store.Where().In("job_id", ids))
	if err != nil {
		s.degraded(ctx, "employer", err)
		return empty
	}
	dash.TotalApplications = len(apps)
	dash.ApplicationsByStatus = histogram(apps)
	return dash
}

func (s *DashboardService) degraded(ctx context.Context, dashboard string, err error) {
	s.log(ctx).WarnContext(ctx, "dashboard read failed, reporting empty stats",
		"dashboard", dashboard, "error", redact.Error(err))
}

// histogram counts rows per status, starting from every known status at zero.
func histogram(rows []statusRow) map[string]int {
	h := domain.StatusHistogram()
	for _, r := range rows {
		h[r.Status]++
	}
	return h
}
