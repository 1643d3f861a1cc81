package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"

	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/domain"
	"github.com/carehire/carehire-api/internal/redact"
	"github.com/carehire/carehire-api/internal/service/auth"
	"github.com/carehire/carehire-api/internal/store"
)

// Job listing defaults and limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxOpenJobs caps the active and draft postings of one employer.
	MaxOpenJobs = 50
)

// JobFilter selects active jobs for the public listing.
type JobFilter struct {
	Category       string `json:"category" validate:"omitempty,max=100"`
	EmploymentType string `json:"employment_type" validate:"omitempty,oneof=full_time part_time contract temporary per_diem"`
	Location       string `json:"location" validate:"omitempty,max=200"`
	Search         string `json:"search" validate:"omitempty,max=200"`
	SalaryMin      *int   `json:"salary_min" validate:"omitnil,gte=0"`
	Page           int    `json:"page" validate:"gte=1"`
	Limit          int    `json:"limit" validate:"gte=1,lte=100"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the page count for total rows.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// JobPage is one page of the public job listing.
type JobPage struct {
	Jobs       []domain.Job
	Pagination Pagination
}

// JobInput is the payload creating a job posting.
type JobInput struct {
	Title          string   `json:"title" db:"title" validate:"required,max=200"`
	Description    string   `json:"description" db:"description" validate:"required,max=10000"`
	Category       string   `json:"category" db:"category" validate:"required,max=100"`
	EmploymentType string   `json:"employment_type" db:"employment_type" validate:"required,oneof=full_time part_time contract temporary per_diem"`
	Location       string   `json:"location" db:"location" validate:"required,max=200"`
	SalaryMin      *int     `json:"salary_min" db:"salary_min" validate:"omitnil,gte=0"`
	SalaryMax      *int     `json:"salary_max" db:"salary_max" validate:"omitnil,gte=0"`
	Status         string   `json:"status" db:"status,omitempty" validate:"omitempty,oneof=active draft closed"`
	Requirements   []string `json:"requirements" db:"-" validate:"omitempty,max=30,dive,required,max=500"`
	Benefits       []string `json:"benefits" db:"-" validate:"omitempty,max=30,dive,required,max=500"`
	Tags           []string `json:"tags" db:"-" validate:"omitempty,max=30,dive,required,max=50"`
}

// JobPatch is the payload updating a job posting. Child lists that are
// present replace the stored lists entirely.
type JobPatch struct {
	Title          *string                `json:"title" validate:"omitnil,min=1,max=200"`
	Description    *string                `json:"description" validate:"omitnil,min=1,max=10000"`
	Category       *string                `json:"category" validate:"omitnil,min=1,max=100"`
	EmploymentType *string                `json:"employment_type" validate:"omitnil,oneof=full_time part_time contract temporary per_diem"`
	Location       *string                `json:"location" validate:"omitnil,min=1,max=200"`
	SalaryMin      nullable.Nullable[int] `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax      nullable.Nullable[int] `json:"salary_max" validate:"omitempty,gte=0"`
	Status         *string                `json:"status" validate:"omitnil,oneof=active draft closed"`
	Requirements   *[]string              `json:"requirements" validate:"omitnil,max=30,dive,required,max=500"`
	Benefits       *[]string              `json:"benefits" validate:"omitnil,max=30,dive,required,max=500"`
	Tags           *[]string              `json:"tags" validate:"omitnil,max=30,dive,required,max=50"`
}

func (p JobPatch) values() store.Values {
	v := store.Values{}
	setPtr(v, "title", p.Title)
	setPtr(v, "description", p.Description)
	setPtr(v, "category", p.Category)
	setPtr(v, "employment_type", p.EmploymentType)
	setPtr(v, "location", p.Location)
	setNullable(v, "salary_min", p.SalaryMin)
	setNullable(v, "salary_max", p.SalaryMax)
	setPtr(v, "status", p.Status)
	return v
}

func (p JobPatch) hasChildren() bool {
	return p.Requirements != nil || p.Benefits != nil || p.Tags != nil
}

// childList describes one of a job's child tables.
type childList struct {
	table  string
	column string
}

var (
	requirementsList = childList{domain.TableJobRequirements, "requirement"}
	benefitsList     = childList{domain.TableJobBenefits, "benefit"}
	tagsList         = childList{domain.TableJobTags, "tag"}
)

// JobService manages job postings.
type JobService struct {
	base
}

// NewJobService creates a JobService.
func NewJobService(d Deps) *JobService {
	return &JobService{base: newBase(d, "job_service")}
}

// List returns a page of active jobs matching f, newest first. id may be nil
// for anonymous callers.
func (s *JobService) List(ctx context.Context, id *auth.Identity, f JobFilter) (*JobPage, error) {
	q := store.Where().Eq("status", string(domain.JobStatusActive))
	if f.Category != "" {
		q = q.Eq("category", f.Category)
	}
	if f.EmploymentType != "" {
		q = q.Eq("employment_type", f.EmploymentType)
	}
	if f.Location != "" {
		q = q.ILike("location", likePattern(f.Location))
	}
	if f.Search != "" {
		q = q.ILike("title", likePattern(f.Search))
	}
	if f.SalaryMin != nil {
		q = q.Gte("salary_max", *f.SalaryMin)
	}

	repo := store.For[domain.Job](s.scope(id), domain.TableJobs)
	total, err := repo.Count(ctx, q)
	if err != nil {
		return nil, apperr.FromStore(err, "Job")
	}
	jobs, err := repo.List(ctx, q.OrderBy("created_at", true).Page(f.Page, f.Limit))
	if err != nil {
		return nil, apperr.FromStore(err, "Job")
	}
	return &JobPage{Jobs: nonNil(jobs), Pagination: NewPagination(f.Page, f.Limit, total)}, nil
}

// Get returns a job with its child lists. Non-active jobs are visible only to
// their employer. Viewing an active job increments its view counter on a
// best-effort basis, and seekers additionally learn whether they saved or
// applied to it.
func (s *JobService) Get(ctx context.Context, id *auth.Identity, jobID uuid.UUID) (*domain.JobDetail, error) {
	sc := s.scope(id)
	job, err := s.fetch(ctx, sc, jobID)
	if err != nil {
		return nil, err
	}

	if !job.IsActive() {
		if id == nil {
			return nil, apperr.NotFound("Job")
		}
		employerID, found, err := findOwner(ctx, sc, id.Subject, domain.ProfileEmployer)
		if err != nil || !found || employerID != job.EmployerID {
			return nil, apperr.NotFound("Job")
		}
	} else {
		views, err := store.Call[int](ctx, sc, domain.RPCIncrementJobViews, store.Values{"job_id": jobID})
		if err != nil {
			s.log(ctx).WarnContext(ctx, "incrementing job views failed",
				"job_id", jobID, "error", redact.Error(err))
		} else if views > 0 {
			job.Views = views
		}
	}

	detail := s.enrich(ctx, sc, job)
	if id != nil {
		s.flagForSeeker(ctx, sc, id, detail)
	}
	return detail, nil
}

// Create posts a new job for the caller's company. Child rows are written on a
// best-effort basis after the job itself.
func (s *JobService) Create(ctx context.Context, id *auth.Identity, in JobInput) (*domain.JobDetail, error) {
	sc := s.scope(id)
	employerID, err := ResolveOwner(ctx, sc, id.Subject, domain.ProfileEmployer)
	if err != nil {
		return nil, err
	}
	if err := checkSalary(in.SalaryMin, in.SalaryMax); err != nil {
		return nil, err
	}

	repo := store.For[domain.Job](sc, domain.TableJobs)
	if err := checkOpenJobs(ctx, repo, employerID); err != nil {
		return nil, err
	}

	if in.Status == "" {
		in.Status = string(domain.JobStatusActive)
	}
	in.Description = s.sanitizer.Text(in.Description)
	values := store.ValuesOf(in)
	values["employer_id"] = employerID

	job, err := repo.Insert(ctx, values)
	if err != nil {
		return nil, apperr.FromStore(err, "Job")
	}
	s.log(ctx).InfoContext(ctx, "job created", "job_id", job.ID)

	detail := &domain.JobDetail{Job: *job}
	detail.Requirements = s.insertChildren(ctx, sc, job.ID, requirementsList, in.Requirements)
	detail.Benefits = s.insertChildren(ctx, sc, job.ID, benefitsList, in.Benefits)
	detail.Tags = s.insertChildren(ctx, sc, job.ID, tagsList, in.Tags)
	return detail, nil
}

// Update changes a job owned by the caller. Callers that do not own the job
// are refused with Forbidden.
func (s *JobService) Update(ctx context.Context, id *auth.Identity, jobID uuid.UUID, patch JobPatch) (*domain.JobDetail, error) {
	values := patch.values()
	if len(values) == 0 && !patch.hasChildren() {
		return nil, errNoFields
	}

	sc := s.scope(id)
	job, err := s.owned(ctx, sc, id, jobID)
	if err != nil {
		return nil, err
	}

	if patch.SalaryMin.IsSpecified() || patch.SalaryMax.IsSpecified() {
		lo, hi := job.SalaryMin, job.SalaryMax
		if patch.SalaryMin.IsSpecified() {
			lo = nullableToPtr(patch.SalaryMin)
		}
		if patch.SalaryMax.IsSpecified() {
			hi = nullableToPtr(patch.SalaryMax)
		}
		if err := checkSalary(lo, hi); err != nil {
			return nil, err
		}
	}
	if d, ok := values["description"].(string); ok {
		values["description"] = s.sanitizer.Text(d)
	}
	if patch.Status != nil && job.Status == domain.JobStatusClosed &&
		domain.JobStatus(*patch.Status) != domain.JobStatusClosed {
		if err := checkOpenJobs(ctx, store.For[domain.Job](sc, domain.TableJobs), job.EmployerID); err != nil {
			return nil, err
		}
	}

	if len(values) > 0 {
		job, err = store.For[domain.Job](sc, domain.TableJobs).Update(ctx, store.Where().Eq("id", jobID), values)
		if err != nil {
			return nil, apperr.FromStore(err, "Job")
		}
	}

	if patch.Requirements != nil {
		s.replaceChildren(ctx, sc, jobID, requirementsList, *patch.Requirements)
	}
	if patch.Benefits != nil {
		s.replaceChildren(ctx, sc, jobID, benefitsList, *patch.Benefits)
	}
	if patch.Tags != nil {
		s.replaceChildren(ctx, sc, jobID, tagsList, *patch.Tags)
	}
	s.log(ctx).InfoContext(ctx, "job updated", "job_id", jobID)
	return s.enrich(ctx, sc, job), nil
}

// Delete removes a job owned by the caller. Child rows are cleaned up first on
// a best-effort basis; only the job's own deletion can fail the request.
func (s *JobService) Delete(ctx context.Context, id *auth.Identity, jobID uuid.UUID) error {
	sc := s.scope(id)
	if _, err := s.owned(ctx, sc, id, jobID); err != nil {
		return err
	}

	for _, c := range []childList{requirementsList, benefitsList, tagsList} {
		s.deleteChildren(ctx, sc, jobID, c)
	}

	if err := store.For[domain.Job](sc, domain.TableJobs).Delete(ctx, store.Where().Eq("id", jobID)); err != nil {
		return apperr.FromStore(err, "Job")
	}
	s.log(ctx).InfoContext(ctx, "job deleted", "job_id", jobID)
	return nil
}

// Applications lists the applications received for a job owned by the caller.
func (s *JobService) Applications(ctx context.Context, id *auth.Identity, jobID uuid.UUID) ([]domain.Application, error) {
	sc := s.scope(id)
	if _, err := s.owned(ctx, sc, id, jobID); err != nil {
		return nil, err
	}
	apps, err := store.For[domain.Application](sc, domain.TableApplications).List(ctx,
		store.Where().Eq("job_id", jobID).OrderBy("created_at", true))
	if err != nil {
		s.log(ctx).WarnContext(ctx, "listing job applications failed",
			"job_id", jobID, "error", redact.Error(err))
		return []domain.Application{}, nil
	}
	return nonNil(apps), nil
}

// checkOpenJobs fails with MaxEntries when the employer already has
// MaxOpenJobs active or draft postings.
func checkOpenJobs(ctx context.Context, repo store.Repository[domain.Job], employerID uuid.UUID) error {
	open, err := repo.Count(ctx, store.Where().
		Eq("employer_id", employerID).
		In("status", []string{string(domain.JobStatusActive), string(domain.JobStatusDraft)}))
	if err != nil {
		return apperr.FromStore(err, "Job")
	}
	if open >= MaxOpenJobs {
		return apperr.MaxEntries("job posting", MaxOpenJobs)
	}
	return nil
}

func (s *JobService) fetch(ctx context.Context, sc store.Scope, jobID uuid.UUID) (*domain.Job, error) {
	job, err := store.For[domain.Job](sc, domain.TableJobs).Maybe(ctx, store.Where().Eq("id", jobID))
	if err != nil {
		return nil, apperr.FromStore(err, "Job")
	}
	if job == nil {
		return nil, apperr.NotFound("Job")
	}
	return job, nil
}

// owned resolves the caller's employer id and loads jobID, failing with
// Forbidden when the job belongs to another employer.
func (s *JobService) owned(ctx context.Context, sc store.Scope, id *auth.Identity, jobID uuid.UUID) (*domain.Job, error) {
	employerID, err := ResolveOwner(ctx, sc, id.Subject, domain.ProfileEmployer)
	if err != nil {
		return nil, err
	}
	const forbidden = "You do not own this job posting"
	job, err := store.For[domain.Job](sc, domain.TableJobs).Maybe(ctx, store.Where().Eq("id", jobID))
	if err != nil {
		return nil, apperr.FromStore(err, "Job")
	}
	if job == nil {
		return nil, missingRow(ctx, sc, domain.TableJobs, "Job", jobID, forbidden)
	}
	if job.EmployerID != employerID {
		return nil, apperr.Forbidden(forbidden)
	}
	return job, nil
}

// enrich loads the child lists of job. A failed read leaves that list empty.
func (s *JobService) enrich(ctx context.Context, sc store.Scope, job *domain.Job) *domain.JobDetail {
	return &domain.JobDetail{
		Job:          *job,
		Requirements: s.listChildren(ctx, sc, job.ID, requirementsList),
		Benefits:     s.listChildren(ctx, sc, job.ID, benefitsList),
		Tags:         s.listChildren(ctx, sc, job.ID, tagsList),
	}
}

func (s *JobService) listChildren(ctx context.Context, sc store.Scope, jobID uuid.UUID, c childList) []string {
	rows, err := store.For[map[string]any](sc, c.table).List(ctx, store.Where().Eq("job_id", jobID))
	if err != nil {
		s.log(ctx).WarnContext(ctx, "loading job details failed",
			"table", c.table, "job_id", jobID, "error", redact.Error(err))
		return []string{}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if v, ok := r[c.column].(string); ok {
			out = append(out, v)
		}
	}
	return out
}

// insertChildren writes items and returns what was stored, or an empty list
// when the write failed.
func (s *JobService) insertChildren(ctx context.Context, sc store.Scope, jobID uuid.UUID, c childList, items []string) []string {
	if len(items) == 0 {
		return []string{}
	}
	rows := make([]store.Values, len(items))
	for i, item := range items {
		rows[i] = store.Values{"job_id": jobID, c.column: s.sanitizer.Text(item)}
	}
	if err := store.For[map[string]any](sc, c.table).InsertMany(ctx, rows); err != nil {
		s.log(ctx).WarnContext(ctx, "writing job details failed",
			"table", c.table, "job_id", jobID, "error", redact.Error(err))
		return []string{}
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r[c.column].(string)
	}
	return out
}

func (s *JobService) deleteChildren(ctx context.Context, sc store.Scope, jobID uuid.UUID, c childList) {
	err := store.For[map[string]any](sc, c.table).Delete(ctx, store.Where().Eq("job_id", jobID))
	if err != nil && !store.IsNotFound(err) {
		s.log(ctx).WarnContext(ctx, "removing job details failed",
			"table", c.table, "job_id", jobID, "error", redact.Error(err))
	}
}

func (s *JobService) replaceChildren(ctx context.Context, sc store.Scope, jobID uuid.UUID, c childList, items []string) {
	s.deleteChildren(ctx, sc, jobID, c)
	s.insertChildren(ctx, sc, jobID, c, items)
}

// flagForSeeker sets IsSaved and HasApplied for callers with a seeker
// profile. Lookup failures report false.
func (s *JobService) flagForSeeker(ctx context.Context, sc store.Scope, id *auth.Identity, d *domain.JobDetail) {
	seekerID, found, err := findOwner(ctx, sc, id.Subject, domain.ProfileJobSeeker)
	if err != nil || !found {
		return
	}
	q := store.Where().Eq("job_seeker_id", seekerID).Eq("job_id", d.ID)

	saved, err := store.For[ownerRef](sc, domain.TableSavedJobs).Exists(ctx, q)
	if err != nil {
		s.log(ctx).WarnContext(ctx, "checking saved job failed", "error", redact.Error(err))
	}
	applied, err := store.For[ownerRef](sc, domain.TableApplications).Exists(ctx, q)
	if err != nil {
		s.log(ctx).WarnContext(ctx, "checking application failed", "error", redact.Error(err))
	}
	d.IsSaved = &saved
	d.HasApplied = &applied
}

func checkSalary(lo, hi *int) error {
	if lo != nil && hi != nil && *hi < *lo {
		return fieldError("salary_max", "must be greater than or equal to salary_min")
	}
	return nil
}

func nullableToPtr[T any](n nullable.Nullable[T]) *T {
	if !n.IsSpecified() || n.IsNull() {
		return nil
	}
	v := n.MustGet()
	return &v
}
