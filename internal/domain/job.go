package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job tables.
const (
	TableJobs            = "jobs"
	TableJobRequirements = "job_requirements"
	TableJobBenefits     = "job_benefits"
	TableJobTags         = "job_tags"
)

// RPCIncrementJobViews is the server-side procedure bumping Job.Views.
const RPCIncrementJobViews = "increment_job_views"

// JobStatus is the publication state of a job posting.
type JobStatus string

// Job statuses. Only active jobs are listed publicly.
const (
	JobStatusActive JobStatus = "active"
	JobStatusDraft  JobStatus = "draft"
	JobStatusClosed JobStatus = "closed"
)

// Employment types accepted for Job.EmploymentType.
var EmploymentTypes = []string{"full_time", "part_time", "contract", "temporary", "per_diem"}

// Job is a posting owned by an Employer.
type Job struct {
	ID             uuid.UUID `json:"id"`
	EmployerID     uuid.UUID `json:"employer_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	EmploymentType string    `json:"employment_type"`
	Location       string    `json:"location"`
	SalaryMin      *int      `json:"salary_min"`
	SalaryMax      *int      `json:"salary_max"`
	Status         JobStatus `json:"status"`
	Views          int       `json:"views"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsActive reports whether the job is publicly visible.
func (j *Job) IsActive() bool {
	return j.Status == JobStatusActive
}

// JobRequirement is one requirement line of a job.
type JobRequirement struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	Requirement string    `json:"requirement"`
}

// JobBenefit is one benefit line of a job.
type JobBenefit struct {
	ID      uuid.UUID `json:"id"`
	JobID   uuid.UUID `json:"job_id"`
	Benefit string    `json:"benefit"`
}

// JobTag is one search tag of a job.
type JobTag struct {
	ID    uuid.UUID `json:"id"`
	JobID uuid.UUID `json:"job_id"`
	Tag   string    `json:"tag"`
}

// JobDetail is a job enriched with its child rows and, for a job seeker
// caller, whether they saved or applied to it.
type JobDetail struct {
	Job
	Requirements []string `json:"requirements"`
	Benefits     []string `json:"benefits"`
	Tags         []string `json:"tags"`
	IsSaved      *bool    `json:"is_saved,omitempty"`
	HasApplied   *bool    `json:"has_applied,omitempty"`
}
