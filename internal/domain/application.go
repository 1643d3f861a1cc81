package domain

import (
	"time"

	"github.com/google/uuid"
)

// TableApplications holds job applications.
const TableApplications = "applications"

// ApplicationStatus tracks an application through the hiring pipeline.
type ApplicationStatus string

// Application statuses.
const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewed    ApplicationStatus = "reviewed"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationInterview   ApplicationStatus = "interview"
	ApplicationOffered     ApplicationStatus = "offered"
	ApplicationHired       ApplicationStatus = "hired"
	ApplicationRejected    ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every status in pipeline order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationPending,
	ApplicationReviewed,
	ApplicationShortlisted,
	ApplicationInterview,
	ApplicationOffered,
	ApplicationHired,
	ApplicationRejected,
}

// Application is a job seeker's application to a job. There is at most one
// per (job, job seeker).
type Application struct {
	ID          uuid.UUID         `json:"id"`
	JobID       uuid.UUID         `json:"job_id"`
	JobSeekerID uuid.UUID         `json:"job_seeker_id"`
	CoverLetter *string           `json:"cover_letter"`
	DocumentID  *uuid.UUID        `json:"document_id"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
