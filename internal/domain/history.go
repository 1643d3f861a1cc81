package domain

import (
	"time"

	"github.com/google/uuid"
)

// History tables and their per-seeker caps.
const (
	TableEducations     = "educations"
	TableExperiences    = "experiences"
	TableCertifications = "certifications"

	MaxEducations     = 10
	MaxExperiences    = 10
	MaxCertifications = 20
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = time.DateOnly

// Education is one entry of a job seeker's education history.
type Education struct {
	ID           uuid.UUID `json:"id"`
	JobSeekerID  uuid.UUID `json:"job_seeker_id"`
	Institution  string    `json:"institution"`
	Degree       string    `json:"degree"`
	FieldOfStudy *string   `json:"field_of_study"`
	StartDate    string    `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	Description  *string   `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Experience is one entry of a job seeker's work history. Duration is derived
// from the dates when the row is read and is not stored.
type Experience struct {
	ID          uuid.UUID `json:"id"`
	JobSeekerID uuid.UUID `json:"job_seeker_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    *string   `json:"location"`
	StartDate   string    `json:"start_date"`
	EndDate     *string   `json:"end_date"`
	IsCurrent   bool      `json:"is_current"`
	Description *string   `json:"description"`
	Duration    string    `json:"duration,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WithDuration fills Duration from the start and end dates, measuring open or
// current positions up to now. Unparseable dates leave Duration empty.
func (e Experience) WithDuration(now time.Time) Experience {
	start, err := ParseDate(e.StartDate)
	if err != nil {
		return e
	}
	end := now
	if e.EndDate != nil && !e.IsCurrent {
		if end, err = ParseDate(*e.EndDate); err != nil {
			return e
		}
	}
	e.Duration = FormatDuration(start, end)
	return e
}

// Certification is a professional licence or certificate held by a job seeker.
type Certification struct {
	ID                  uuid.UUID `json:"id"`
	JobSeekerID         uuid.UUID `json:"job_seeker_id"`
	Name                string    `json:"name"`
	IssuingOrganization string    `json:"issuing_organization"`
	IssueDate           string    `json:"issue_date"`
	ExpiryDate          *string   `json:"expiry_date"`
	CredentialID        *string   `json:"credential_id"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
