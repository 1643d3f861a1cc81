package domain

import (
	"time"

	"github.com/google/uuid"
)

// Owner profile tables.
const (
	TableJobSeekers = "job_seekers"
	TableEmployers  = "employers"
)

// RPCRowOwner is the server-side procedure returning the owner profile id of
// a row whatever its visibility to the caller, or null when it does not exist.
const RPCRowOwner = "row_owner"

// ProfileKind names the two owner profile types.
type ProfileKind string

// Profile kinds.
const (
	ProfileJobSeeker ProfileKind = "job_seeker"
	ProfileEmployer  ProfileKind = "employer"
)

// Table returns the table holding profiles of kind k.
func (k ProfileKind) Table() string {
	if k == ProfileEmployer {
		return TableEmployers
	}
	return TableJobSeekers
}

// Label returns a human name used in messages.
func (k ProfileKind) Label() string {
	if k == ProfileEmployer {
		return "Employer"
	}
	return "Job seeker"
}

// Availability values for JobSeeker.Availability.
const (
	AvailabilityImmediate = "immediate"
	AvailabilityTwoWeeks  = "two_weeks"
	AvailabilityOneMonth  = "one_month"
	AvailabilityFlexible  = "flexible"
)

// JobSeeker is the owner profile of a caller looking for work. UserID is the
// token subject and is unique across job seekers.
type JobSeeker struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Profession      string    `json:"profession"`
	Location        string    `json:"location"`
	Phone           *string   `json:"phone"`
	Bio             *string   `json:"bio"`
	Specialization  *string   `json:"specialization"`
	LicenseNumber   *string   `json:"license_number"`
	YearsExperience *int      `json:"years_experience"`
	Availability    *string   `json:"availability"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Completeness returns the share, in percent, of optional profile fields the
// seeker has filled in.
func (s *JobSeeker) Completeness() int {
	if s == nil {
		return 0
	}
	fields := []bool{
		s.FirstName != "",
		s.LastName != "",
		s.Profession != "",
		s.Location != "",
		filled(s.Phone),
		filled(s.Bio),
		filled(s.Specialization),
		filled(s.LicenseNumber),
		s.YearsExperience != nil,
		filled(s.Availability),
	}
	n := 0
	for _, ok := range fields {
		if ok {
			n++
		}
	}
	return n * 100 / len(fields)
}

func filled(s *string) bool {
	return s != nil && *s != ""
}

// Company sizes accepted for Employer.CompanySize.
var CompanySizes = []string{"1-10", "11-50", "51-200", "201-500", "500+"}

// Employer is the owner profile of a caller posting jobs.
type Employer struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	CompanyName  string    `json:"company_name"`
	Industry     string    `json:"industry"`
	CompanySize  *string   `json:"company_size"`
	Location     string    `json:"location"`
	Website      *string   `json:"website"`
	Description  *string   `json:"description"`
	ContactEmail *string   `json:"contact_email"`
	ContactPhone *string   `json:"contact_phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
