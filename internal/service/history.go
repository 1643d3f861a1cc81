package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/domain"
	"github.com/carehire/carehire-api/internal/redact"
	"github.com/carehire/carehire-api/internal/service/auth"
	"github.com/carehire/carehire-api/internal/store"
)

// collection is the capped, seeker-owned list behind education, experience
// and certification entries.
type collection[T any] struct {
	base
	table    string
	label    string // "Education"
	resource string // "education", used in cap messages
	limit    int
	orderBy  string
	// decorate derives read-only fields on every returned row.
	decorate func(T) T
}

func (c collection[T]) repo(sc store.Scope) store.Repository[T] {
	return store.For[T](sc, c.table)
}

func (c collection[T]) out(row T) T {
	if c.decorate == nil {
		return row
	}
	return c.decorate(row)
}

// list returns the caller's entries, most recent first. A failed read yields
// an empty list.
func (c collection[T]) list(ctx context.Context, id *auth.Identity) ([]T, error) {
	sc := c.scope(id)
	seekerID, err := ResolveOwner(ctx, sc, id.Subject, domain.ProfileJobSeeker)
	if err != nil {
		return nil, err
	}
	rows, err := c.repo(sc).List(ctx, store.Where().Eq("job_seeker_id", seekerID).OrderBy(c.orderBy, true))
	if err != nil {
		c.log(ctx).WarnContext(ctx, "listing entries failed", "table", c.table, "error", redact.Error(err))
		return []T{}, nil
	}
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = c.out(r)
	}
	return out, nil
}

// create inserts an entry unless the caller already holds the maximum.
func (c collection[T]) create(ctx context.Context, id *auth.Identity, values store.Values) (*T, error) {
	sc := c.scope(id)
	seekerID, err := ResolveOwner(ctx, sc, id.Subject, domain.ProfileJobSeeker)
	if err != nil {
		return nil, err
	}

	repo := c.repo(sc)
	n, err := repo.Count(ctx, store.Where().Eq("job_seeker_id", seekerID))
	if err != nil {
		return nil, apperr.FromStore(err, c.label)
	}
	if n >= c.limit {
		return nil, apperr.MaxEntries(c.resource, c.limit)
	}

	values["job_seeker_id"] = seekerID
	row, err := repo.Insert(ctx, values)
	if err != nil {
		return nil, apperr.FromStore(err, c.label)
	}
	out := c.out(*row)
	return &out, nil
}

// update replaces every field of one of the caller's entries.
func (c collection[T]) update(ctx context.Context, id *auth.Identity, entryID uuid.UUID, values store.Values) (*T, error) {
	sc := c.scope(id)
	if err := c.checkOwner(ctx, sc, id, entryID); err != nil {
		return nil, err
	}
	row, err := c.repo(sc).Update(ctx, store.Where().Eq("id", entryID), values)
	if err != nil {
		return nil, apperr.FromStore(err, c.label)
	}
	out := c.out(*row)
	return &out, nil
}

func (c collection[T]) delete(ctx context.Context, id *auth.Identity, entryID uuid.UUID) error {
	sc := c.scope(id)
	if err := c.checkOwner(ctx, sc, id, entryID); err != nil {
		return err
	}
	if err := c.repo(sc).Delete(ctx, store.Where().Eq("id", entryID)); err != nil {
		return apperr.FromStore(err, c.label)
	}
	return nil
}

func (c collection[T]) checkOwner(ctx context.Context, sc store.Scope, id *auth.Identity, entryID uuid.UUID) error {
	seekerID, err := ResolveOwner(ctx, sc, id.Subject, domain.ProfileJobSeeker)
	if err != nil {
		return err
	}
	return fetchOwned(ctx, sc, c.table, c.label, entryID, seekerID)
}

// checkPeriod validates a start/end date pair as field errors.
func checkPeriod(startField, endField, start string, end *string) error {
	err := domain.ValidatePeriod(start, end)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrDateOrder):
		return fieldError(endField, "must not be before "+startField)
	default:
		return fieldError(startField, "must be a date in YYYY-MM-DD format")
	}
}

// EducationInput is the payload creating or replacing an education entry.
type EducationInput struct {
	Institution  string  `json:"institution" validate:"required,max=200"`
	Degree       string  `json:"degree" validate:"required,max=200"`
	FieldOfStudy *string `json:"field_of_study" validate:"omitnil,max=200"`
	StartDate    string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      *string `json:"end_date" validate:"omitnil,datetime=2006-01-02"`
	Description  *string `json:"description" validate:"omitnil,max=2000"`
}

// EducationService manages the caller's education history.
type EducationService struct {
	collection[domain.Education]
}

// NewEducationService creates an EducationService.
func NewEducationService(d Deps) *EducationService {
	return &EducationService{collection[domain.Education]{
		base:     newBase(d, "education_service"),
		table:    domain.TableEducations,
		label:    "Education",
		resource: "education",
		limit:    domain.MaxEducations,
		orderBy:  "start_date",
	}}
}

func (s *EducationService) values(in EducationInput) (store.Values, error) {
	if err := checkPeriod("start_date", "end_date", in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	return store.Values{
		"institution":    in.Institution,
		"degree":         in.Degree,
		"field_of_study": orNil(in.FieldOfStudy),
		"start_date":     in.StartDate,
		"end_date":       orNil(in.EndDate),
		"description":    orNil(s.sanitizer.TextPtr(in.Description)),
	}, nil
}

// List returns the caller's education entries.
func (s *EducationService) List(ctx context.Context, id *auth.Identity) ([]domain.Education, error) {
	return s.list(ctx, id)
}

// Create adds an education entry.
func (s *EducationService) Create(ctx context.Context, id *auth.Identity, in EducationInput) (*domain.Education, error) {
	v, err := s.values(in)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, id, v)
}

// Update replaces an education entry.
func (s *EducationService) Update(ctx context.Context, id *auth.Identity, entryID uuid.UUID, in EducationInput) (*domain.Education, error) {
	v, err := s.values(in)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, id, entryID, v)
}

// Delete removes an education entry.
func (s *EducationService) Delete(ctx context.Context, id *auth.Identity, entryID uuid.UUID) error {
	return s.delete(ctx, id, entryID)
}

// ExperienceInput is the payload creating or replacing a work history entry.
type ExperienceInput struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Company     string  `json:"company" validate:"required,max=200"`
	Location    *string `json:"location" validate:"omitnil,max=200"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitnil,datetime=2006-01-02"`
	IsCurrent   bool    `json:"is_current"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
}

// ExperienceService manages the caller's work history. Entries are returned
// with a human-readable duration.
type ExperienceService struct {
	collection[domain.Experience]
}

// NewExperienceService creates an ExperienceService.
func NewExperienceService(d Deps) *ExperienceService {
	s := &ExperienceService{collection[domain.Experience]{
		base:     newBase(d, "experience_service"),
		table:    domain.TableExperiences,
		label:    "Experience",
		resource: "experience",
		limit:    domain.MaxExperiences,
		orderBy:  "start_date",
	}}
	s.decorate = func(e domain.Experience) domain.Experience {
		return e.WithDuration(s.now())
	}
	return s
}

func (s *ExperienceService) values(in ExperienceInput) (store.Values, error) {
	if in.IsCurrent {
		in.EndDate = nil
	}
	if err := checkPeriod("start_date", "end_date", in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	return store.Values{
		"title":       in.Title,
		"company":     in.Company,
		"location":    orNil(in.Location),
		"start_date":  in.StartDate,
		"end_date":    orNil(in.EndDate),
		"is_current":  in.IsCurrent,
		"description": orNil(s.sanitizer.TextPtr(in.Description)),
	}, nil
}

// List returns the caller's work history.
func (s *ExperienceService) List(ctx context.Context, id *auth.Identity) ([]domain.Experience, error) {
	return s.list(ctx, id)
}

// Create adds a work history entry.
func (s *ExperienceService) Create(ctx context.Context, id *auth.Identity, in ExperienceInput) (*domain.Experience, error) {
	v, err := s.values(in)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, id, v)
}

// Update replaces a work history entry.
func (s *ExperienceService) Update(ctx context.Context, id *auth.Identity, entryID uuid.UUID, in ExperienceInput) (*domain.Experience, error) {
	v, err := s.values(in)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, id, entryID, v)
}

// Delete removes a work history entry.
func (s *ExperienceService) Delete(ctx context.Context, id *auth.Identity, entryID uuid.UUID) error {
	return s.delete(ctx, id, entryID)
}

// CertificationInput is the payload creating or replacing a certification.
type CertificationInput struct {
	Name                string  `json:"name" validate:"required,max=200"`
	IssuingOrganization string  `json:"issuing_organization" validate:"required,max=200"`
	IssueDate           string  `json:"issue_date" validate:"required,datetime=2006-01-02"`
	ExpiryDate          *string `json:"expiry_date" validate:"omitnil,datetime=2006-01-02"`
	CredentialID        *string `json:"credential_id" validate:"omitnil,max=100"`
}

// CertificationService manages the caller's certifications.
type CertificationService struct {
	collection[domain.Certification]
}

// NewCertificationService creates a CertificationService.
func NewCertificationService(d Deps) *CertificationService {
	return &CertificationService{collection[domain.Certification]{
		base:     newBase(d, "certification_service"),
		table:    domain.TableCertifications,
		label:    "Certification",
		resource: "certification",
		limit:    domain.MaxCertifications,
		orderBy:  "issue_date",
	}}
}

func (s *CertificationService) values(in CertificationInput) (store.Values, error) {
	if err := checkPeriod("issue_date", "expiry_date", in.IssueDate, in.ExpiryDate); err != nil {
		return nil, err
	}
	return store.Values{
		"name":                 in.Name,
		"issuing_organization": in.IssuingOrganization,
		"issue_date":           in.IssueDate,
		"expiry_date":          orNil(in.ExpiryDate),
		"credential_id":        orNil(in.CredentialID),
	}, nil
}

// List returns the caller's certifications.
func (s *CertificationService) List(ctx context.Context, id *auth.Identity) ([]domain.Certification, error) {
	return s.list(ctx, id)
}

// Create adds a certification.
func (s *CertificationService) Create(ctx context.Context, id *auth.Identity, in CertificationInput) (*domain.Certification, error) {
	v, err := s.values(in)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, id, v)
}

// Update replaces a certification.
func (s *CertificationService) Update(ctx context.Context, id *auth.Identity, entryID uuid.UUID, in CertificationInput) (*domain.Certification, error) {
	v, err := s.values(in)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, id, entryID, v)
}

// Delete removes a certification.
func (s *CertificationService) Delete(ctx context.Context, id *auth.Identity, entryID uuid.UUID) error {
	return s.delete(ctx, id, entryID)
}
