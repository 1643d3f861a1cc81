package service

import (
	"context"

	"github.com/oapi-codegen/nullable"

	"github.com/carehire/carehire-api/internal/domain"
	"github.com/carehire/carehire-api/internal/redact"
	"github.com/carehire/carehire-api/internal/service/auth"
	"github.com/carehire/carehire-api/internal/store"
)

// EmployerInput is the payload creating an employer profile.
type EmployerInput struct {
	CompanyName  string  `json:"company_name" db:"company_name" validate:"required,max=200"`
	Industry     string  `json:"industry" db:"industry" validate:"required,max=100"`
	CompanySize  *string `json:"company_size" db:"company_size" validate:"omitnil,oneof=1-10 11-50 51-200 201-500 500+"`
	Location     string  `json:"location" db:"location" validate:"required,max=200"`
	Website      *string `json:"website" db:"website" validate:"omitnil,url,max=500"`
	Description  *string `json:"description" db:"description" validate:"omitnil,max=5000"`
	ContactEmail *string `json:"contact_email" db:"contact_email" validate:"omitnil,email"`
	ContactPhone *string `json:"contact_phone" db:"contact_phone" validate:"omitnil,max=30"`
}

// EmployerPatch is the payload updating an employer profile.
type EmployerPatch struct {
	CompanyName  *string                   `json:"company_name" validate:"omitnil,min=1,max=200"`
	Industry     *string                   `json:"industry" validate:"omitnil,min=1,max=100"`
	CompanySize  nullable.Nullable[string] `json:"company_size" validate:"omitempty,oneof=1-10 11-50 51-200 201-500 500+"`
	Location     *string                   `json:"location" validate:"omitnil,min=1,max=200"`
	Website      nullable.Nullable[string] `json:"website" validate:"omitempty,url,max=500"`
	Description  nullable.Nullable[string] `json:"description" validate:"omitempty,max=5000"`
	ContactEmail nullable.Nullable[string] `json:"contact_email" validate:"omitempty,email"`
	ContactPhone nullable.Nullable[string] `json:"contact_phone" validate:"omitempty,max=30"`
}

func (p EmployerPatch) values() store.Values {
	v := store.Values{}
	setPtr(v, "company_name", p.CompanyName)
	setPtr(v, "industry", p.Industry)
	setNullable(v, "company_size", p.CompanySize)
	setPtr(v, "location", p.Location)
	setNullable(v, "website", p.Website)
	setNullable(v, "description", p.Description)
	setNullable(v, "contact_email", p.ContactEmail)
	setNullable(v, "contact_phone", p.ContactPhone)
	return v
}

// EmployerService manages the caller's employer profile.
type EmployerService struct {
	profiles[domain.Employer]
}

// NewEmployerService creates an EmployerService.
func NewEmployerService(d Deps) *EmployerService {
	return &EmployerService{profiles[domain.Employer]{
		base: newBase(d, "employer_service"),
		kind: domain.ProfileEmployer,
	}}
}

// Get returns the caller's employer profile.
func (s *EmployerService) Get(ctx context.Context, id *auth.Identity) (*domain.Employer, error) {
	return s.get(ctx, id)
}

// Create creates the caller's employer profile.
func (s *EmployerService) Create(ctx context.Context, id *auth.Identity, in EmployerInput) (*domain.Employer, error) {
	in.Description = s.sanitizer.TextPtr(in.Description)
	return s.create(ctx, id, store.ValuesOf(in))
}

// Update changes the supplied fields of the caller's employer profile.
func (s *EmployerService) Update(ctx context.Context, id *auth.Identity, patch EmployerPatch) (*domain.Employer, error) {
	patch.Description = s.sanitizeNullable(patch.Description)
	return s.update(ctx, id, patch.values())
}

// Delete removes the caller's employer profile and, through the store, its jobs.
func (s *EmployerService) Delete(ctx context.Context, id *auth.Identity) error {
	return s.delete(ctx, id)
}

// ListJobs returns every posting of the caller's company regardless of status,
// newest first. A failed read yields an empty list.
func (s *EmployerService) ListJobs(ctx context.Context, id *auth.Identity) ([]domain.Job, error) {
	sc := s.scope(id)
	employerID, err := ResolveOwner(ctx, sc, id.Subject, domain.ProfileEmployer)
	if err != nil {
		return nil, err
	}
	jobs, err := store.For[domain.Job](sc, domain.TableJobs).List(ctx,
		store.Where().Eq("employer_id", employerID).OrderBy("created_at", true))
	if err != nil {
		s.log(ctx).WarnContext(ctx, "listing employer jobs failed", "error", redact.Error(err))
		return []domain.Job{}, nil
	}
	return nonNil(jobs), nil
}

// nonNil guarantees lists encode as [] rather than null.
func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
