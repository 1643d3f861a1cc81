package service

import (
	"context"

	"github.com/oapi-codegen/nullable"

	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/domain"
	"github.com/carehire/carehire-api/internal/service/auth"
	"github.com/carehire/carehire-api/internal/store"
)

// profiles implements the singular owner-profile lifecycle shared by job
// seekers and employers. Every operation is keyed by the caller's subject.
type profiles[T any] struct {
	base
	kind domain.ProfileKind
}

func (p profiles[T]) repo(id *auth.Identity) store.Repository[T] {
	return store.For[T](p.scope(id), p.kind.Table())
}

func (p profiles[T]) bySubject(id *auth.Identity) store.Query {
	return store.Where().Eq("user_id", id.Subject)
}

func (p profiles[T]) get(ctx context.Context, id *auth.Identity) (*T, error) {
	row, err := p.repo(id).Maybe(ctx, p.bySubject(id))
	if err != nil {
		return nil, apperr.FromStore(err, p.kind.Label()+" profile")
	}
	if row == nil {
		return nil, apperr.ProfileNotFound(p.kind.Label())
	}
	return row, nil
}

// create inserts the caller's profile. An existing profile is a conflict and
// is never overwritten.
func (p profiles[T]) create(ctx context.Context, id *auth.Identity, values store.Values) (*T, error) {
	repo := p.repo(id)
	exists, err := repo.Exists(ctx, p.bySubject(id))
	if err != nil {
		return nil, apperr.FromStore(err, p.kind.Label()+" profile")
	}
	duplicate := apperr.Conflict(p.kind.Label() + " profile already exists")
	if exists {
		return nil, duplicate
	}

	values["user_id"] = id.Subject
	row, err := repo.Insert(ctx, values)
	if store.IsDuplicate(err) {
		return nil, duplicate
	}
	if err != nil {
		return nil, apperr.FromStore(err, p.kind.Label()+" profile")
	}
	p.log(ctx).InfoContext(ctx, "profile created", "kind", string(p.kind))
	return row, nil
}

func (p profiles[T]) update(ctx context.Context, id *auth.Identity, values store.Values) (*T, error) {
	if len(values) == 0 {
		return nil, errNoFields
	}
	if _, err := p.get(ctx, id); err != nil {
		return nil, err
	}
	row, err := p.repo(id).Update(ctx, p.bySubject(id), values)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperr.ProfileNotFound(p.kind.Label())
		}
		return nil, apperr.FromStore(err, p.kind.Label()+" profile")
	}
	return row, nil
}

// delete removes the caller's profile. Owned rows are removed by the store's
// cascading foreign keys.
func (p profiles[T]) delete(ctx context.Context, id *auth.Identity) error {
	if _, err := p.get(ctx, id); err != nil {
		return err
	}
	if err := p.repo(id).Delete(ctx, p.bySubject(id)); err != nil {
		if store.IsNotFound(err) {
			return apperr.ProfileNotFound(p.kind.Label())
		}
		return apperr.FromStore(err, p.kind.Label()+" profile")
	}
	p.log(ctx).InfoContext(ctx, "profile deleted", "kind", string(p.kind))
	return nil
}

// JobSeekerInput is the payload creating a job seeker profile.
type JobSeekerInput struct {
	FirstName       string  `json:"first_name" db:"first_name" validate:"required,max=100"`
	LastName        string  `json:"last_name" db:"last_name" validate:"required,max=100"`
	Profession      string  `json:"profession" db:"profession" validate:"required,max=100"`
	Location        string  `json:"location" db:"location" validate:"required,max=200"`
	Phone           *string `json:"phone" db:"phone" validate:"omitnil,max=30"`
	Bio             *string `json:"bio" db:"bio" validate:"omitnil,max=2000"`
	Specialization  *string `json:"specialization" db:"specialization" validate:"omitnil,max=100"`
	LicenseNumber   *string `json:"license_number" db:"license_number" validate:"omitnil,max=50"`
	YearsExperience *int    `json:"years_experience" db:"years_experience" validate:"omitnil,gte=0,lte=70"`
	Availability    *string `json:"availability" db:"availability" validate:"omitnil,oneof=immediate two_weeks one_month flexible"`
}

// JobSeekerPatch is the payload updating a job seeker profile. Required
// columns can be changed but not cleared; optional ones accept null.
type JobSeekerPatch struct {
	FirstName       *string                   `json:"first_name" validate:"omitnil,min=1,max=100"`
	LastName        *string                   `json:"last_name" validate:"omitnil,min=1,max=100"`
	Profession      *string                   `json:"profession" validate:"omitnil,min=1,max=100"`
	Location        *string                   `json:"location" validate:"omitnil,min=1,max=200"`
	Phone           nullable.Nullable[string] `json:"phone" validate:"omitempty,max=30"`
	Bio             nullable.Nullable[string] `json:"bio" validate:"omitempty,max=2000"`
	Specialization  nullable.Nullable[string] `json:"specialization" validate:"omitempty,max=100"`
	LicenseNumber   nullable.Nullable[string] `json:"license_number" validate:"omitempty,max=50"`
	YearsExperience nullable.Nullable[int]    `json:"years_experience" validate:"omitempty,gte=0,lte=70"`
	Availability    nullable.Nullable[string] `json:"availability" validate:"omitempty,oneof=immediate two_weeks one_month flexible"`
}

func (p JobSeekerPatch) values() store.Values {
	v := store.Values{}
	setPtr(v, "first_name", p.FirstName)
	setPtr(v, "last_name", p.LastName)
	setPtr(v, "profession", p.Profession)
	setPtr(v, "location", p.Location)
	setNullable(v, "phone", p.Phone)
	setNullable(v, "bio", p.Bio)
	setNullable(v, "specialization", p.Specialization)
	setNullable(v, "license_number", p.LicenseNumber)
	setNullable(v, "years_experience", p.YearsExperience)
	setNullable(v, "availability", p.Availability)
	return v
}

// ProfileService manages the caller's job seeker profile.
type ProfileService struct {
	profiles[domain.JobSeeker]
}

// NewProfileService creates a ProfileService.
func NewProfileService(d Deps) *ProfileService {
	return &ProfileService{profiles[domain.JobSeeker]{
		base: newBase(d, "profile_service"),
		kind: domain.ProfileJobSeeker,
	}}
}

// Get returns the caller's profile.
func (s *ProfileService) Get(ctx context.Context, id *auth.Identity) (*domain.JobSeeker, error) {
	return s.get(ctx, id)
}

// Create creates the caller's profile. A second call fails with a conflict.
func (s *ProfileService) Create(ctx context.Context, id *auth.Identity, in JobSeekerInput) (*domain.JobSeeker, error) {
	in.Bio = s.sanitizer.TextPtr(in.Bio)
	return s.create(ctx, id, store.ValuesOf(in))
}

// Update changes the supplied fields of the caller's profile.
func (s *ProfileService) Update(ctx context.Context, id *auth.Identity, patch JobSeekerPatch) (*domain.JobSeeker, error) {
	patch.Bio = s.sanitizeNullable(patch.Bio)
	return s.update(ctx, id, patch.values())
}

// Delete removes the caller's profile.
func (s *ProfileService) Delete(ctx context.Context, id *auth.Identity) error {
	return s.delete(ctx, id)
}
