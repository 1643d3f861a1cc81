package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/domain"
	"github.com/carehire/carehire-api/internal/store"
)

// ownerRef is the projection of an owner profile row needed to gate access.
type ownerRef struct {
	ID uuid.UUID `json:"id"`
}

// findOwner looks up the caller's profile id of kind with one keyed lookup.
// found is false when the subject has no such profile.
func findOwner(ctx context.Context, s store.Scope, subject uuid.UUID, kind domain.ProfileKind) (uuid.UUID, bool, error) {
	ref, err := store.For[ownerRef](s, kind.Table()).Maybe(ctx, store.Where().Eq("user_id", subject))
	if err != nil {
		return uuid.Nil, false, apperr.FromStore(err, kind.Label()+" profile")
	}
	if ref == nil {
		return uuid.Nil, false, nil
	}
	return ref.ID, true, nil
}

// ResolveOwner returns the caller's profile id of kind. A subject without a
// profile fails with a PROFILE_NOT_FOUND error; no profile is ever created
// implicitly. The id is resolved on every call and never cached.
func ResolveOwner(ctx context.Context, s store.Scope, subject uuid.UUID, kind domain.ProfileKind) (uuid.UUID, error) {
	id, found, err := findOwner(ctx, s, subject, kind)
	if err != nil {
		return uuid.Nil, err
	}
	if !found {
		return uuid.Nil, apperr.ProfileNotFound(kind.Label())
	}
	return id, nil
}

// ownedRow is the projection used for ownership checks on seeker-owned rows.
type ownedRow struct {
	ID          uuid.UUID `json:"id"`
	JobSeekerID uuid.UUID `json:"job_seeker_id"`
}

// fetchOwned loads the row id of table and verifies that it belongs to
// seekerID. A missing row is NotFound; a row of another seeker is Forbidden.
func fetchOwned(ctx context.Context, s store.Scope, table, label string, id, seekerID uuid.UUID) error {
	forbidden := "You do not have access to this " + strings.ToLower(label)
	row, err := store.For[ownedRow](s, table).Maybe(ctx, store.Where().Eq("id", id))
	if err != nil {
		return apperr.FromStore(err, label)
	}
	if row == nil {
		return missingRow(ctx, s, table, label, id, forbidden)
	}
	if row.JobSeekerID != seekerID {
		return apperr.Forbidden(forbidden)
	}
	return nil
}

// missingRow explains a lookup of id in table that found nothing. Row-level
// security hides rows of other owners, so the row_owner procedure decides:
// a row that exists is Forbidden, one that does not is NotFound.
func missingRow(ctx context.Context, s store.Scope, table, label string, id uuid.UUID, forbidden string) error {
	owner, err := store.Call[*uuid.UUID](ctx, s, domain.RPCRowOwner, store.Values{"target": table, "row_id": id})
	if err != nil {
		return apperr.FromStore(err, label)
	}
	if owner == nil {
		return apperr.NotFound(label)
	}
	return apperr.Forbidden(forbidden)
}
