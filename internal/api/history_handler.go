package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/domain"
	"github.com/carehire/carehire-api/internal/service"
	"github.com/carehire/carehire-api/internal/service/auth"
)

// collectionService is the operation set shared by the capped profile
// history collections.
type collectionService[T, In any] interface {
	List(ctx context.Context, id *auth.Identity) ([]T, error)
	Create(ctx context.Context, id *auth.Identity, in In) (*T, error)
	Update(ctx context.Context, id *auth.Identity, entryID uuid.UUID, in In) (*T, error)
	Delete(ctx context.Context, id *auth.Identity, entryID uuid.UUID) error
}

var (
	_ collectionService[domain.Education, service.EducationInput]         = (*service.EducationService)(nil)
	_ collectionService[domain.Experience, service.ExperienceInput]       = (*service.ExperienceService)(nil)
	_ collectionService[domain.Certification, service.CertificationInput] = (*service.CertificationService)(nil)
)

// CollectionHandler serves one history collection of the caller's profile:
// education, experience or certifications.
type CollectionHandler[T, In any] struct {
	handler
	svc   collectionService[T, In]
	label string
}

// NewCollectionHandler creates a CollectionHandler. label names one entry in
// log lines and messages, e.g. "Education entry".
func NewCollectionHandler[T, In any](svc collectionService[T, In], label string, faults *shared.FaultHandler, log *slog.Logger) *CollectionHandler[T, In] {
	return &CollectionHandler[T, In]{
		handler: newHandler(faults, log, "collection_handler"),
		svc:     svc,
		label:   label,
	}
}

// Routes registers the collection routes on r.
func (h *CollectionHandler[T, In]) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List handles GET on the collection.
func (h *CollectionHandler[T, In]) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, entries)
}

// Create handles POST on the collection.
func (h *CollectionHandler[T, In]) Create(w http.ResponseWriter, r *http.Request) {
	var in In
	if err := shared.Bind(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	entry, err := h.svc.Create(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, entry)
}

// Update handles PUT on one entry.
func (h *CollectionHandler[T, In]) Update(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in In
	if err := shared.Bind(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	entry, err := h.svc.Update(r.Context(), caller(r), entryID, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, entry)
}

// Delete handles DELETE on one entry.
func (h *CollectionHandler[T, In]) Delete(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), caller(r), entryID); err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, h.label+" deleted successfully")
}
