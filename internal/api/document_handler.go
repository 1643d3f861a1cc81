package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/service"
)

// DocumentHandler serves the caller's uploaded documents. File bytes never
// pass through the API; clients upload and download with presigned URLs.
type DocumentHandler struct {
	handler
	documents *service.DocumentService
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(documents *service.DocumentService, faults *shared.FaultHandler, log *slog.Logger) *DocumentHandler {
	return &DocumentHandler{handler: newHandler(faults, log, "document_handler"), documents: documents}
}

// Routes registers the document routes on r.
func (h *DocumentHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}/download", h.Download)
	r.Delete("/{id}", h.Delete)
}

// List handles GET /profile/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.List(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, docs)
}

// Create handles POST /profile/documents.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.DocumentInput
	if err := shared.Bind(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	upload, err := h.documents.Create(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log(r).InfoContext(r.Context(), "document registered",
		"document_id", upload.ID,
		"document_type", upload.DocumentType)
	shared.RespondWithData(w, r, http.StatusCreated, upload)
}

// Download handles GET /profile/documents/{id}/download.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	docID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	download, err := h.documents.Download(r.Context(), caller(r), docID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, download)
}

// Delete handles DELETE /profile/documents/{id}.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	docID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.documents.Delete(r.Context(), caller(r), docID); err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "Document deleted successfully")
}
