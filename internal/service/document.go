package service

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/domain"
	"github.com/carehire/carehire-api/internal/platform/storage"
	"github.com/carehire/carehire-api/internal/redact"
	"github.com/carehire/carehire-api/internal/service/auth"
	"github.com/carehire/carehire-api/internal/store"
)

// MaxDocumentSize is the largest file, in bytes, a seeker may register.
const MaxDocumentSize = 10 << 20

// DocumentInput registers a file the caller is about to upload.
type DocumentInput struct {
	Name         string `json:"name" validate:"required,max=255"`
	DocumentType string `json:"document_type" validate:"required,oneof=resume license certificate transcript other"`
	MimeType     string `json:"mime_type" validate:"required,oneof=application/pdf image/jpeg image/png application/msword application/vnd.openxmlformats-officedocument.wordprocessingml.document"`
	FileSize     int64  `json:"file_size" validate:"required,gt=0,lte=10485760"`
}

// DocumentUpload is a registered document and the URL its bytes go to.
type DocumentUpload struct {
	domain.Document
	UploadURL string `json:"upload_url"`
}

// DocumentDownload is a time-limited URL serving a stored document.
type DocumentDownload struct {
	DocumentID  uuid.UUID `json:"document_id"`
	Name        string    `json:"name"`
	DownloadURL string    `json:"download_url"`
}

var errStorageDisabled = apperr.Unavailable(apperr.CodeStorageNotEnabled, "Document storage is not available")

// DocumentService manages the caller's uploaded documents.
type DocumentService struct {
	base
}

// NewDocumentService creates a DocumentService.
func NewDocumentService(d Deps) *DocumentService {
	return &DocumentService{base: newBase(d, "document_service")}
}

func (s *DocumentService) repo(sc store.Scope) store.Repository[domain.Document] {
	return store.For[domain.Document](sc, domain.TableDocuments)
}

// List returns the caller's documents, newest first. A failed read yields an
// empty list.
func (s *DocumentService) List(ctx context.Context, id *auth.Identity) ([]domain.Document, error) {
	sc := s.scope(id)
	seekerID, err := ResolveOwner(ctx, sc, id.Subject, domain.ProfileJobSeeker)
	if err != nil {
		return nil, err
	}
	docs, err := s.repo(sc).List(ctx, store.Where().Eq("job_seeker_id", seekerID).OrderBy("created_at", true))
	if err != nil {
		s.log(ctx).WarnContext(ctx, "listing documents failed", "error", redact.Error(err))
		return []domain.Document{}, nil
	}
	return nonNil(docs), nil
}

// Create registers a document and returns a presigned upload URL for it. The
// row is written only once a URL could be issued.
func (s *DocumentService) Create(ctx context.Context, id *auth.Identity, in DocumentInput) (*DocumentUpload, error) {
	sc := s.scope(id)
	seekerID, err := ResolveOwner(ctx, sc, id.Subject, domain.ProfileJobSeeker)
	if err != nil {
		return nil, err
	}

	repo := s.repo(sc)
	n, err := repo.Count(ctx, store.Where().Eq("job_seeker_id", seekerID))
	if err != nil {
		return nil, apperr.FromStore(err, "Document")
	}
	if n >= domain.MaxDocuments {
		return nil, apperr.MaxEntries("document", domain.MaxDocuments)
	}

	docID := uuid.New()
	name := cleanFileName(in.Name)
	key := domain.DocumentKey(seekerID, docID, name)

	url, err := s.objects.PresignUpload(ctx, key, in.MimeType)
	if err != nil {
		return nil, s.storageError(err)
	}

	doc, err := repo.Insert(ctx, store.Values{
		"id":            docID,
		"job_seeker_id": seekerID,
		"name":          name,
		"document_type": in.DocumentType,
		"mime_type":     in.MimeType,
		"file_size":     in.FileSize,
		"storage_key":   key,
	})
	if err != nil {
		return nil, apperr.FromStore(err, "Document")
	}
	s.log(ctx).InfoContext(ctx, "document registered", "document_id", doc.ID)
	return &DocumentUpload{Document: *doc, UploadURL: url}, nil
}

// Download returns a presigned URL for one of the caller's documents.
func (s *DocumentService) Download(ctx context.Context, id *auth.Identity, docID uuid.UUID) (*DocumentDownload, error) {
	sc := s.scope(id)
	doc, err := s.owned(ctx, sc, id, docID)
	if err != nil {
		return nil, err
	}
	url, err := s.objects.PresignDownload(ctx, doc.StorageKey)
	if err != nil {
		return nil, s.storageError(err)
	}
	return &DocumentDownload{DocumentID: doc.ID, Name: doc.Name, DownloadURL: url}, nil
}

// Delete removes one of the caller's documents. The stored object is removed
// afterwards on a best-effort basis.
func (s *DocumentService) Delete(ctx context.Context, id *auth.Identity, docID uuid.UUID) error {
	sc := s.scope(id)
	doc, err := s.owned(ctx, sc, id, docID)
	if err != nil {
		return err
	}
	if err := s.repo(sc).Delete(ctx, store.Where().Eq("id", docID)); err != nil {
		return apperr.FromStore(err, "Document")
	}
	if err := s.objects.Delete(ctx, doc.StorageKey); err != nil && !errors.Is(err, storage.ErrDisabled) {
		s.log(ctx).WarnContext(ctx, "removing stored object failed",
			"document_id", docID, "error", redact.Error(err))
	}
	return nil
}

func (s *DocumentService) owned(ctx context.Context, sc store.Scope, id *auth.Identity, docID uuid.UUID) (*domain.Document, error) {
	seekerID, err := ResolveOwner(ctx, sc, id.Subject, domain.ProfileJobSeeker)
	if err != nil {
		return nil, err
	}
	const forbidden = "You do not have access to this document"
	doc, err := s.repo(sc).Maybe(ctx, store.Where().Eq("id", docID))
	if err != nil {
		return nil, apperr.FromStore(err, "Document")
	}
	if doc == nil {
		return nil, missingRow(ctx, sc, domain.TableDocuments, "Document", docID, forbidden)
	}
	if doc.JobSeekerID != seekerID {
		return nil, apperr.Forbidden(forbidden)
	}
	return doc, nil
}

func (s *DocumentService) storageError(err error) error {
	if errors.Is(err, storage.ErrDisabled) {
		return errStorageDisabled
	}
	return apperr.Internal(err)
}

// cleanFileName reduces a client-supplied name to a single safe path segment.
func cleanFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f, r == '?', r == '#', r == '%':
			return '_'
		}
		return r
	}, name)
	if name == "." || name == ".." || name == "/" || name == "" {
		return "document"
	}
	return name
}
