package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tables for saved jobs and uploaded documents.
const (
	TableSavedJobs = "saved_jobs"
	TableDocuments = "documents"

	MaxDocuments = 10
)

// SavedJob bookmarks a job for a job seeker. Job is filled in when listing
// and stays null if the job could not be loaded.
type SavedJob struct {
	ID          uuid.UUID `json:"id"`
	JobSeekerID uuid.UUID `json:"job_seeker_id"`
	JobID       uuid.UUID `json:"job_id"`
	CreatedAt   time.Time `json:"created_at"`
	Job         *Job      `json:"job"`
}

// Document types accepted for Document.DocumentType.
var DocumentTypes = []string{"resume", "license", "certificate", "transcript", "other"}

// Document is metadata for a file a job seeker stored in object storage under
// StorageKey.
type Document struct {
	ID           uuid.UUID `json:"id"`
	JobSeekerID  uuid.UUID `json:"job_seeker_id"`
	Name         string    `json:"name"`
	DocumentType string    `json:"document_type"`
	MimeType     string    `json:"mime_type"`
	FileSize     int64     `json:"file_size"`
	StorageKey   string    `json:"storage_key"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DocumentKey returns the object key for a seeker's document.
func DocumentKey(seekerID, documentID uuid.UUID, name string) string {
	return "documents/" + seekerID.String() + "/" + documentID.String() + "/" + name
}
