package models

import "time"

const (
	ExportStatusPending   = "pending"
	ExportStatusCompleted = "completed"
)

// Export records one notes export written to object storage.
type Export struct {
	ID         string
	UserID     string
	StorageKey string
	NoteCount  int
	Status     string
	CreatedAt  time.Time
}
