package models

import "time"

// Export describes a stored notes export. URL is only set when a download
// link was requested and is valid until ExpiresAt.
type Export struct {
	ID        string
	Key       string
	URL       string
	NoteCount int
	CreatedAt time.Time
	ExpiresAt time.Time
}
