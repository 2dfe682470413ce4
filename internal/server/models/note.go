package models

import "time"

// Note is stored exactly as the client sent it. Title and Content are
// normally ciphertext produced with the owner's data key.
type Note struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
