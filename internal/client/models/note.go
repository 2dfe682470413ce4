// Package models holds the plain data types the CLI works with.
package models

import "time"

// EncryptedPlaceholder is shown in place of a field the data key cannot open.
const EncryptedPlaceholder = "[Encrypted]"

// Note is a decrypted note as presented to the user. Title and Content are
// EncryptedPlaceholder when decryption failed.
type Note struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EncryptedNote is a note as stored on the server: title and content are
// ciphertext produced by cryptox.EncryptText.
type EncryptedNote struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
