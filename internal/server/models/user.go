// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account row. PasswordHash is a bcrypt verifier, KEKSalt salts
// the Argon2id derivation and WrappedKey is the user's data key sealed
// under that KEK ("<iv hex>:<ciphertext hex>").
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
	KEKSalt      []byte
	WrappedKey   string
	CreatedAt    time.Time
}
