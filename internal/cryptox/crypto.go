// Package cryptox holds the password verifier used by the server and the
// note encryption used by the client.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// ErrCiphertext is returned when a note field cannot be decrypted.
var ErrCiphertext = errors.New("cannot decrypt text")

// HashPassword returns the bcrypt verifier for password. Costs outside
// bcrypt's range fall back to DefaultBcryptCost.
func HashPassword(password []byte, cost int) ([]byte, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return bcrypt.GenerateFromPassword(password, cost)
}

// CheckPassword reports whether password matches the bcrypt verifier hash.
func CheckPassword(hash, password []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, password) == nil
}

// dummyHash is compared against when a login names an unknown account, so
// both paths cost one bcrypt evaluation.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("gophnotes-dummy-password"), DefaultBcryptCost)

// BurnPasswordCheck spends the same time as CheckPassword against a real
// verifier and always reports false.
func BurnPasswordCheck(password []byte) bool {
	_ = bcrypt.CompareHashAndPassword(dummyHash, password)
	return false
}

// EncryptText encrypts plaintext under the 32-byte data key with AES-256-GCM
// and returns base64(nonce || ciphertext). A new nonce is drawn every call.
func EncryptText(plaintext string, key []byte) (string, error) {
	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := common.GenerateRandByteArray(aead.NonceSize())
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptText reverses EncryptText. Any decoding or authentication failure
// is reported as ErrCiphertext.
func DecryptText(ciphertext string, key []byte) (string, error) {
	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrCiphertext
	}
	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return "", ErrCiphertext
	}

	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrCiphertext
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("data key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
