// Package keywrap protects each user's note data key at rest.
//
// A random 32-byte data key is generated once per user. It is wrapped
// (encrypted) under a key-encryption-key (KEK) derived with Argon2id from the
// user's password and a per-user salt, and only the wrapped form is stored:
//
//	<hex-IV>:<hex-ciphertext>
//
// The IV is 16 random bytes drawn fresh for every Wrap call. The cipher is
// AES-256-GCM with a 16-byte nonce, so the ciphertext (data key plus the
// 16-byte authentication tag) is always a whole number of AES blocks and a
// wrong KEK or a tampered value is rejected instead of decrypting to garbage.
//
// All functions are pure and safe for concurrent use. DeriveKEK is slow on
// purpose; use Deriver to bound how many derivations run at once.
package keywrap

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// DataKeySize is the length of a user's data key.
	DataKeySize = 32
	// KEKSize is the length of a derived key-encryption-key (AES-256).
	KEKSize = 32
	// IVSize is the length of the random IV stored in front of the ciphertext.
	IVSize = 16
	// SaltSize is the length of the per-user KEK salt.
	SaltSize = 16
	// TagSize is the length of the GCM authentication tag.
	TagSize = 16

	// Context is mixed into every derivation and authenticated with every
	// wrap so keys from this scheme cannot be confused with other uses of the
	// same password.
	Context = "gophnotes/kek/v1"

	delimiter = ":"
)

var (
	// ErrMalformedWrappedKey means the stored value does not follow the
	// <hex-IV>:<hex-ciphertext> format.
	ErrMalformedWrappedKey = errors.New("malformed wrapped key")

	// ErrDerivation means the KDF could not run with the given inputs.
	ErrDerivation = errors.New("key derivation failure")

	// ErrDecryption means the ciphertext did not authenticate under the KEK:
	// either the password was wrong or the stored value was altered. Callers
	// must report it exactly like invalid credentials.
	ErrDecryption = errors.New("wrapped key decryption failure")

	// ErrInvalidKey means a data key or KEK has the wrong length.
	ErrInvalidKey = errors.New("invalid key length")
)

// Params are the Argon2id cost parameters. Memory is in KiB.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultParams: one pass over 64 MiB with 4 lanes.
var DefaultParams = Params{Time: 1, Memory: 64 * 1024, Threads: 4}

func (p Params) validate() error {
	if p.Time < 1 {
		return fmt.Errorf("%w: time must be at least 1", ErrDerivation)
	}
	if p.Threads < 1 {
		return fmt.Errorf("%w: threads must be at least 1", ErrDerivation)
	}
	if p.Memory < 8*uint32(p.Threads) {
		return fmt.Errorf("%w: memory must be at least 8 KiB per thread", ErrDerivation)
	}
	return nil
}

// GenerateDataKey returns a fresh random data key. It panics if the system
// entropy source fails.
func GenerateDataKey() []byte {
	return common.GenerateRandByteArray(DataKeySize)
}

// GenerateSalt returns a fresh random per-user KEK salt.
func GenerateSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// DeriveKEK stretches secret into a KEKSize key with Argon2id. The Argon2
// salt is Context followed by salt. The same inputs always give the same KEK.
func DeriveKEK(secret, salt []byte, p Params) ([]byte, error) {
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", ErrDerivation)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	s := make([]byte, 0, len(Context)+len(salt))
	s = append(s, Context...)
	s = append(s, salt...)

	return argon2.IDKey(secret, s, p.Time, p.Memory, p.Threads, KEKSize), nil
}

func newAEAD(kek []byte) (cipher.AEAD, error) {
	if len(kek) != KEKSize {
		return nil, fmt.Errorf("%w: KEK must be %d bytes, got %d", ErrInvalidKey, KEKSize, len(kek))
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, IVSize)
}

// Wrap encrypts dataKey under kek with a new random IV and returns the
// storable <hex-IV>:<hex-ciphertext> form.
func Wrap(dataKey, kek []byte) (string, error) {
	if len(dataKey) != DataKeySize {
		return "", fmt.Errorf("%w: data key must be %d bytes, got %d", ErrInvalidKey, DataKeySize, len(dataKey))
	}
	aead, err := newAEAD(kek)
	if err != nil {
		return "", err
	}

	iv := common.GenerateRandByteArray(IVSize)
	ciphertext := aead.Seal(nil, iv, dataKey, []byte(Context))

	return hex.EncodeToString(iv) + delimiter + hex.EncodeToString(ciphertext), nil
}

// parse splits and decodes a wrapped value without touching any key.
func parse(wrapped string) (iv, ciphertext []byte, err error) {
	ivHex, ctHex, ok := strings.Cut(wrapped, delimiter)
	if !ok {
		return nil, nil, fmt.Errorf("%w: missing delimiter", ErrMalformedWrappedKey)
	}

	iv, err = hex.DecodeString(ivHex)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: IV is not hex", ErrMalformedWrappedKey)
	}
	if len(iv) != IVSize {
		return nil, nil, fmt.Errorf("%w: IV must be %d bytes, got %d", ErrMalformedWrappedKey, IVSize, len(iv))
	}

	ciphertext, err = hex.DecodeString(ctHex)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: ciphertext is not hex", ErrMalformedWrappedKey)
	}
	if len(ciphertext) <= TagSize || len(ciphertext)%aes.BlockSize != 0 {
		return nil, nil, fmt.Errorf("%w: bad ciphertext length %d", ErrMalformedWrappedKey, len(ciphertext))
	}

	return iv, ciphertext, nil
}

// Validate reports whether wrapped is well-formed. It does not check that
// it decrypts.
func Validate(wrapped string) error {
	_, _, err := parse(wrapped)
	return err
}

// Unwrap recovers the data key from a value produced by Wrap.
//
// It returns ErrMalformedWrappedKey when the format is broken and
// ErrDecryption when the value does not authenticate under kek.
func Unwrap(wrapped string, kek []byte) ([]byte, error) {
	iv, ciphertext, err := parse(wrapped)
	if err != nil {
		return nil, err
	}
	aead, err := newAEAD(kek)
	if err != nil {
		return nil, err
	}

	dataKey, err := aead.Open(nil, iv, ciphertext, []byte(Context))
	if err != nil {
		return nil, ErrDecryption
	}
	return dataKey, nil
}
