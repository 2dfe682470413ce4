package keywrap

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"golang.org/x/sync/semaphore"
)

// Deriver runs DeriveKEK with fixed parameters and caps the number of
// derivations in flight. Every Argon2id call allocates Params.Memory KiB, so
// the cap is what keeps a burst of logins from exhausting memory.
type Deriver struct {
	params Params
	sem    *semaphore.Weighted
}

// NewDeriver returns a Deriver allowing at most maxConcurrent derivations at
// a time. Values below 1 are treated as 1.
func NewDeriver(p Params, maxConcurrent int64) *Deriver {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Deriver{params: p, sem: semaphore.NewWeighted(maxConcurrent)}
}

// Params returns the Argon2id parameters used by d.
func (d *Deriver) Params() Params {
	return d.params
}

// Derive waits for a free slot and derives the KEK for secret and salt.
// If ctx ends while waiting, ctx.Err() is returned and nothing is derived.
func (d *Deriver) Derive(ctx context.Context, secret, salt []byte) ([]byte, error) {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer d.sem.Release(1)

	return DeriveKEK(secret, salt, d.params)
}

// Seal derives the KEK for secret and salt and wraps dataKey under it.
func (d *Deriver) Seal(ctx context.Context, secret, salt, dataKey []byte) (string, error) {
	kek, err := d.Derive(ctx, secret, salt)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(kek)

	return Wrap(dataKey, kek)
}

// Open derives the KEK for secret and salt and unwraps wrapped with it.
// The format is checked first so a corrupt record never costs a derivation.
func (d *Deriver) Open(ctx context.Context, secret, salt []byte, wrapped string) ([]byte, error) {
	if err := Validate(wrapped); err != nil {
		return nil, err
	}

	kek, err := d.Derive(ctx, secret, salt)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(kek)

	return Unwrap(wrapped, kek)
}
