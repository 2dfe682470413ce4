// Package refreshtokens stores the opaque refresh tokens issued at login.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	// Delete returns common.ErrorNotFound if token is not (or no longer) stored.
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) error
}
