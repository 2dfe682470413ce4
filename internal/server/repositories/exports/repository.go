// Package exports records notes exports written to object storage so they
// can be listed and re-linked later.
package exports

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type Repository interface {
	// Create inserts a pending export row and fills in ID and CreatedAt.
	Create(ctx context.Context, export *models.Export) (*models.Export, error)
	// MarkUploaded flips an export to completed once the object is stored.
	MarkUploaded(ctx context.Context, id string) error
	// ListByUser returns the user's completed exports, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Export, error)
	GetByID(ctx context.Context, userID, id string) (*models.Export, error)
}
