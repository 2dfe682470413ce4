// Package notes persists notes. Every query is scoped by owner so a user
// can never read or touch another user's rows.
package notes

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type Repository interface {
	// List returns the user's notes, newest first.
	List(ctx context.Context, userID string) ([]*models.Note, error)
	Get(ctx context.Context, userID, id string) (*models.Note, error)
	// Create inserts note under its caller-assigned ID and fills in the timestamps.
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	// Update overwrites title and content of an owned note and bumps
	// UpdatedAt. A missing or foreign note yields common.ErrorNotFound.
	Update(ctx context.Context, note *models.Note) (*models.Note, error)
	Delete(ctx context.Context, userID, id string) error
}
