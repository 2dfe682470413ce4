// Package users declares and implements persistence of user accounts and
// their wrapped data keys.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in ID and CreatedAt. A taken email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// UpdateCredentials replaces the verifier, the KEK salt and the wrapped
	// key in one statement so the three never disagree.
	UpdateCredentials(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}
