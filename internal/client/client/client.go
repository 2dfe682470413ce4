package client

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Logout()
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context, password string) error
	ListNotes(ctx context.Context) ([]*models.EncryptedNote, error)
	CreateNote(ctx context.Context, title, content string) (*models.EncryptedNote, error)
	UpdateNote(ctx context.Context, id, title, content string) (*models.EncryptedNote, error)
	DeleteNote(ctx context.Context, id string) error
	ExportNotes(ctx context.Context) (*models.Export, error)
	ListExports(ctx context.Context) ([]*models.Export, error)
	GetExportLink(ctx context.Context, id string) (*models.Export, error)
}
