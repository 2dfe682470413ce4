package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
)

type fakeUsers struct {
	registerFn       func(ctx context.Context, name, email, password string) (*models.User, error)
	loginFn          func(ctx context.Context, email, password string) (*services.LoginResult, error)
	refreshFn        func(ctx context.Context, token string) (*services.TokenPair, error)
	changePasswordFn func(ctx context.Context, userID, oldPassword, newPassword string) error
	deleteAccountFn  func(ctx context.Context, userID, password string) error
}

func (f *fakeUsers) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return f.registerFn(ctx, name, email, password)
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeUsers) RefreshToken(ctx context.Context, token string) (*services.TokenPair, error) {
	return f.refreshFn(ctx, token)
}

func (f *fakeUsers) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return f.changePasswordFn(ctx, userID, oldPassword, newPassword)
}

func (f *fakeUsers) DeleteAccount(ctx context.Context, userID, password string) error {
	return f.deleteAccountFn(ctx, userID, password)
}

type fakeNotes struct {
	listFn   func(ctx context.Context, userID string) ([]*models.Note, error)
	createFn func(ctx context.Context, userID, title, content string) (*models.Note, error)
	updateFn func(ctx context.Context, userID, noteID, title, content string) (*models.Note, error)
	deleteFn func(ctx context.Context, userID, noteID string) error
}

func (f *fakeNotes) List(ctx context.Context, userID string) ([]*models.Note, error) {
	return f.listFn(ctx, userID)
}

func (f *fakeNotes) Create(ctx context.Context, userID, title, content string) (*models.Note, error) {
	return f.createFn(ctx, userID, title, content)
}

func (f *fakeNotes) Update(ctx context.Context, userID, noteID, title, content string) (*models.Note, error) {
	return f.updateFn(ctx, userID, noteID, title, content)
}

func (f *fakeNotes) Delete(ctx context.Context, userID, noteID string) error {
	return f.deleteFn(ctx, userID, noteID)
}

type fakeExports struct {
	exportFn func(ctx context.Context, userID string) (*services.ExportResult, error)
	listFn   func(ctx context.Context, userID string) ([]*models.Export, error)
	linkFn   func(ctx context.Context, userID, exportID string) (*services.ExportResult, error)
}

func (f *fakeExports) Export(ctx context.Context, userID string) (*services.ExportResult, error) {
	return f.exportFn(ctx, userID)
}

func (f *fakeExports) List(ctx context.Context, userID string) ([]*models.Export, error) {
	return f.listFn(ctx, userID)
}

func (f *fakeExports) Link(ctx context.Context, userID, exportID string) (*services.ExportResult, error) {
	return f.linkFn(ctx, userID, exportID)
}
