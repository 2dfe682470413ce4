// Package services contains application services for the gophnotes CLI.
// This file defines the account service: register, login, logout,
// password change and account deletion.
package services

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// AuthService defines account operations for the CLI. Passwords are taken
// as byte slices so callers can wipe them after use.
type AuthService interface {
	Register(ctx context.Context, name, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Logout(ctx context.Context)
	ChangePassword(ctx context.Context, oldPassword, newPassword []byte) error
	DeleteAccount(ctx context.Context, password []byte) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
}

func NewAuthService(client client.Client) AuthService {
	return &authService{client: client}
}

func (a *authService) Register(ctx context.Context, name, email string, password []byte) error {
	return a.client.Register(ctx, name, email, string(password))
}

// Login returns the session holding the plaintext data key. The caller owns
// the key and must wipe it on logout.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	return a.client.Login(ctx, email, string(password))
}

func (a *authService) Logout(ctx context.Context) {
	a.client.Logout()
}

func (a *authService) ChangePassword(ctx context.Context, oldPassword, newPassword []byte) error {
	return a.client.ChangePassword(ctx, string(oldPassword), string(newPassword))
}

func (a *authService) DeleteAccount(ctx context.Context, password []byte) error {
	return a.client.DeleteAccount(ctx, string(password))
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
