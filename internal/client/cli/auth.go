package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
)

var errPasswordMismatch = errors.New("passwords do not match")

// readNewPassword asks for a password twice. The returned slice must be
// wiped by the caller.
func (a *App) readNewPassword(prompt string) ([]byte, error) {
	password, err := getPassword(prompt, a.out)
	if err != nil {
		return nil, err
	}
	confirm, err := getPassword("Repeat password", a.out)
	if err != nil {
		common.WipeByteArray(password)
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		common.WipeByteArray(password)
		return nil, errPasswordMismatch
	}
	return password, nil
}

// Register prompts for name, email and password and creates the account.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := a.readNewPassword("Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.authService.Register(ctx, name, email, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "User registered successfully, you can log in now")
	return nil
}

// Login authenticates and keeps the returned data key for this session.
// A previous session is cleared first.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	session, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.clearSession()
	a.dataKey = session.DataKey
	a.userName = session.Email
	if a.userName == "" {
		a.userName = email
	}

	fmt.Fprintf(a.out, "Welcome, %s\n", session.Name)
	return nil
}

// Logout wipes the data key and drops the tokens.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	a.authService.Logout(ctx)
	a.clearSession()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// ChangePassword re-wraps the data key under the new password. The
// session stays valid since the data key itself does not change.
func (a *App) ChangePassword(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	oldPassword, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := a.readNewPassword("New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.authService.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Password updated")
	return nil
}

// DeleteAccount removes the account and all notes after the user confirms.
func (a *App) DeleteAccount(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	answer, err := getSimpleText(a.reader, "This deletes your account and all notes. Type 'yes' to continue", a.out)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.authService.DeleteAccount(ctx, password); err != nil {
		return err
	}

	a.clearSession()
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}
