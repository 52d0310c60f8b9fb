package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/stellarburgers/internal/client/models"
)

// failure prefers the message the state recorded over the raw error.
func failure(stateErr string, err error) error {
	if stateErr != "" {
		return errors.New(stateErr)
	}
	return err
}

// Register prompts for email, name and password and creates an account.
// A successful registration also logs the user in.
func (a *App) Register(ctx context.Context) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	name, err := a.ask("Name")
	if err != nil {
		return err
	}
	password, err := a.askSecret("Password")
	if err != nil {
		return err
	}

	req := models.RegisterRequest{Email: email, Name: name, Password: password}
	if err := a.store.Register(ctx, req); err != nil {
		return failure(a.store.Snapshot().Session.Error, err)
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", name)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	password, err := a.askSecret("Password")
	if err != nil {
		return err
	}

	if err := a.store.Login(ctx, models.LoginRequest{Email: email, Password: password}); err != nil {
		return failure(a.store.Snapshot().Session.Error, err)
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", a.store.Snapshot().Session.User.Name)
	return nil
}

// Logout always ends the local session; a failed remote call is reported
// but the credentials are gone either way.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Logout(ctx); err != nil {
		return failure(a.store.Snapshot().Session.Error, err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Profile shows the current user and lets them change name and email.
// Empty answers keep the current value.
func (a *App) Profile(ctx context.Context) error {
	user := a.store.Snapshot().Session.User
	if user == nil {
		return errors.New("not logged in")
	}
	fmt.Fprintf(a.out, "Name:  %s\nEmail: %s\n", user.Name, user.Email)

	name, err := a.ask("New name (empty to keep)")
	if err != nil {
		return err
	}
	email, err := a.ask("New email (empty to keep)")
	if err != nil {
		return err
	}
	if name == "" && email == "" {
		return nil
	}

	if err := a.store.UpdateProfile(ctx, models.ProfileUpdate{Name: name, Email: email}); err != nil {
		return failure(a.store.Snapshot().Session.Error, err)
	}
	fmt.Fprintln(a.out, "Profile updated")
	return nil
}

// ForgotPassword runs both recovery steps: request a code by email, then
// set a new password with it.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	if err := a.store.RequestPasswordReset(ctx, email); err != nil {
		return failure(a.store.Snapshot().Session.Error, err)
	}

	code, err := a.ask("Code from the email")
	if err != nil {
		return err
	}
	password, err := a.askSecret("New password")
	if err != nil {
		return err
	}
	if err := a.store.ResetPassword(ctx, password, code); err != nil {
		return failure(a.store.Snapshot().Session.Error, err)
	}
	fmt.Fprintln(a.out, "Password changed, you can log in now")
	return nil
}
