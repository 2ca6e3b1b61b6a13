package cli

import (
	"context"

	"github.com/dmitrijs2005/fotogen/internal/client/router"
)

// Login signs the user in with the identity provider. The auth service
// navigates to the saved redirect intent, or home; the page mounts on the
// next Settle.
func (a *App) Login(ctx context.Context) error {
	if id, err := a.authService.Current(ctx); err == nil && id != nil {
		a.printf("Already signed in as %s\n", id.DisplayName())
		return nil
	}

	id, err := a.authService.SignIn(ctx)
	if err != nil {
		a.log.Warn(ctx, "sign in failed", "error", err)
		a.notice(Notice{Title: "Sign In Failed", Description: err.Error(), Destructive: true})
		return err
	}

	a.printf("Signed in as %s\n", id.DisplayName())
	return nil
}

// Logout forgets the account and all session state, then shows the sign-in
// page.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.SignOut(ctx); err != nil {
		a.notice(Notice{Title: "Error", Description: err.Error(), Destructive: true})
		return err
	}
	a.trainingService.ClearSelection()

	if err := a.nav.Navigate(ctx, router.RouteLogin); err != nil {
		return err
	}
	a.println("Signed out.")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	id, err := a.authService.Current(ctx)
	if err != nil {
		return err
	}
	if id == nil {
		a.println("Not signed in.")
		return nil
	}

	a.printf("Name:     %s\n", id.DisplayName())
	if id.Username != "" {
		a.printf("Username: %s\n", id.Username)
	}
	if id.Email != "" {
		a.printf("Email:    %s\n", id.Email)
	}
	a.printf("ID:       %s\n", id.ID)
	return nil
}
