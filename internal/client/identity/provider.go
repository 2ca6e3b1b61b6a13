// Package identity signs users in against Microsoft Entra ID and hands out
// access tokens for the FotoGen API.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
)

var (
	ErrNoAccount     = errors.New("no signed-in account")
	ErrNotConfigured = errors.New("identity provider is not configured")
)

// Provider is the authentication collaborator. It is opaque to the rest of
// the client: callers never see protocol details.
type Provider interface {
	// Accounts lists the accounts with cached credentials.
	Accounts(ctx context.Context) ([]models.Identity, error)
	// AcquireTokenSilent returns an API access token for id without user
	// interaction.
	AcquireTokenSilent(ctx context.Context, id models.Identity) (string, error)
	// SignIn runs an interactive challenge.
	SignIn(ctx context.Context) (*models.Identity, error)
	// SignOut forgets every cached account.
	SignOut(ctx context.Context) error
}

type SignInMode string

const (
	SignInInteractive SignInMode = "interactive"
	SignInDeviceCode  SignInMode = "device"
)

func ParseSignInMode(s string) (SignInMode, error) {
	switch SignInMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SignInInteractive:
		return SignInInteractive, nil
	case SignInDeviceCode:
		return SignInDeviceCode, nil
	default:
		return "", fmt.Errorf("unknown sign-in mode %q", s)
	}
}
