package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fotogen/internal/client/identity"
	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/client/router"
	"github.com/dmitrijs2005/fotogen/internal/client/session"
	"github.com/dmitrijs2005/fotogen/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SignIn: interactive sign-in, then navigation to the saved redirect
//     intent (cleared after navigating) or to the home route.
//   - SignOut: forget the account and all session state.
//   - Current: the signed-in identity, or nil.
//   - Token: an access token for the API, "" when none can be had.
//   - AuthStatus: the answer the router needs on every navigation.
type AuthService interface {
	SignIn(ctx context.Context) (*models.Identity, error)
	SignOut(ctx context.Context) error
	Current(ctx context.Context) (*models.Identity, error)
	Token(ctx context.Context) (string, error)
	AuthStatus(ctx context.Context) (known, authenticated bool, err error)
}

// currentIdentityProvider is implemented by providers that can enrich a
// cached account with token claims.
type currentIdentityProvider interface {
	CurrentIdentity(ctx context.Context) (*models.Identity, error)
}

type authService struct {
	provider identity.Provider
	store    *session.Store
	nav      router.Navigator
	log      logging.Logger

	mu      sync.Mutex
	current *models.Identity
}

func NewAuthService(provider identity.Provider, store *session.Store, nav router.Navigator, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop{}
	}
	return &authService{provider: provider, store: store, nav: nav, log: log}
}

func (a *authService) setCurrent(id *models.Identity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = id
}

func (a *authService) cached() *models.Identity {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// SignIn does not retry on failure. After success the redirect intent is
// read again here, since the resolver may not have seen it yet.
func (a *authService) SignIn(ctx context.Context) (*models.Identity, error) {
	id, err := a.provider.SignIn(ctx)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	a.setCurrent(id)

	intent, err := a.store.RedirectPath(ctx)
	if err != nil {
		a.log.Warn(ctx, "redirect intent unreadable", "error", err)
		intent = ""
	}

	target := router.UsableIntent(intent)
	if target == "" {
		if err := a.nav.Navigate(ctx, router.RouteHome); err != nil {
			return id, fmt.Errorf("navigate home: %w", err)
		}
		if intent != "" {
			if err := a.store.ClearRedirectPath(ctx); err != nil {
				a.log.Warn(ctx, "failed to clear unusable redirect intent", "error", err)
			}
		}
		return id, nil
	}

	if err := a.nav.Navigate(ctx, target); err != nil {
		return id, fmt.Errorf("navigate to %s: %w", target, err)
	}
	if err := a.store.ClearRedirectPath(ctx); err != nil {
		return id, fmt.Errorf("clear redirect intent: %w", err)
	}
	a.log.Info(ctx, "redirected after sign-in", "path", target)
	return id, nil
}

func (a *authService) SignOut(ctx context.Context) error {
	a.setCurrent(nil)
	if err := a.provider.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	return nil
}

func (a *authService) Current(ctx context.Context) (*models.Identity, error) {
	if id := a.cached(); id != nil {
		return id, nil
	}

	var id *models.Identity
	if p, ok := a.provider.(currentIdentityProvider); ok {
		cur, err := p.CurrentIdentity(ctx)
		if err != nil {
			if errors.Is(err, identity.ErrNoAccount) {
				return nil, nil
			}
			return nil, err
		}
		id = cur
	} else {
		accounts, err := a.provider.Accounts(ctx)
		if err != nil {
			return nil, err
		}
		if len(accounts) == 0 {
			return nil, nil
		}
		id = &accounts[0]
	}

	a.setCurrent(id)
	return id, nil
}

// Token implements client.TokenSource. Failures degrade to "" so the request
// still goes out and the backend decides.
func (a *authService) Token(ctx context.Context) (string, error) {
	id, err := a.Current(ctx)
	if err != nil || id == nil {
		return "", nil
	}
	tok, err := a.provider.AcquireTokenSilent(ctx, *id)
	if err != nil {
		a.log.Warn(ctx, "silent token acquisition failed", "error", err)
		return "", nil
	}
	return tok, nil
}

func (a *authService) AuthStatus(ctx context.Context) (bool, bool, error) {
	if a.cached() != nil {
		return true, true, nil
	}
	accounts, err := a.provider.Accounts(ctx)
	if err != nil {
		return false, false, err
	}
	return true, len(accounts) > 0, nil
}
