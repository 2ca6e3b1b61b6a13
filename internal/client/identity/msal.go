package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/public"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/logging"
)

// publicClient is the subset of public.Client the provider uses.
type publicClient interface {
	Accounts(ctx context.Context) ([]public.Account, error)
	AcquireTokenSilent(ctx context.Context, scopes []string, opts ...public.AcquireSilentOption) (public.AuthResult, error)
	AcquireTokenInteractive(ctx context.Context, scopes []string, opts ...public.AcquireInteractiveOption) (public.AuthResult, error)
	AcquireTokenByDeviceCode(ctx context.Context, scopes []string, opts ...public.AcquireByDeviceCodeOption) (public.DeviceCode, error)
	RemoveAccount(ctx context.Context, account public.Account) error
}

type MSALConfig struct {
	ClientID  string
	Authority string
	// Scopes requested for the API, e.g. "<client id>/FotoGen".
	Scopes []string
	Mode   SignInMode
}

// MSALProvider implements Provider with the MSAL public client.
type MSALProvider struct {
	client publicClient
	cache  *TokenCache
	scopes []string
	mode   SignInMode
	// prompt shows device-code instructions to the user.
	prompt func(msg string)
	log    logging.Logger
}

func NewMSALProvider(cfg MSALConfig, tokenCache *TokenCache, prompt func(string), log logging.Logger) (*MSALProvider, error) {
	if cfg.ClientID == "" {
		return nil, ErrNotConfigured
	}
	opts := []public.Option{public.WithCache(tokenCache)}
	if cfg.Authority != "" {
		opts = append(opts, public.WithAuthority(cfg.Authority))
	}

	client, err := public.New(cfg.ClientID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create msal client: %w", err)
	}

	return newMSALProvider(client, tokenCache, cfg, prompt, log), nil
}

func newMSALProvider(client publicClient, tokenCache *TokenCache, cfg MSALConfig, prompt func(string), log logging.Logger) *MSALProvider {
	if prompt == nil {
		prompt = func(string) {}
	}
	if log == nil {
		log = logging.Nop{}
	}
	mode := cfg.Mode
	if mode == "" {
		mode = SignInInteractive
	}
	return &MSALProvider{
		client: client,
		cache:  tokenCache,
		scopes: cfg.Scopes,
		mode:   mode,
		prompt: prompt,
		log:    log,
	}
}

func identityFromAccount(a public.Account) models.Identity {
	return models.Identity{
		ID:            a.LocalAccountID,
		HomeAccountID: a.HomeAccountID,
		Username:      a.PreferredUsername,
	}
}

// identityFromResult prefers the token claims over the cached account data.
func (p *MSALProvider) identityFromResult(ctx context.Context, res public.AuthResult) models.Identity {
	id := identityFromAccount(res.Account)
	claims, err := ParseClaims(res.AccessToken)
	if err != nil {
		p.log.Debug(ctx, "access token carries no readable claims", "error", err)
		return id
	}
	claims.Apply(&id)
	return id
}

func (p *MSALProvider) Accounts(ctx context.Context) ([]models.Identity, error) {
	accounts, err := p.client.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]models.Identity, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, identityFromAccount(a))
	}
	return out, nil
}

func (p *MSALProvider) findAccount(ctx context.Context, homeAccountID string) (public.Account, error) {
	accounts, err := p.client.Accounts(ctx)
	if err != nil {
		return public.Account{}, fmt.Errorf("list accounts: %w", err)
	}
	for _, a := range accounts {
		if homeAccountID == "" || a.HomeAccountID == homeAccountID {
			return a, nil
		}
	}
	return public.Account{}, ErrNoAccount
}

func (p *MSALProvider) AcquireTokenSilent(ctx context.Context, id models.Identity) (string, error) {
	acct, err := p.findAccount(ctx, id.HomeAccountID)
	if err != nil {
		return "", err
	}
	res, err := p.client.AcquireTokenSilent(ctx, p.scopes, public.WithSilentAccount(acct))
	if err != nil {
		return "", fmt.Errorf("acquire token silently: %w", err)
	}
	return res.AccessToken, nil
}

// CurrentIdentity returns the first cached account enriched with the claims of
// a silently acquired token.
func (p *MSALProvider) CurrentIdentity(ctx context.Context) (*models.Identity, error) {
	acct, err := p.findAccount(ctx, "")
	if err != nil {
		return nil, err
	}
	res, err := p.client.AcquireTokenSilent(ctx, p.scopes, public.WithSilentAccount(acct))
	if err != nil {
		id := identityFromAccount(acct)
		return &id, nil
	}
	id := p.identityFromResult(ctx, res)
	return &id, nil
}

func (p *MSALProvider) SignIn(ctx context.Context) (*models.Identity, error) {
	var (
		res public.AuthResult
		err error
	)

	switch p.mode {
	case SignInDeviceCode:
		var dc public.DeviceCode
		dc, err = p.client.AcquireTokenByDeviceCode(ctx, p.scopes)
		if err != nil {
			return nil, fmt.Errorf("start device code sign-in: %w", err)
		}
		p.prompt(dc.Result.Message)
		res, err = dc.AuthenticationResult(ctx)
	default:
		res, err = p.client.AcquireTokenInteractive(ctx, p.scopes)
	}
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	id := p.identityFromResult(ctx, res)
	p.log.Info(ctx, "signed in", "user", id.Username)
	return &id, nil
}

func (p *MSALProvider) SignOut(ctx context.Context) error {
	accounts, err := p.client.Accounts(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	var errs []error
	for _, a := range accounts {
		if err := p.client.RemoveAccount(ctx, a); err != nil {
			errs = append(errs, fmt.Errorf("remove account %s: %w", a.PreferredUsername, err))
		}
	}
	if p.cache != nil {
		if err := p.cache.Reset(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DefaultScope is the API scope exposed by the FotoGen app registration.
func DefaultScope(clientID string) string {
	return strings.TrimSpace(clientID) + "/FotoGen"
}
