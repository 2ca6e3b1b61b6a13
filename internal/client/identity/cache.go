package identity

import (
	"context"
	"fmt"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/cache"
)

// CacheKey is the metadata key the serialized MSAL cache lives under.
const CacheKey = "msal_cache"

// CacheStore is the byte store behind the token cache.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// TokenCache persists MSAL's token cache so sign-in survives restarts.
type TokenCache struct {
	store CacheStore
}

var _ cache.ExportReplace = (*TokenCache)(nil)

func NewTokenCache(store CacheStore) *TokenCache {
	return &TokenCache{store: store}
}

func (c *TokenCache) Replace(ctx context.Context, u cache.Unmarshaler, _ cache.ReplaceHints) error {
	data, err := c.store.Get(ctx, CacheKey)
	if err != nil {
		return fmt.Errorf("load token cache: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	return u.Unmarshal(data)
}

func (c *TokenCache) Export(ctx context.Context, m cache.Marshaler, _ cache.ExportHints) error {
	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("serialize token cache: %w", err)
	}
	if err := c.store.Set(ctx, CacheKey, data); err != nil {
		return fmt.Errorf("save token cache: %w", err)
	}
	return nil
}

// Reset drops the persisted cache.
func (c *TokenCache) Reset(ctx context.Context) error {
	return c.store.Delete(ctx, CacheKey)
}
