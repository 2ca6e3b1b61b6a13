// Package metadata is a byte-valued key-value store over a SQLite table.
// The persistent "metadata" table keeps the provider token cache; the
// "session_state" table backs per-session storage and is wiped when the
// CLI session ends.
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Table names a key-value table created by the migrations.
type Table string

const (
	TableMetadata     Table = "metadata"
	TableSessionState Table = "session_state"
)
