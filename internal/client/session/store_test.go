package session

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/client/repositories/metadata"

	_ "modernc.org/sqlite"
)

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingKV) Set(context.Context, string, []byte) error   { return f.err }
func (f failingKV) Delete(context.Context, string) error        { return f.err }
func (f failingKV) Clear(context.Context) error                 { return f.err }

func TestRedirectPath_RoundTripAndClear(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryKV())

	p, err := s.RedirectPath(ctx)
	require.NoError(t, err)
	assert.Empty(t, p)

	require.NoError(t, s.SetRedirectPath(ctx, "/home/alice/m1"))
	require.NoError(t, s.SetRedirectPath(ctx, "/home/bob/m2"))

	p, err = s.RedirectPath(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/home/bob/m2", p)

	require.NoError(t, s.ClearRedirectPath(ctx))
	require.NoError(t, s.ClearRedirectPath(ctx))

	p, err = s.RedirectPath(ctx)
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestRedirectPath_AbsentMarkers(t *testing.T) {
	ctx := context.Background()
	for _, marker := range []string{"", "null", "undefined", "  "} {
		kv := NewMemoryKV()
		require.NoError(t, kv.Set(ctx, KeyRedirectPath, []byte(marker)))

		p, err := NewStore(kv).RedirectPath(ctx)
		require.NoError(t, err)
		assert.Empty(t, p, "marker %q", marker)
	}
}

func TestSetRedirectPath_AbsentMarkerClears(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewStore(kv)

	require.NoError(t, s.SetRedirectPath(ctx, "/home/alice/m1"))
	require.NoError(t, s.SetRedirectPath(ctx, "undefined"))

	raw, err := kv.Get(ctx, KeyRedirectPath)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestSharedModel(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewStore(kv)

	ref, err := s.SharedModel(ctx)
	require.NoError(t, err)
	assert.Nil(t, ref)

	want := models.ModelReference{ID: "m1", OwnerName: "alice", IsOwnedByUser: false}
	require.NoError(t, s.SetSharedModel(ctx, want))

	raw, _ := kv.Get(ctx, KeySharedModelInfo)
	assert.JSONEq(t, `{"id":"m1","ownerName":"alice","isOwnedByUser":false}`, string(raw))

	ref, err = s.SharedModel(ctx)
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, want, *ref)

	require.NoError(t, s.ClearSharedModel(ctx))
	ref, err = s.SharedModel(ctx)
	require.NoError(t, err)
	assert.Nil(t, ref)
}

func TestSharedModel_GarbageIsAbsent(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, KeySharedModelInfo, []byte("{not json")))

	ref, err := NewStore(kv).SharedModel(ctx)
	require.NoError(t, err)
	assert.Nil(t, ref)

	require.NoError(t, kv.Set(ctx, KeySharedModelInfo, []byte("null")))
	ref, err = NewStore(kv).SharedModel(ctx)
	require.NoError(t, err)
	assert.Nil(t, ref)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryKV())

	require.NoError(t, s.SetRedirectPath(ctx, "/home/a/b"))
	require.NoError(t, s.SetSharedModel(ctx, models.ModelReference{ID: "b", OwnerName: "a"}))
	require.NoError(t, s.Clear(ctx))

	p, _ := s.RedirectPath(ctx)
	ref, _ := s.SharedModel(ctx)
	assert.Empty(t, p)
	assert.Nil(t, ref)
}

func TestStore_PropagatesKVErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	s := NewStore(failingKV{err: boom})

	_, err := s.RedirectPath(ctx)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, s.SetRedirectPath(ctx, "/x"), boom)
	require.ErrorIs(t, s.ClearRedirectPath(ctx), boom)
	_, err = s.SharedModel(ctx)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, s.Clear(ctx), boom)
}

func TestStore_OverSQLiteSessionTable(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE session_state (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)

	ctx := context.Background()
	s := NewStore(metadata.NewSQLiteRepository(db, metadata.TableSessionState))

	require.NoError(t, s.SetRedirectPath(ctx, "/home/alice/m1"))
	p, err := s.RedirectPath(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/home/alice/m1", p)

	require.NoError(t, s.Clear(ctx))
	p, err = s.RedirectPath(ctx)
	require.NoError(t, err)
	assert.Empty(t, p)
}
