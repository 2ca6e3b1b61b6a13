package dbx_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fotogen/internal/client/client"
	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/client/repositories/generations"
	"github.com/dmitrijs2005/fotogen/internal/client/repositories/trainings"
	"github.com/dmitrijs2005/fotogen/internal/common"
	"github.com/dmitrijs2005/fotogen/internal/dbx"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "dbx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createTraining(ctx context.Context, tx dbx.DBTX, id string) error {
	return trainings.NewSQLiteRepository(tx).Create(ctx, &models.TrainingRecord{
		ModelID:     id,
		ArchiveName: id + ".zip",
		FileCount:   1,
		Step:        models.StepUploading,
	})
}

func trainingExists(t *testing.T, db *sql.DB, id string) bool {
	t.Helper()
	_, err := trainings.NewSQLiteRepository(db).GetByID(context.Background(), id)
	if errors.Is(err, common.ErrorNotFound) {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := dbx.WithTx(context.Background(), db, func(ctx context.Context, tx dbx.DBTX) error {
		return createTraining(ctx, tx, "model-1-aaaaaaaaa")
	})
	require.NoError(t, err)
	require.True(t, trainingExists(t, db, "model-1-aaaaaaaaa"))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := setupDB(t)

	err := dbx.WithTx(context.Background(), db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := createTraining(ctx, tx, "model-2-aaaaaaaaa"); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	require.False(t, trainingExists(t, db, "model-2-aaaaaaaaa"))
}

func TestWithTx_RollsBackAndRethrowsPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		r := recover()
		require.Equal(t, "kaboom", r)
		require.False(t, trainingExists(t, db, "model-3-aaaaaaaaa"))
	}()

	_ = dbx.WithTx(context.Background(), db, func(ctx context.Context, tx dbx.DBTX) error {
		require.NoError(t, createTraining(ctx, tx, "model-3-aaaaaaaaa"))
		panic("kaboom")
	})
}

func TestWithTx_ClearSpansRepositories(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	require.NoError(t, createTraining(ctx, db, "model-4-aaaaaaaaa"))
	require.NoError(t, generations.NewSQLiteRepository(db).Insert(ctx, &models.GenerationRecord{
		ID: "g1", ModelID: "model-4-aaaaaaaaa", Prompt: "cat", OutputPath: "/tmp/g1.jpg",
	}))

	err := dbx.WithTx(ctx, db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := trainings.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := generations.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	require.True(t, trainingExists(t, db, "model-4-aaaaaaaaa"))
	gens, err := generations.NewSQLiteRepository(db).List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, gens, 1)
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	called := false
	err := dbx.WithTx(context.Background(), db, func(ctx context.Context, tx dbx.DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	require.False(t, called)
}
