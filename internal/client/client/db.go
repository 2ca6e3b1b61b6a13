package client

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/fotogen/internal/client/migrations"
	"github.com/dmitrijs2005/fotogen/internal/client/repositories/generations"
	"github.com/dmitrijs2005/fotogen/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fotogen/internal/client/repositories/trainings"
)

// Repositories groups the local stores backed by one SQLite database.
type Repositories struct {
	Metadata     metadata.Repository
	SessionState metadata.Repository
	Trainings    trainings.Repository
	Generations  generations.Repository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Metadata:     metadata.NewSQLiteRepository(db, metadata.TableMetadata),
		SessionState: metadata.NewSQLiteRepository(db, metadata.TableSessionState),
		Trainings:    trainings.NewSQLiteRepository(db),
		Generations:  generations.NewSQLiteRepository(db),
	}
}

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

func RunMigrations(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// InitDatabase opens the SQLite database at dsn and brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
