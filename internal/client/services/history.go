package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/client/repositories/generations"
	"github.com/dmitrijs2005/fotogen/internal/client/repositories/trainings"
	"github.com/dmitrijs2005/fotogen/internal/dbx"
)

// HistoryService reads and wipes the local training and generation history.
type HistoryService interface {
	Trainings(ctx context.Context, limit int) ([]models.TrainingRecord, error)
	Generations(ctx context.Context, limit int) ([]models.GenerationRecord, error)
	// Clear wipes both tables in one transaction.
	Clear(ctx context.Context) error
}

type historyService struct {
	db *sql.DB
}

func NewHistoryService(db *sql.DB) HistoryService {
	return &historyService{db: db}
}

func (h *historyService) Trainings(ctx context.Context, limit int) ([]models.TrainingRecord, error) {
	return trainings.NewSQLiteRepository(h.db).List(ctx, limit)
}

func (h *historyService) Generations(ctx context.Context, limit int) ([]models.GenerationRecord, error) {
	return generations.NewSQLiteRepository(h.db).List(ctx, limit)
}

func (h *historyService) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, h.db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := trainings.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return generations.NewSQLiteRepository(tx).Clear(ctx)
	})
}
