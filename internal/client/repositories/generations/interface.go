package generations

import (
	"context"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
)

type Repository interface {
	Insert(ctx context.Context, rec *models.GenerationRecord) error

	// List returns the most recent generations first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]models.GenerationRecord, error)

	// ListByModel returns the generations produced by a single model.
	ListByModel(ctx context.Context, modelID string) ([]models.GenerationRecord, error)

	Clear(ctx context.Context) error
}
