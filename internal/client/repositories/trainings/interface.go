package trainings

import (
	"context"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
)

// Repository describes the operations on the trainings history table.
type Repository interface {
	// Create inserts a new attempt. An existing attempt with the same model id
	// is replaced.
	Create(ctx context.Context, rec *models.TrainingRecord) error

	// UpdateStep moves the attempt to the given step.
	UpdateStep(ctx context.Context, modelID string, step models.TrainingStep) error

	// Finish stores the outcome of an attempt. A non-empty errText marks it failed.
	Finish(ctx context.Context, modelID, imageURL, backendModelID, errText string) error

	// GetByID returns common.ErrorNotFound when no attempt exists.
	GetByID(ctx context.Context, modelID string) (*models.TrainingRecord, error)

	// List returns the most recent attempts first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]models.TrainingRecord, error)

	Clear(ctx context.Context) error
}
