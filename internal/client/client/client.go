package client

import (
	"context"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
)

// Client is the FotoGen backend API as seen by the CLI.
type Client interface {
	// CheckModelAvailable reports whether the caller has access to modelName.
	// An empty modelName asks about the caller's own model.
	CheckModelAvailable(ctx context.Context, modelName string) (bool, error)
	// GeneratePhoto renders prompt with modelName, or with the caller's own
	// model when modelName is nil.
	GeneratePhoto(ctx context.Context, modelName *string, prompt string) (*models.GeneratedImage, error)
	// UploadArchive stores a training archive and returns its URL.
	UploadArchive(ctx context.Context, archive *models.TrainingArchive) (string, error)
	// TrainModel starts training from an uploaded archive and returns the
	// backend's model id.
	TrainModel(ctx context.Context, imageURL string) (string, error)
	Close() error
}

// TokenSource yields the bearer token for outgoing requests.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }
