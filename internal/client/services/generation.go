package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fotogen/internal/client/client"
	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/client/repositories/generations"
	"github.com/dmitrijs2005/fotogen/internal/filex"
	"github.com/dmitrijs2005/fotogen/internal/logging"
)

// GenerationService renders a prompt with the active model and saves the image.
type GenerationService interface {
	Generate(ctx context.Context, ref *models.ModelReference, prompt string) (*models.GenerationRecord, error)
}

type generationService struct {
	client    client.Client
	repo      generations.Repository
	outputDir string
	log       logging.Logger
}

func NewGenerationService(c client.Client, repo generations.Repository, outputDir string, log logging.Logger) GenerationService {
	if log == nil {
		log = logging.Nop{}
	}
	return &generationService{client: c, repo: repo, outputDir: outputDir, log: log}
}

// Generate sends no request for an empty prompt or a missing model. The own
// model is addressed with a null model name.
func (s *generationService) Generate(ctx context.Context, ref *models.ModelReference, prompt string) (*models.GenerationRecord, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if ref == nil || ref.ID == "" {
		return nil, ErrNoModel
	}

	var modelName *string
	if !ref.IsOwnedByUser {
		name := ref.ID
		modelName = &name
	}

	img, err := s.client.GeneratePhoto(ctx, modelName, prompt)
	if err != nil {
		return nil, err
	}

	dir, err := filex.EnsureSubdDir(s.outputDir)
	if err != nil {
		return nil, fmt.Errorf("prepare output dir: %w", err)
	}

	id := uuid.NewString()
	path, err := filex.WriteFile(dir, id+"."+img.Format, img.Data)
	if err != nil {
		return nil, err
	}

	rec := &models.GenerationRecord{
		ID:         id,
		ModelID:    ref.ID,
		OwnedModel: ref.IsOwnedByUser,
		Prompt:     prompt,
		OutputPath: path,
		CreatedAt:  time.Now(),
	}
	if s.repo != nil {
		if err := s.repo.Insert(ctx, rec); err != nil {
			s.log.Warn(ctx, "failed to record generation", "model_id", ref.ID, "error", err)
		}
	}

	s.log.Info(ctx, "image generated", "model_id", ref.ID, "path", path)
	return rec, nil
}
