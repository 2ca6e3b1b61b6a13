package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fotogen/internal/client/archive"
	"github.com/dmitrijs2005/fotogen/internal/client/client"
	"github.com/dmitrijs2005/fotogen/internal/client/mirror"
	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/client/repositories/trainings"
	"github.com/dmitrijs2005/fotogen/internal/filex"
	"github.com/dmitrijs2005/fotogen/internal/logging"
)

// DefaultMaxBatchBytes is the selection ceiling when none is configured.
const DefaultMaxBatchBytes int64 = 200 * bytesPerMB

// TrainingService turns a selection of images into a training job.
//
// Start moves through uploading, training and accepted. Any failure puts the
// pipeline back to selecting and discards the batch; nothing is retried.
type TrainingService interface {
	Select(ctx context.Context, paths []string) (*models.UploadBatch, error)
	Batch() *models.UploadBatch
	ClearSelection()
	Step() models.TrainingStep
	InProgress() bool
	Start(ctx context.Context) (*models.TrainingResult, error)
}

type TrainingOptions struct {
	MaxBatchBytes int64
	// Mirror, when set, receives a copy of every archive. Its failures are
	// logged only.
	Mirror mirror.Mirror
	// Observer is called on every step change.
	Observer   func(models.TrainingStep)
	NewModelID func() string
	Build      func(batch *models.UploadBatch, modelID string) (*models.TrainingArchive, error)
}

type trainingService struct {
	client client.Client
	repo   trainings.Repository
	opts   TrainingOptions
	log    logging.Logger

	mu       sync.Mutex
	batch    *models.UploadBatch
	step     models.TrainingStep
	inFlight bool
}

func NewTrainingService(c client.Client, repo trainings.Repository, opts TrainingOptions, log logging.Logger) TrainingService {
	if opts.MaxBatchBytes <= 0 {
		opts.MaxBatchBytes = DefaultMaxBatchBytes
	}
	if opts.NewModelID == nil {
		opts.NewModelID = archive.NewModelID
	}
	if opts.Build == nil {
		opts.Build = archive.Build
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &trainingService{client: c, repo: repo, opts: opts, log: log, step: models.StepSelecting}
}

// Select replaces the current selection. A selection over the size ceiling
// is rejected and leaves nothing selected.
func (s *trainingService) Select(ctx context.Context, paths []string) (*models.UploadBatch, error) {
	if len(paths) == 0 {
		return nil, ErrNoImagesSelected
	}
	if s.InProgress() {
		return nil, ErrTrainingInProgress
	}

	images, err := filex.StatImages(paths)
	if err != nil {
		s.resetSelection()
		return nil, err
	}

	batch := &models.UploadBatch{Files: make([]models.BatchFile, 0, len(images))}
	for _, img := range images {
		batch.Files = append(batch.Files, models.BatchFile{
			Name:        img.Name,
			Path:        img.Path,
			Size:        img.Size,
			ContentType: img.ContentType,
			PreviewURL:  models.PreviewURLFor(img.Path),
		})
	}

	if total := batch.TotalBytes(); total > s.opts.MaxBatchBytes {
		s.resetSelection()
		return nil, &SelectionTooLargeError{TotalBytes: total, Limit: s.opts.MaxBatchBytes}
	}

	s.mu.Lock()
	s.batch = batch
	s.mu.Unlock()
	s.setStep(models.StepSelecting)

	s.log.Debug(ctx, "images selected", "count", batch.Len(), "bytes", batch.TotalBytes())
	return batch, nil
}

func (s *trainingService) Batch() *models.UploadBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batch
}

func (s *trainingService) ClearSelection() {
	s.mu.Lock()
	s.batch = nil
	s.mu.Unlock()
}

// resetSelection drops a rejected selection and returns to the picker.
func (s *trainingService) resetSelection() {
	s.ClearSelection()
	s.setStep(models.StepSelecting)
}

func (s *trainingService) Step() models.TrainingStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *trainingService) InProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// setStep only moves forward, except for the reset to StepSelecting.
func (s *trainingService) setStep(step models.TrainingStep) {
	s.mu.Lock()
	if step != models.StepSelecting && step.Rank() <= s.step.Rank() {
		s.mu.Unlock()
		return
	}
	changed := s.step != step
	s.step = step
	s.mu.Unlock()

	if changed && s.opts.Observer != nil {
		s.opts.Observer(step)
	}
}

func (s *trainingService) Start(ctx context.Context) (*models.TrainingResult, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrTrainingInProgress
	}
	batch := s.batch
	if batch.Len() == 0 {
		s.mu.Unlock()
		return nil, ErrNoImagesSelected
	}
	s.inFlight = true
	s.batch = nil
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	modelID := s.opts.NewModelID()
	log := s.log.With("model_id", modelID)
	s.setStep(models.StepUploading)

	arch, err := s.opts.Build(batch, modelID)
	if err != nil {
		return nil, s.fail(ctx, log, modelID, false, fmt.Errorf("build archive: %w", err))
	}

	recorded := s.record(ctx, log, &models.TrainingRecord{
		ModelID:     modelID,
		ArchiveName: arch.Name,
		FileCount:   batch.Len(),
		TotalBytes:  batch.TotalBytes(),
		Step:        models.StepUploading,
	})

	if s.opts.Mirror != nil {
		if key, err := s.opts.Mirror.Store(ctx, arch); err != nil {
			log.Warn(ctx, "archive mirror failed", "error", err)
		} else {
			log.Info(ctx, "archive mirrored", "key", key)
		}
	}

	imageURL, err := s.client.UploadArchive(ctx, arch)
	if err != nil {
		return nil, s.fail(ctx, log, modelID, recorded, err)
	}

	s.setStep(models.StepTraining)
	if recorded {
		if err := s.repo.UpdateStep(ctx, modelID, models.StepTraining); err != nil {
			log.Warn(ctx, "failed to update training history", "error", err)
		}
	}

	backendID, err := s.client.TrainModel(ctx, imageURL)
	if err != nil {
		if recorded {
			_ = s.repo.Finish(ctx, modelID, imageURL, "", err.Error())
		}
		return nil, s.fail(ctx, log, modelID, false, err)
	}

	s.setStep(models.StepAccepted)
	if recorded {
		if err := s.repo.Finish(ctx, modelID, imageURL, backendID, ""); err != nil {
			log.Warn(ctx, "failed to finish training history", "error", err)
		}
	}

	log.Info(ctx, "training accepted", "backend_model_id", backendID, "files", batch.Len())
	return &models.TrainingResult{
		ModelID:        modelID,
		ArchiveName:    arch.Name,
		ImageURL:       imageURL,
		BackendModelID: backendID,
		Files:          batch.Len(),
	}, nil
}

func (s *trainingService) record(ctx context.Context, log logging.Logger, rec *models.TrainingRecord) bool {
	if s.repo == nil {
		return false
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		log.Warn(ctx, "failed to record training", "error", err)
		return false
	}
	return true
}

// fail resets the pipeline and passes err through. When finish is set the
// history row is closed with the error text.
func (s *trainingService) fail(ctx context.Context, log logging.Logger, modelID string, finish bool, err error) error {
	if finish {
		_ = s.repo.Finish(ctx, modelID, "", "", err.Error())
	}
	s.ClearSelection()
	s.setStep(models.StepSelecting)
	log.Warn(ctx, "training attempt failed", "error", err)
	return err
}
