package models

import (
	"path/filepath"
	"strings"
)

// BatchFile is one image picked for training. Bytes stay on disk until the
// archive is built.
type BatchFile struct {
	Name        string
	Path        string
	Size        int64
	ContentType string
	// PreviewURL is a file:// handle to the original, for display only.
	PreviewURL string
}

// Ext returns the part of Name after the last dot, or the whole name when
// it has none.
func (f BatchFile) Ext() string {
	if i := strings.LastIndex(f.Name, "."); i >= 0 {
		return f.Name[i+1:]
	}
	return f.Name
}

// UploadBatch is an ordered selection of training images.
type UploadBatch struct {
	Files []BatchFile
}

func (b *UploadBatch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Files)
}

// TotalBytes sums the sizes of all files in the batch.
func (b *UploadBatch) TotalBytes() int64 {
	if b == nil {
		return 0
	}
	var total int64
	for _, f := range b.Files {
		total += f.Size
	}
	return total
}

// PreviewURLFor turns an absolute path into a file:// handle.
func PreviewURLFor(path string) string {
	return "file://" + filepath.ToSlash(path)
}

// TrainingArchive is the zip built from an UploadBatch. It is never
// modified after Build returns it.
type TrainingArchive struct {
	ModelID string
	// Name is "<ModelID>.zip".
	Name    string
	Data    []byte
	Entries []string
}

// TrainingStep is the progress indicator of the training pipeline.
type TrainingStep string

const (
	StepSelecting TrainingStep = "selecting"
	StepUploading TrainingStep = "uploading"
	StepTraining  TrainingStep = "training"
	StepAccepted  TrainingStep = "accepted"
)

// Rank orders steps for the forward-only progress check.
func (s TrainingStep) Rank() int {
	switch s {
	case StepUploading:
		return 1
	case StepTraining:
		return 2
	case StepAccepted:
		return 3
	default:
		return 0
	}
}

// TrainingResult is what the pipeline returns once the backend accepted
// the training job.
type TrainingResult struct {
	ModelID        string
	ArchiveName    string
	ImageURL       string
	BackendModelID string
	Files          int
}
