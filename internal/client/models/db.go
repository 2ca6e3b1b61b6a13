package models

import "time"

// TrainingRecord is one training attempt kept in local history.
type TrainingRecord struct {
	ModelID        string
	ArchiveName    string
	FileCount      int
	TotalBytes     int64
	Step           TrainingStep
	ImageURL       string
	BackendModelID string
	Error          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// GenerationRecord is one generated image kept in local history.
type GenerationRecord struct {
	ID         string
	ModelID    string
	OwnedModel bool
	Prompt     string
	OutputPath string
	CreatedAt  time.Time
}
