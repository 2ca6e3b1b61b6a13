package services

import (
	"errors"
	"fmt"
)

var (
	ErrModelNotFound      = errors.New("model not found or not accessible")
	ErrNoModel            = errors.New("no model available")
	ErrEmptyPrompt        = errors.New("prompt is empty")
	ErrNoImagesSelected   = errors.New("no images selected")
	ErrTrainingInProgress = errors.New("training already in progress")
)

const bytesPerMB = 1024 * 1024

// SelectionTooLargeError rejects a batch whose summed size is over the limit.
type SelectionTooLargeError struct {
	TotalBytes int64
	Limit      int64
}

// MB is the selection size in megabytes.
func (e *SelectionTooLargeError) MB() float64 {
	return float64(e.TotalBytes) / bytesPerMB
}

// MBString formats MB with two decimals.
func (e *SelectionTooLargeError) MBString() string {
	return fmt.Sprintf("%.2f", e.MB())
}

func (e *SelectionTooLargeError) LimitMB() float64 {
	return float64(e.Limit) / bytesPerMB
}

func (e *SelectionTooLargeError) Error() string {
	return fmt.Sprintf("selected images total %.2f MB, limit is %.2f MB", e.MB(), e.LimitMB())
}
