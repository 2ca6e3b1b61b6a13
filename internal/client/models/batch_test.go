package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchFile_Ext(t *testing.T) {
	assert.Equal(t, "jpg", BatchFile{Name: "me.jpg"}.Ext())
	assert.Equal(t, "png", BatchFile{Name: "holiday.2024.png"}.Ext())
	assert.Equal(t, "JPEG", BatchFile{Name: "CAPS.JPEG"}.Ext())
	assert.Equal(t, "noext", BatchFile{Name: "noext"}.Ext())
}

func TestUploadBatch_TotalBytes(t *testing.T) {
	var nilBatch *UploadBatch
	assert.Equal(t, int64(0), nilBatch.TotalBytes())
	assert.Equal(t, 0, nilBatch.Len())

	b := &UploadBatch{Files: []BatchFile{{Size: 10}, {Size: 32}}}
	assert.Equal(t, int64(42), b.TotalBytes())
	assert.Equal(t, 2, b.Len())
}

func TestTrainingStep_Rank(t *testing.T) {
	order := []TrainingStep{StepSelecting, StepUploading, StepTraining, StepAccepted}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, order[i].Rank(), order[i-1].Rank())
	}
}

func TestIdentity_DisplayName(t *testing.T) {
	assert.Equal(t, "Alice", Identity{Name: "Alice", Username: "a@x"}.DisplayName())
	assert.Equal(t, "a@x", Identity{Username: "a@x"}.DisplayName())
	assert.Equal(t, DefaultOwnerName, Identity{}.DisplayName())
}
