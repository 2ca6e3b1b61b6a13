package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
)

var ErrEmptyBatch = errors.New("batch has no files")

// entryTime is stamped on every entry so equal input gives equal bytes.
var entryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Opener opens a batch file for reading.
type Opener func(path string) (io.ReadCloser, error)

func openFile(path string) (io.ReadCloser, error) { return os.Open(path) }

// EntryName is the positional name of the file at zero-based index i.
func EntryName(i int, f models.BatchFile) string {
	return "image_" + strconv.Itoa(i+1) + "." + f.Ext()
}

// Build zips batch in order using files from disk.
func Build(batch *models.UploadBatch, modelID string) (*models.TrainingArchive, error) {
	return BuildWith(batch, modelID, openFile)
}

// BuildWith is Build with a custom opener.
func BuildWith(batch *models.UploadBatch, modelID string, open Opener) (*models.TrainingArchive, error) {
	if batch.Len() == 0 {
		return nil, ErrEmptyBatch
	}
	if modelID == "" {
		return nil, errors.New("model id is required")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := make([]string, 0, batch.Len())

	for i, f := range batch.Files {
		name := EntryName(i, f)
		if err := addEntry(zw, name, f.Path, open); err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("add %s as %s: %w", f.Name, name, err)
		}
		entries = append(entries, name)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	return &models.TrainingArchive{
		ModelID: modelID,
		Name:    modelID + ".zip",
		Data:    buf.Bytes(),
		Entries: entries,
	}, nil
}

func addEntry(zw *zip.Writer, name, path string, open Opener) error {
	r, err := open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: entryTime,
	}
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, r)
	return err
}
