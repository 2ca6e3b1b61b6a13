// Package filex holds the filesystem helpers used by the CLI: state and
// output directories, and image files picked for a training batch.
package filex

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotImage = errors.New("not an image file")

// imageExtensions mirrors the picker's image/* filter.
var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".webp": {}, ".gif": {},
	".bmp": {}, ".tif": {}, ".tiff": {}, ".heic": {}, ".heif": {},
}

// ImageFile describes an image on disk. Data is not loaded.
type ImageFile struct {
	Name        string
	Path        string
	Size        int64
	ContentType string
}

// EnsureSubdDir creates dirName (relative to the working directory unless it
// is absolute) and returns its absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// StatImage checks that path is a regular image file and returns its
// metadata. The extension must be a known image type and the sniffed
// content, when recognisable, must agree.
func StatImage(path string) (ImageFile, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := imageExtensions[ext]; !ok {
		return ImageFile{}, fmt.Errorf("%s: %w", path, ErrNotImage)
	}

	f, err := os.Open(path)
	if err != nil {
		return ImageFile{}, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return ImageFile{}, err
	}
	if !fi.Mode().IsRegular() {
		return ImageFile{}, fmt.Errorf("%s: %w", path, ErrNotImage)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return ImageFile{}, err
	}

	contentType := http.DetectContentType(head[:n])
	switch {
	case strings.HasPrefix(contentType, "image/"):
	case contentType == "application/octet-stream":
		contentType = mime.TypeByExtension(ext)
		if contentType == "" {
			contentType = "image/" + strings.TrimPrefix(ext, ".")
		}
	default:
		return ImageFile{}, fmt.Errorf("%s (%s): %w", path, contentType, ErrNotImage)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return ImageFile{
		Name:        filepath.Base(path),
		Path:        abs,
		Size:        fi.Size(),
		ContentType: contentType,
	}, nil
}

// StatImages runs StatImage over paths, keeping their order.
func StatImages(paths []string) ([]ImageFile, error) {
	out := make([]ImageFile, 0, len(paths))
	for _, p := range paths {
		img, err := StatImage(p)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

// WriteFile writes data to dir/name with owner-only permissions and returns
// the full path.
func WriteFile(dir, name string, data []byte) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
