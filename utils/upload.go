package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedImage = errors.New("only images are allowed (jpeg, jpg, png)")
	ErrImageTooLarge    = errors.New("image exceeds the upload size limit")
)

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

// TempImage is an uploaded image written to the upload dir. Release removes
// the file; it is safe to call more than once but only the first call acts.
type TempImage struct {
	Path     string
	released bool
}

// SaveTempImage copies r into dir under a collision-resistant name
// ("product-<uuid><ext>"), refusing anything but jpeg/png and anything over
// maxBytes. On error nothing is left behind.
func SaveTempImage(dir, originalName string, r io.Reader, maxBytes int64) (*TempImage, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedImageExts[ext] {
		return nil, ErrUnsupportedImage
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("product-%s%s", uuid.NewString(), ext))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}

	// read one byte past the limit so oversized uploads are detected
	n, copyErr := io.Copy(f, io.LimitReader(r, maxBytes+1))
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write upload: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write upload: %w", closeErr)
	case n > maxBytes:
		_ = os.Remove(path)
		return nil, ErrImageTooLarge
	}
	return &TempImage{Path: path}, nil
}

// Exists reports whether the file is still on disk.
func (t *TempImage) Exists() bool {
	_, err := os.Stat(t.Path)
	return err == nil
}

// Release deletes the file. Errors are logged, never returned.
func (t *TempImage) Release() {
	if t == nil || t.released {
		return
	}
	t.released = true
	if err := os.Remove(t.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).WithField("path", t.Path).Error("failed to delete uploaded file")
		return
	}
	log.WithField("path", t.Path).Debug("cleaned up uploaded file")
}

// ContentTypeForExt maps the allowed extensions to their MIME type.
func ContentTypeForExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}
