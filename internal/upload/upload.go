// Package upload stores user-provided images on local disk. Files are
// renamed to random UUIDs so client-supplied names never reach the
// filesystem.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("upload: file too large")

	// ErrUnsupportedType is returned for extensions outside the image allowlist.
	ErrUnsupportedType = errors.New("upload: unsupported file type")
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

type Store struct {
	dir     string
	maxSize int64
}

func NewStore(dir string, maxSize int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload.NewStore: %w", err)
	}

	return &Store{dir: dir, maxSize: maxSize}, nil
}

// Save writes the upload to disk under a generated name and returns
// that name. The original filename is used only for its extension.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("upload.Save: %q: %w", ext, ErrUnsupportedType)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("upload.Save: %w", err)
	}

	// Read one byte past the limit to detect oversize without
	// buffering the whole file.
	n, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("upload.Save: %w", err)
	}
	if n > s.maxSize {
		_ = os.Remove(path)
		return "", fmt.Errorf("upload.Save: %w", ErrTooLarge)
	}

	return name, nil
}

// Open returns a reader for a stored file. The name is cleaned and
// anchored to the store directory so path traversal cannot escape it.
func (s *Store) Open(name string) (io.ReadCloser, error) {
	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == string(filepath.Separator) {
		return nil, fmt.Errorf("upload.Open: %q: %w", name, os.ErrNotExist)
	}

	f, err := os.Open(filepath.Join(s.dir, base))
	if err != nil {
		return nil, fmt.Errorf("upload.Open: %w", err)
	}

	return f, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Store) Remove(name string) error {
	base := filepath.Base(filepath.Clean(name))

	err := os.Remove(filepath.Join(s.dir, base))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("upload.Remove: %w", err)
	}

	return nil
}

// ContentType maps a stored name's extension to its MIME type.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
