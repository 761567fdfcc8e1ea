package storage

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var ErrUnsupportedImage = errors.New("unsupported image type")

// LocalStorage keeps uploads on disk under Dir and exposes them below
// PublicPrefix, which the server maps to Dir as a static route.
type LocalStorage struct {
	Dir          string
	PublicPrefix string
}

func NewLocalStorage(dir, publicPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{Dir: dir, PublicPrefix: "/" + strings.Trim(publicPrefix, "/")}, nil
}

// Allocate picks a fresh file name for an upload of contentType. It
// returns the path to write to and the public reference to store.
func (s *LocalStorage) Allocate(contentType string) (diskPath, ref string, err error) {
	ext, ok := allowedImageTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", "", ErrUnsupportedImage
	}
	name := uuid.NewString() + ext
	return filepath.Join(s.Dir, name), path.Join(s.PublicPrefix, name), nil
}

// Remove deletes the file behind ref. Unknown or foreign refs are ignored.
func (s *LocalStorage) Remove(ref string) error {
	if !strings.HasPrefix(ref, s.PublicPrefix+"/") {
		return nil
	}
	name := path.Base(ref)
	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
