package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalImageStore writes images below a directory that the HTTP server
// exposes under PublicURL
type LocalImageStore struct {
	dir       string
	publicURL string
	maxSize   int64
}

// NewLocalImageStore creates the upload folders under dir
func NewLocalImageStore(dir, publicURL string, maxSize int64) (*LocalImageStore, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if publicURL == "" {
		publicURL = "/uploads"
	}
	for _, folder := range []string{FolderCategories, FolderProducts} {
		if err := os.MkdirAll(filepath.Join(dir, folder), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload folder: %w", err)
		}
	}
	return &LocalImageStore{dir: dir, publicURL: publicURL, maxSize: maxSize}, nil
}

// Dir returns the root directory (for static file serving)
func (s *LocalImageStore) Dir() string {
	return s.dir
}

// PublicURL returns the URL prefix images are served under
func (s *LocalImageStore) PublicURL() string {
	return s.publicURL
}

// Put stores the image on disk
func (s *LocalImageStore) Put(ctx context.Context, folder string, img Image) (string, error) {
	ext, err := ValidateImage(folder, img, s.maxSize)
	if err != nil {
		return "", err
	}
	key := objectKey(folder, ext)
	if err := os.WriteFile(filepath.Join(s.dir, filepath.FromSlash(key)), img.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

// Delete removes the file behind publicURL. Missing files are not an error.
func (s *LocalImageStore) Delete(ctx context.Context, publicURL string) error {
	key, ok := keyFromURL(s.publicURL, publicURL)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

var _ ImageStore = (*LocalImageStore)(nil)
