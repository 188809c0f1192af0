// Package storage keeps uploaded menu images on S3-compatible object storage
// or on local disk and hands back the public URL to store on the entity.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Upload folders
const (
	FolderCategories = "megamenu"
	FolderProducts   = "products"
)

// DefaultMaxImageSize is the largest accepted upload
const DefaultMaxImageSize int64 = 5 << 20

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// Image is an uploaded file waiting to be stored
type Image struct {
	Filename string
	Data     []byte
}

// ImageStore persists images and resolves them back by public URL
type ImageStore interface {
	// Put validates and stores img under folder and returns its public URL
	Put(ctx context.Context, folder string, img Image) (string, error)

	// Delete removes the object behind a URL previously returned by Put.
	// URLs this store did not issue are ignored.
	Delete(ctx context.Context, publicURL string) error
}

// ValidateImage checks the folder, extension and size of an upload
func ValidateImage(folder string, img Image, maxSize int64) (ext string, err error) {
	if folder != FolderCategories && folder != FolderProducts {
		return "", shared.NewValidationError("Unknown upload folder %q", folder)
	}
	if len(img.Data) == 0 {
		return "", shared.NewValidationError("Please upload a file")
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}
	if int64(len(img.Data)) > maxSize {
		return "", shared.NewValidationError("Image must be smaller than %d MB", maxSize>>20)
	}
	ext = strings.ToLower(path.Ext(img.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", shared.NewValidationError("Images only! Allowed types: jpg, jpeg, png, gif")
	}
	return ext, nil
}

// ContentType returns the MIME type for an allowed extension
func ContentType(ext string) string {
	if ct, ok := allowedExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// objectKey names a new object; the original filename is not trusted
func objectKey(folder, ext string) string {
	return folder + "/" + uuid.NewString() + ext
}

// keyFromURL reverses publicBase + "/" + key. ok is false for foreign URLs.
func keyFromURL(publicBase, publicURL string) (string, bool) {
	prefix := strings.TrimRight(publicBase, "/") + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(publicURL, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

// New creates the image store selected by cfg.Driver
func New(cfg *config.StorageConfig, maxSize int64, logger *zap.Logger) (ImageStore, error) {
	switch cfg.Driver {
	case config.StorageS3:
		return NewS3ImageStore(cfg, WithLogger(logger), WithMaxSize(maxSize))
	case config.StorageLocal, "":
		return NewLocalImageStore(cfg.LocalDir, cfg.PublicURL, maxSize)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
