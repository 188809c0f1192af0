package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/cache"
	"github.com/menuhub/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// storeImage returns the picture reference to persist. An upload wins over a
// plain URL; the second return value is the URL of the stored upload, if any.
func storeImage(ctx context.Context, images storage.ImageStore, folder, pic string, img *storage.Image) (string, string, error) {
	if img == nil {
		pic = strings.TrimSpace(pic)
		if pic == "" {
			return "", "", shared.NewValidationError("Please upload a picture")
		}
		return pic, "", nil
	}
	if images == nil {
		return "", "", shared.NewValidationError("Image uploads are not configured")
	}
	url, err := images.Put(ctx, folder, *img)
	if err != nil {
		return "", "", err
	}
	return url, url, nil
}

// deleteImage removes a stored image. Failures are logged and swallowed.
func deleteImage(ctx context.Context, images storage.ImageStore, url string, logger *zap.Logger) {
	if images == nil || url == "" {
		return
	}
	if err := images.Delete(ctx, url); err != nil {
		logger.Warn("Failed to delete image", zap.String("url", url), zap.Error(err))
	}
}

// invalidateResponses drops every cached read response
func invalidateResponses(ctx context.Context, responseCache cache.ResponseCache, logger *zap.Logger) {
	if responseCache == nil {
		return
	}
	if err := responseCache.InvalidatePrefix(ctx, ""); err != nil {
		logger.Warn("Failed to clear response cache", zap.Error(err))
	}
}

// notFound names the resource in a repository's generic not-found error
func notFound(err error, resource string, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(resource, id)
	}
	return err
}
