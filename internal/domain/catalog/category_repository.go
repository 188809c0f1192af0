package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByIDs finds the categories among ids that exist
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Category, error)

	// FindAll finds all categories matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// Exists reports whether a category with the given ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts all categories
	Count(ctx context.Context) (int64, error)
}
