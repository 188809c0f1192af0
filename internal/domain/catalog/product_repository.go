package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductFilter narrows a product listing
type ProductFilter struct {
	shared.Filter
	CategoryID *uuid.UUID
	Type       ProductType
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

// ProductSortFields maps API sort keys to the fields repositories may order by
var ProductSortFields = map[string]string{
	"name":      "name",
	"price":     "price",
	"sales":     "sales",
	"createdAt": "createdAt",
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds the products among ids that exist; missing ids are simply absent
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts all products
	Count(ctx context.Context) (int64, error)
}
