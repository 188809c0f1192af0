package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderFilter narrows an order listing to a creation-time window [Since, Until).
// Nil bounds are open.
type OrderFilter struct {
	Since *time.Time
	Until *time.Time
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll finds orders in the filter window, newest first
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, error)

	// Count counts orders in the filter window
	Count(ctx context.Context, filter OrderFilter) (int64, error)

	// Create persists a new order and adds increments to the products' sales
	// counters. SQL stores do both in one transaction.
	Create(ctx context.Context, order *Order, increments []SalesIncrement) error

	// Update saves changes to an existing order. Sales counters are not touched.
	Update(ctx context.Context, order *Order) error

	// Delete removes an order. Sales counters are not touched.
	Delete(ctx context.Context, id uuid.UUID) error

	// NextNumber atomically allocates the next order number
	NextNumber(ctx context.Context) (int64, error)
}
