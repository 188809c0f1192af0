package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemType is how a line item is prepared
type ItemType string

const (
	ItemTypeNormal ItemType = "normal"
	ItemTypeSpicy  ItemType = "spicy"
)

// IsValid reports whether t is a known preparation
func (t ItemType) IsValid() bool {
	return t == ItemTypeNormal || t == ItemTypeSpicy
}

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// LineItem is one (product, quantity) entry of an order
type LineItem struct {
	ProductID uuid.UUID
	Quantity  int
	Type      ItemType
}

// NormalizeItems validates line items and fills in the default item type.
// It returns a new slice; the input is not modified.
func NormalizeItems(items []LineItem) ([]LineItem, error) {
	if len(items) == 0 {
		return nil, shared.NewValidationError("No products in order")
	}
	out := make([]LineItem, len(items))
	for i, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, shared.NewValidationError("Item %d is missing a product", i+1)
		}
		if item.Quantity < 1 {
			return nil, shared.NewValidationError("Quantity cannot be less than 1 for product %s", item.ProductID)
		}
		if item.Type == "" {
			item.Type = ItemTypeNormal
		}
		if !item.Type.IsValid() {
			return nil, shared.NewValidationError("Item type must be normal or spicy; got %q", item.Type)
		}
		out[i] = item
	}
	return out, nil
}

// OrderDetails are the customer-facing fields of an order
type OrderDetails struct {
	CustomerName string
	Phone        string
	Discount     decimal.Decimal
	Status       OrderStatus
}

func (d *OrderDetails) normalize() error {
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.Phone = strings.TrimSpace(d.Phone)
	if d.Status == "" {
		d.Status = OrderStatusCompleted
	}
	if !d.Status.IsValid() {
		return shared.NewValidationError("Status must be one of Pending, Completed, Cancelled; got %q", d.Status)
	}
	if d.Discount.IsNegative() {
		return shared.NewValidationError("Discount cannot be negative")
	}
	return nil
}

// Order is a recorded customer purchase
type Order struct {
	shared.BaseEntity
	Number       int64
	CustomerName string
	Phone        string
	// Discount is recorded for reference only. TotalAmount never subtracts it.
	Discount    decimal.Decimal
	Items       []LineItem
	TotalAmount decimal.Decimal
	Status      OrderStatus
}

// NewOrder creates an order from a priced plan
func NewOrder(number int64, plan *OrderPlan, details OrderDetails, now time.Time) (*Order, error) {
	if number < 1 {
		return nil, shared.NewValidationError("Order number must be positive")
	}
	if plan == nil || len(plan.Lines) == 0 {
		return nil, shared.NewValidationError("No products in order")
	}
	if err := details.normalize(); err != nil {
		return nil, err
	}

	return &Order{
		BaseEntity:   shared.NewBaseEntity(now),
		Number:       number,
		CustomerName: details.CustomerName,
		Phone:        details.Phone,
		Discount:     details.Discount,
		Items:        plan.Items(),
		TotalAmount:  plan.Total,
		Status:       details.Status,
	}, nil
}

// ReplaceItems swaps the line items and total for those of a freshly computed plan
func (o *Order) ReplaceItems(plan *OrderPlan, now time.Time) error {
	if plan == nil || len(plan.Lines) == 0 {
		return shared.NewValidationError("No products in order")
	}
	o.Items = plan.Items()
	o.TotalAmount = plan.Total
	o.Touch(now)
	return nil
}

// UpdateCustomer sets the optional customer name and phone
func (o *Order) UpdateCustomer(name, phone string, now time.Time) {
	o.CustomerName = strings.TrimSpace(name)
	o.Phone = strings.TrimSpace(phone)
	o.Touch(now)
}

// SetStatus changes the order status. Any known status may follow any other.
func (o *Order) SetStatus(status OrderStatus, now time.Time) error {
	if !status.IsValid() {
		return shared.NewValidationError("Status must be one of Pending, Completed, Cancelled; got %q", status)
	}
	o.Status = status
	o.Touch(now)
	return nil
}

// SetDiscount records a discount without affecting the total
func (o *Order) SetDiscount(discount decimal.Decimal, now time.Time) error {
	if discount.IsNegative() {
		return shared.NewValidationError("Discount cannot be negative")
	}
	o.Discount = discount
	o.Touch(now)
	return nil
}

// ProductIDs returns the distinct products referenced by the order, in first-appearance order
func (o *Order) ProductIDs() []uuid.UUID {
	return DistinctProductIDs(o.Items)
}

// DistinctProductIDs returns the distinct products referenced by items, in first-appearance order
func DistinctProductIDs(items []LineItem) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// ProductIDsOf collects the distinct products referenced across orders
func ProductIDsOf(orders []Order) []uuid.UUID {
	var all []LineItem
	for i := range orders {
		all = append(all, orders[i].Items...)
	}
	return DistinctProductIDs(all)
}
