package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptPrefix starts every receipt number
const ReceiptPrefix = "RCP-"

// Receipt is the customer-facing view of an order. It is derived, never stored.
type Receipt struct {
	ReceiptNumber string
	OrderID       uuid.UUID
	OrderNumber   int64
	CustomerName  string
	Phone         string
	Status        OrderStatus
	Items         []PricedLine
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	IssuedAt      time.Time
}

// ReceiptNumber derives the receipt number from an order id
func ReceiptNumber(orderID uuid.UUID) string {
	id := orderID.String()
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return ReceiptPrefix + strings.ToUpper(id)
}

// BuildReceipt renders a receipt. The same inputs always yield the same receipt.
func BuildReceipt(order *Order, plan *OrderPlan, issuedAt time.Time) Receipt {
	lines := make([]PricedLine, len(plan.Lines))
	copy(lines, plan.Lines)
	return Receipt{
		ReceiptNumber: ReceiptNumber(order.ID),
		OrderID:       order.ID,
		OrderNumber:   order.Number,
		CustomerName:  order.CustomerName,
		Phone:         order.Phone,
		Status:        order.Status,
		Items:         lines,
		Subtotal:      order.TotalAmount,
		Discount:      order.Discount,
		Total:         order.TotalAmount,
		IssuedAt:      issuedAt,
	}
}
