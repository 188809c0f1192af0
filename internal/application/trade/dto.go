package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one line of an order request
type OrderItemRequest struct {
	Product  uuid.UUID `json:"product"`
	Quantity int       `json:"quantity"`
	Type     string    `json:"type" binding:"omitempty,oneof=normal spicy"`
}

// CreateOrderRequest represents a request to place an order.
// Totals are always computed server side.
type CreateOrderRequest struct {
	Products     []OrderItemRequest `json:"products"`
	CustomerName string             `json:"customerName" binding:"max=100"`
	Phone        string             `json:"phone" binding:"max=30"`
	Discount     *decimal.Decimal   `json:"discount"`
	Status       string             `json:"status" binding:"omitempty,oneof=Pending Completed Cancelled"`
}

// UpdateOrderRequest represents a partial order update. A non-nil Products
// replaces every line item and recomputes the total from current prices.
type UpdateOrderRequest struct {
	Products     []OrderItemRequest `json:"products"`
	CustomerName *string            `json:"customerName" binding:"omitempty,max=100"`
	Phone        *string            `json:"phone" binding:"omitempty,max=30"`
	Discount     *decimal.Decimal   `json:"discount"`
	Status       *string            `json:"status" binding:"omitempty,oneof=Pending Completed Cancelled"`
}

func toLineItems(items []OrderItemRequest) []trade.LineItem {
	out := make([]trade.LineItem, len(items))
	for i, item := range items {
		out[i] = trade.LineItem{
			ProductID: item.Product,
			Quantity:  item.Quantity,
			Type:      trade.ItemType(item.Type),
		}
	}
	return out
}

// details checks the non-item fields up front so that an invalid request never consumes an order number
func (r CreateOrderRequest) details() (trade.OrderDetails, error) {
	d := trade.OrderDetails{
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Discount:     decimal.Zero,
		Status:       trade.OrderStatus(r.Status),
	}
	if r.Discount != nil {
		d.Discount = *r.Discount
	}
	if d.Status == "" {
		d.Status = trade.OrderStatusCompleted
	}
	if !d.Status.IsValid() {
		return d, shared.NewValidationError("Status must be one of Pending, Completed, Cancelled; got %q", r.Status)
	}
	if d.Discount.IsNegative() {
		return d, shared.NewValidationError("Discount cannot be negative")
	}
	return d, nil
}

// ProductRef is the populated product of an order line. Null when the product was deleted.
type ProductRef struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Pic   string          `json:"pic"`
	Price decimal.Decimal `json:"price"`
	Type  string          `json:"type"`
}

// OrderItemResponse is one line of an order
type OrderItemResponse struct {
	ProductID uuid.UUID   `json:"productId"`
	Product   *ProductRef `json:"product"`
	Quantity  int         `json:"quantity"`
	Type      string      `json:"type"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNumber  int64               `json:"orderNumber"`
	CustomerName string              `json:"customerName,omitempty"`
	Phone        string              `json:"phone,omitempty"`
	Discount     decimal.Decimal     `json:"discount"`
	Products     []OrderItemResponse `json:"products"`
	TotalAmount  decimal.Decimal     `json:"totalAmount"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// ReceiptItemResponse is one priced line of a receipt
type ReceiptItemResponse struct {
	Product     uuid.UUID       `json:"product"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ProductType string          `json:"productType"`
	Type        string          `json:"type"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// ReceiptResponse is the customer-facing receipt of an order
type ReceiptResponse struct {
	ReceiptNumber string                `json:"receiptNumber"`
	OrderID       uuid.UUID             `json:"orderId"`
	OrderNumber   int64                 `json:"orderNumber"`
	CustomerName  string                `json:"customerName,omitempty"`
	Phone         string                `json:"phone,omitempty"`
	Status        string                `json:"status"`
	Items         []ReceiptItemResponse `json:"items"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Discount      decimal.Decimal       `json:"discount"`
	Total         decimal.Decimal       `json:"total"`
	Date          time.Time             `json:"date"`
}

// OrderResult is returned by order mutations
type OrderResult struct {
	Order   OrderResponse
	Receipt ReceiptResponse
}

// ProductSalesResponse is one product's share of a sales summary
type ProductSalesResponse struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

// SalesSummaryResponse is a per-product sales summary
type SalesSummaryResponse struct {
	TotalSales  int64                  `json:"totalSales"`
	TotalOrders int                    `json:"totalOrders"`
	Products    []ProductSalesResponse `json:"products"`
}

// ToOrderResponse converts an order, populating products found in resolver
func ToOrderResponse(o *trade.Order, resolver trade.PriceResolver) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Type:      string(item.Type),
		}
		if p, ok := resolver.Resolve(item.ProductID); ok {
			items[i].Product = &ProductRef{ID: p.ID, Name: p.Name, Pic: p.Pic, Price: p.Price, Type: p.Type}
		}
	}
	return OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.Number,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Discount:     o.Discount,
		Products:     items,
		TotalAmount:  o.TotalAmount,
		Status:       o.Status.String(),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []trade.Order, resolver trade.PriceResolver) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i], resolver)
	}
	return out
}

// PrintedReceipt is a rendered receipt document
type PrintedReceipt struct {
	ReceiptNumber string
	PDF           []byte
}

// ToReceiptResponse converts a receipt
func ToReceiptResponse(r trade.Receipt) ReceiptResponse {
	items := make([]ReceiptItemResponse, len(r.Items))
	for i, l := range r.Items {
		items[i] = ReceiptItemResponse{
			Product:     l.ProductID,
			Name:        l.Name,
			Price:       l.Price,
			ProductType: l.ProductType,
			Type:        string(l.ItemType),
			Quantity:    l.Quantity,
			Total:       l.LineTotal,
		}
	}
	return ReceiptResponse{
		ReceiptNumber: r.ReceiptNumber,
		OrderID:       r.OrderID,
		OrderNumber:   r.OrderNumber,
		CustomerName:  r.CustomerName,
		Phone:         r.Phone,
		Status:        r.Status.String(),
		Items:         items,
		Subtotal:      r.Subtotal,
		Discount:      r.Discount,
		Total:         r.Total,
		Date:          r.IssuedAt,
	}
}

// ToSalesSummaryResponse converts a sales summary
func ToSalesSummaryResponse(s trade.SalesSummary) SalesSummaryResponse {
	products := make([]ProductSalesResponse, len(s.Products))
	for i, p := range s.Products {
		products[i] = ProductSalesResponse{
			ProductID: p.ProductID,
			Name:      p.Name,
			Type:      p.Type,
			Price:     p.Price,
			Quantity:  p.Quantity,
		}
	}
	return SalesSummaryResponse{
		TotalSales:  s.TotalSales,
		TotalOrders: s.TotalOrders,
		Products:    products,
	}
}
