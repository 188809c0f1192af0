package models

import (
	"sort"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order domain entity.
type OrderModel struct {
	BaseModel
	Number       int64             `gorm:"not null;uniqueIndex"`
	CustomerName string            `gorm:"type:varchar(100)"`
	Phone        string            `gorm:"type:varchar(30)"`
	Discount     decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount  decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	Status       trade.OrderStatus `gorm:"type:varchar(20);not null;default:'Completed'"`
	Items        []OrderItemModel  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is one line item row. Items have no identity outside their order.
type OrderItemModel struct {
	OrderID   uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Position  int            `gorm:"primaryKey;autoIncrement:false"`
	ProductID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Quantity  int            `gorm:"not null"`
	ItemType  trade.ItemType `gorm:"type:varchar(10);not null;default:'normal'"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *trade.Order {
	items := make([]OrderItemModel, len(m.Items))
	copy(items, m.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	order := &trade.Order{
		BaseEntity:   m.BaseModel.ToDomain(),
		Number:       m.Number,
		CustomerName: m.CustomerName,
		Phone:        m.Phone,
		Discount:     m.Discount,
		TotalAmount:  m.TotalAmount,
		Status:       m.Status,
		Items:        make([]trade.LineItem, len(items)),
	}
	for i, it := range items {
		order.Items[i] = trade.LineItem{ProductID: it.ProductID, Quantity: it.Quantity, Type: it.ItemType}
	}
	return order
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.Number = o.Number
	m.CustomerName = o.CustomerName
	m.Phone = o.Phone
	m.Discount = o.Discount
	m.TotalAmount = o.TotalAmount
	m.Status = o.Status
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, it := range o.Items {
		m.Items[i] = OrderItemModel{
			OrderID:   o.ID,
			Position:  i,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			ItemType:  it.Type,
		}
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// SequenceModel is a named monotonically increasing counter
type SequenceModel struct {
	Name         string `gorm:"type:varchar(50);primaryKey"`
	CurrentValue int64  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceModel) TableName() string {
	return "sequences"
}
