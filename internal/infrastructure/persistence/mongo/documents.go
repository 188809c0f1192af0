package mongo

import (
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type categoryDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Pic       string    `bson:"pic"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type productDoc struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Pic         string               `bson:"pic"`
	Description string               `bson:"description"`
	Type        string               `bson:"type"`
	Price       primitive.Decimal128 `bson:"price"`
	Sales       int64                `bson:"sales"`
	CategoryID  string               `bson:"categoryId"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

type orderItemDoc struct {
	ProductID string `bson:"productId"`
	Quantity  int    `bson:"quantity"`
	Type      string `bson:"type"`
}

type orderDoc struct {
	ID           string               `bson:"_id"`
	Number       int64                `bson:"number"`
	CustomerName string               `bson:"customerName"`
	Phone        string               `bson:"phone"`
	Discount     primitive.Decimal128 `bson:"discount"`
	TotalAmount  primitive.Decimal128 `bson:"totalAmount"`
	Status       string               `bson:"status"`
	Items        []orderItemDoc       `bson:"items"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type counterDoc struct {
	ID    string `bson:"_id"`
	Value int64  `bson:"value"`
}

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return v
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func baseEntity(id string, created, updated time.Time) shared.BaseEntity {
	return shared.BaseEntity{ID: parseID(id), CreatedAt: created.UTC(), UpdatedAt: updated.UTC()}
}

func categoryToDoc(c *catalog.Category) categoryDoc {
	return categoryDoc{
		ID:        c.ID.String(),
		Name:      c.Name,
		Pic:       c.Pic,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
}

func (d categoryDoc) toDomain() catalog.Category {
	return catalog.Category{
		BaseEntity: baseEntity(d.ID, d.CreatedAt, d.UpdatedAt),
		Name:       d.Name,
		Pic:        d.Pic,
	}
}

func productToDoc(p *catalog.Product) productDoc {
	return productDoc{
		ID:          p.ID.String(),
		Name:        p.Name,
		Pic:         p.Pic,
		Description: p.Description,
		Type:        string(p.Type),
		Price:       toDecimal128(p.Price),
		Sales:       p.Sales,
		CategoryID:  p.CategoryID.String(),
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}

func (d productDoc) toDomain() catalog.Product {
	return catalog.Product{
		BaseEntity:  baseEntity(d.ID, d.CreatedAt, d.UpdatedAt),
		Name:        d.Name,
		Pic:         d.Pic,
		Description: d.Description,
		Type:        catalog.ProductType(d.Type),
		Price:       fromDecimal128(d.Price),
		Sales:       d.Sales,
		CategoryID:  parseID(d.CategoryID),
	}
}

func orderToDoc(o *trade.Order) orderDoc {
	items := make([]orderItemDoc, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemDoc{ProductID: it.ProductID.String(), Quantity: it.Quantity, Type: string(it.Type)}
	}
	return orderDoc{
		ID:           o.ID.String(),
		Number:       o.Number,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Discount:     toDecimal128(o.Discount),
		TotalAmount:  toDecimal128(o.TotalAmount),
		Status:       string(o.Status),
		Items:        items,
		CreatedAt:    o.CreatedAt.UTC(),
		UpdatedAt:    o.UpdatedAt.UTC(),
	}
}

func (d orderDoc) toDomain() trade.Order {
	items := make([]trade.LineItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = trade.LineItem{ProductID: parseID(it.ProductID), Quantity: it.Quantity, Type: trade.ItemType(it.Type)}
	}
	return trade.Order{
		BaseEntity:   baseEntity(d.ID, d.CreatedAt, d.UpdatedAt),
		Number:       d.Number,
		CustomerName: d.CustomerName,
		Phone:        d.Phone,
		Discount:     fromDecimal128(d.Discount),
		TotalAmount:  fromDecimal128(d.TotalAmount),
		Status:       trade.OrderStatus(d.Status),
		Items:        items,
	}
}

func userToDoc(u *identity.User) userDoc {
	return userDoc{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

func (d userDoc) toDomain() identity.User {
	return identity.User{
		BaseEntity:   baseEntity(d.ID, d.CreatedAt, d.UpdatedAt),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         identity.Role(d.Role),
	}
}

// parseID tolerates foreign documents; an unparsable id decodes as uuid.Nil
func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
