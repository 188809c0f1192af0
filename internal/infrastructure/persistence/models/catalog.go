package models

import (
	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(50);not null"`
	Pic  string `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Pic:        m.Pic,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Pic = c.Pic
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Name        string              `gorm:"type:varchar(100);not null"`
	Pic         string              `gorm:"type:text;not null"`
	Description string              `gorm:"type:text;not null"`
	Type        catalog.ProductType `gorm:"type:varchar(10);not null"`
	Price       decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Sales       int64               `gorm:"not null;default:0"`
	CategoryID  uuid.UUID           `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Pic:         m.Pic,
		Description: m.Description,
		Type:        m.Type,
		Price:       m.Price,
		Sales:       m.Sales,
		CategoryID:  m.CategoryID,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Pic = p.Pic
	m.Description = p.Description
	m.Type = p.Type
	m.Price = p.Price
	m.Sales = p.Sales
	m.CategoryID = p.CategoryID
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
