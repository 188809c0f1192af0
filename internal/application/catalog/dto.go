package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest represents a request to create a category.
// Either Image (an upload) or Pic (an existing URL) must be provided.
type CreateCategoryRequest struct {
	Name  string         `json:"name" binding:"required,max=50"`
	Pic   string         `json:"pic" binding:"omitempty,max=500"`
	Image *storage.Image `json:"-"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name  *string        `json:"name" binding:"omitempty,max=50"`
	Pic   *string        `json:"pic" binding:"omitempty,max=500"`
	Image *storage.Image `json:"-"`
}

// CategoryListFilter represents filter options for the category list
type CategoryListFilter struct {
	Search string `form:"search"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Pic       string    `json:"pic"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryRef is the populated category embedded in a product
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Pic  string    `json:"pic"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,max=100"`
	Description string           `json:"description" binding:"required"`
	Type        string           `json:"type" binding:"required,oneof=small medium large"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	MegaMenu    uuid.UUID        `json:"megaMenu" binding:"required"`
	Pic         string           `json:"pic" binding:"omitempty,max=500"`
	Image       *storage.Image   `json:"-"`
}

// UpdateProductRequest represents a partial product update; nil fields are kept
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=100"`
	Description *string          `json:"description"`
	Type        *string          `json:"type" binding:"omitempty,oneof=small medium large"`
	Price       *decimal.Decimal `json:"price"`
	MegaMenu    *uuid.UUID       `json:"megaMenu"`
	Pic         *string          `json:"pic" binding:"omitempty,max=500"`
	Image       *storage.Image   `json:"-"`
}

// ProductListFilter represents the query parameters of the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	MegaMenu string `form:"megaMenu"`
	Type     string `form:"type"`
	MinPrice string `form:"minPrice"`
	MaxPrice string `form:"maxPrice"`
	Sort     string `form:"sort"`
}

// ProductResponse represents a product with its category populated.
// MegaMenu is null when the category no longer exists.
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Pic         string          `json:"pic"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Price       decimal.Decimal `json:"price"`
	Sales       int64           `json:"sales"`
	MegaMenuID  uuid.UUID       `json:"megaMenuId"`
	MegaMenu    *CategoryRef    `json:"megaMenu"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Pic:       c.Pic,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}

// ToProductResponse converts a domain Product; category may be nil
func ToProductResponse(p *catalog.Product, category *catalog.Category) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Pic:         p.Pic,
		Description: p.Description,
		Type:        string(p.Type),
		Price:       p.Price,
		Sales:       p.Sales,
		MegaMenuID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if category != nil {
		resp.MegaMenu = &CategoryRef{ID: category.ID, Name: category.Name, Pic: category.Pic}
	}
	return resp
}
