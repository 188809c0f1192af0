package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaxProductNameLength is the longest allowed product name, in characters
const MaxProductNameLength = 100

// ProductType is the serving size of a product
type ProductType string

const (
	ProductTypeSmall  ProductType = "small"
	ProductTypeMedium ProductType = "medium"
	ProductTypeLarge  ProductType = "large"
)

// IsValid reports whether t is a known size
func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeSmall, ProductTypeMedium, ProductTypeLarge:
		return true
	}
	return false
}

// Product is a sellable menu item
type Product struct {
	shared.BaseEntity
	Name        string
	Pic         string
	Description string
	Type        ProductType
	Price       decimal.Decimal
	// Sales counts units ordered. It only ever grows.
	Sales      int64
	CategoryID uuid.UUID
}

// NewProductInput holds the fields required to create a product
type NewProductInput struct {
	Name        string
	Pic         string
	Description string
	Type        ProductType
	Price       decimal.Decimal
	CategoryID  uuid.UUID
}

// NewProduct creates a product with a zero sales counter
func NewProduct(in NewProductInput, now time.Time) (*Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateProductName(in.Name); err != nil {
		return nil, err
	}
	if err := validatePic(in.Pic); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, shared.NewValidationError("Please add a description")
	}
	if err := validateProductType(in.Type); err != nil {
		return nil, err
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	if in.CategoryID == uuid.Nil {
		return nil, shared.NewValidationError("Please add a megamenu category")
	}

	return &Product{
		BaseEntity:  shared.NewBaseEntity(now),
		Name:        in.Name,
		Pic:         in.Pic,
		Description: in.Description,
		Type:        in.Type,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
	}, nil
}

// ProductChanges is a partial update; nil fields are left untouched
type ProductChanges struct {
	Name        *string
	Pic         *string
	Description *string
	Type        *ProductType
	Price       *decimal.Decimal
	CategoryID  *uuid.UUID
}

// Apply validates and applies a partial update. The sales counter is never touched here.
func (p *Product) Apply(ch ProductChanges, now time.Time) error {
	next := *p
	if ch.Name != nil {
		next.Name = strings.TrimSpace(*ch.Name)
		if err := validateProductName(next.Name); err != nil {
			return err
		}
	}
	if ch.Pic != nil {
		if err := validatePic(*ch.Pic); err != nil {
			return err
		}
		next.Pic = *ch.Pic
	}
	if ch.Description != nil {
		if strings.TrimSpace(*ch.Description) == "" {
			return shared.NewValidationError("Please add a description")
		}
		next.Description = *ch.Description
	}
	if ch.Type != nil {
		if err := validateProductType(*ch.Type); err != nil {
			return err
		}
		next.Type = *ch.Type
	}
	if ch.Price != nil {
		if err := validatePrice(*ch.Price); err != nil {
			return err
		}
		next.Price = *ch.Price
	}
	if ch.CategoryID != nil {
		if *ch.CategoryID == uuid.Nil {
			return shared.NewValidationError("Please add a megamenu category")
		}
		next.CategoryID = *ch.CategoryID
	}

	*p = next
	p.Touch(now)
	return nil
}

// CategoryChanged reports whether the changes move the product to a different category
func (ch ProductChanges) CategoryChanged(current uuid.UUID) bool {
	return ch.CategoryID != nil && *ch.CategoryID != current
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewValidationError("Please add a name")
	}
	if utf8.RuneCountInString(name) > MaxProductNameLength {
		return shared.NewValidationError("Name cannot be more than %d characters", MaxProductNameLength)
	}
	return nil
}

func validateProductType(t ProductType) error {
	if t == "" {
		return shared.NewValidationError("Please add a type")
	}
	if !t.IsValid() {
		return shared.NewValidationError("Type must be one of small, medium, large; got %q", t)
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("Price cannot be negative")
	}
	return nil
}
