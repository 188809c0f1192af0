package catalog

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductInput() NewProductInput {
	return NewProductInput{
		Name:        "Chicken Burger",
		Pic:         "burger.png",
		Description: "Grilled chicken with lettuce",
		Type:        ProductTypeMedium,
		Price:       decimal.RequireFromString("12.50"),
		CategoryID:  uuid.New(),
	}
}

func TestNewProduct(t *testing.T) {
	t.Run("creates product with zero sales", func(t *testing.T) {
		in := validProductInput()
		product, err := NewProduct(in, testNow)
		require.NoError(t, err)

		assert.Equal(t, "Chicken Burger", product.Name)
		assert.Equal(t, int64(0), product.Sales)
		assert.True(t, product.Price.Equal(decimal.RequireFromString("12.5")))
		assert.Equal(t, in.CategoryID, product.CategoryID)
	})

	tests := []struct {
		name    string
		mutate  func(*NewProductInput)
		message string
	}{
		{"empty name", func(in *NewProductInput) { in.Name = "" }, "name"},
		{"name too long", func(in *NewProductInput) { in.Name = strings.Repeat("x", 101) }, "100 characters"},
		{"missing picture", func(in *NewProductInput) { in.Pic = "" }, "picture"},
		{"missing description", func(in *NewProductInput) { in.Description = " " }, "description"},
		{"missing type", func(in *NewProductInput) { in.Type = "" }, "type"},
		{"unknown type", func(in *NewProductInput) { in.Type = "huge" }, "small, medium, large"},
		{"negative price", func(in *NewProductInput) { in.Price = decimal.NewFromInt(-1) }, "negative"},
		{"missing category", func(in *NewProductInput) { in.CategoryID = uuid.Nil }, "megamenu"},
	}
	for _, tt := range tests {
		t.Run("fails with "+tt.name, func(t *testing.T) {
			in := validProductInput()
			tt.mutate(&in)
			_, err := NewProduct(in, testNow)
			require.Error(t, err)
			assert.Equal(t, shared.KindValidation, shared.KindOf(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestProduct_Apply(t *testing.T) {
	t.Run("applies partial changes and keeps sales", func(t *testing.T) {
		product, err := NewProduct(validProductInput(), testNow)
		require.NoError(t, err)
		product.Sales = 7

		price := decimal.RequireFromString("9.99")
		large := ProductTypeLarge
		later := testNow.Add(time.Minute)
		err = product.Apply(ProductChanges{Price: &price, Type: &large}, later)
		require.NoError(t, err)

		assert.True(t, product.Price.Equal(price))
		assert.Equal(t, ProductTypeLarge, product.Type)
		assert.Equal(t, "Chicken Burger", product.Name)
		assert.Equal(t, int64(7), product.Sales)
		assert.Equal(t, later, product.UpdatedAt)
	})

	t.Run("invalid change leaves product untouched", func(t *testing.T) {
		product, err := NewProduct(validProductInput(), testNow)
		require.NoError(t, err)

		name := "Renamed"
		bad := ProductType("xl")
		err = product.Apply(ProductChanges{Name: &name, Type: &bad}, testNow)
		require.Error(t, err)
		assert.Equal(t, "Chicken Burger", product.Name)
	})

	t.Run("detects category change", func(t *testing.T) {
		current := uuid.New()
		other := uuid.New()
		assert.False(t, ProductChanges{}.CategoryChanged(current))
		assert.False(t, ProductChanges{CategoryID: &current}.CategoryChanged(current))
		assert.True(t, ProductChanges{CategoryID: &other}.CategoryChanged(current))
	})
}

func TestParseProductSort(t *testing.T) {
	fields, err := ParseProductSort("-price, name")
	require.NoError(t, err)
	assert.Equal(t, []shared.SortField{{Field: "price", Desc: true}, {Field: "name"}}, fields)

	fields, err = ParseProductSort("")
	require.NoError(t, err)
	assert.Equal(t, shared.DefaultSort(), fields)

	_, err = ParseProductSort("password")
	assert.Error(t, err)
}
