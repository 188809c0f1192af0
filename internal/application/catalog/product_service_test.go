package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductService(products *MockProductRepository, categories *MockCategoryRepository, images *fakeImageStore, c *fakeCache) *ProductService {
	store, rc := collaborators(images, c)
	return NewProductService(products, categories, store, rc, shared.FixedClock{T: testNow}, nil)
}

func newTestProduct(category *catalog.Category, name, price string) *catalog.Product {
	p, err := catalog.NewProduct(catalog.NewProductInput{
		Name:        name,
		Pic:         "https://cdn.test/products/" + name + ".png",
		Description: name + " description",
		Type:        catalog.ProductTypeMedium,
		Price:       decimal.RequireFromString(price),
		CategoryID:  category.ID,
	}, testNow)
	if err != nil {
		panic(err)
	}
	return p
}

func priceOf(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	category := newTestCategory("Burgers")

	t.Run("creates a product in an existing category", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		images := &fakeImageStore{}
		c := &fakeCache{}
		categories.On("FindByID", ctx, category.ID).Return(category, nil)
		products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		svc := newProductService(products, categories, images, c)
		resp, err := svc.Create(ctx, CreateProductRequest{
			Name:        "Cheeseburger",
			Description: "Beef, cheddar",
			Type:        "large",
			Price:       priceOf("12.50"),
			MegaMenu:    category.ID,
			Image:       &storage.Image{Filename: "cheese.jpg", Data: []byte("x")},
		})

		require.NoError(t, err)
		assert.Equal(t, "Cheeseburger", resp.Name)
		assert.Equal(t, "large", resp.Type)
		assert.True(t, resp.Price.Equal(decimal.RequireFromString("12.5")))
		assert.Zero(t, resp.Sales)
		require.NotNil(t, resp.MegaMenu)
		assert.Equal(t, "Burgers", resp.MegaMenu.Name)
		assert.Equal(t, "https://cdn.test/products/cheese.jpg", resp.Pic)
		assert.Equal(t, 1, c.invalidations)
		products.AssertExpectations(t)
	})

	t.Run("missing category is a reference error", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		images := &fakeImageStore{}
		missing := uuid.New()
		categories.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		svc := newProductService(products, categories, images, nil)
		_, err := svc.Create(ctx, CreateProductRequest{
			Name:        "Cheeseburger",
			Description: "Beef",
			Type:        "small",
			Price:       priceOf("1"),
			MegaMenu:    missing,
			Image:       &storage.Image{Filename: "cheese.jpg", Data: []byte("x")},
		})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeReferenceNotFound, de.Code)
		assert.Contains(t, de.Message, missing.String())
		assert.Empty(t, images.stored, "nothing is uploaded before the category check")
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("upload failure aborts", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		images := &fakeImageStore{putErr: shared.NewValidationError("Only image files are allowed")}
		categories.On("FindByID", ctx, category.ID).Return(category, nil)

		svc := newProductService(products, categories, images, nil)
		_, err := svc.Create(ctx, CreateProductRequest{
			Name:        "Fries",
			Description: "Crispy",
			Type:        "small",
			Price:       priceOf("3"),
			MegaMenu:    category.ID,
			Image:       &storage.Image{Filename: "fries.exe", Data: []byte("x")},
		})

		assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid type removes the upload", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		images := &fakeImageStore{}
		categories.On("FindByID", ctx, category.ID).Return(category, nil)

		svc := newProductService(products, categories, images, nil)
		_, err := svc.Create(ctx, CreateProductRequest{
			Name:        "Fries",
			Description: "Crispy",
			Type:        "huge",
			Price:       priceOf("3"),
			MegaMenu:    category.ID,
			Image:       &storage.Image{Filename: "fries.png", Data: []byte("x")},
		})

		assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		assert.Equal(t, images.stored, images.deleted)
	})
}

func TestProductService_GetByID(t *testing.T) {
	ctx := context.Background()
	category := newTestCategory("Burgers")
	product := newTestProduct(category, "Cheeseburger", "9.99")

	t.Run("populates the category", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		products.On("FindByID", ctx, product.ID).Return(product, nil)
		categories.On("FindByID", ctx, category.ID).Return(category, nil)

		resp, err := newProductService(products, categories, nil, nil).GetByID(ctx, product.ID)

		require.NoError(t, err)
		require.NotNil(t, resp.MegaMenu)
		assert.Equal(t, category.ID, resp.MegaMenu.ID)
	})

	t.Run("deleted category leaves megaMenu null", func(t *testing.T) {
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		products.On("FindByID", ctx, product.ID).Return(product, nil)
		categories.On("FindByID", ctx, category.ID).Return(nil, shared.ErrNotFound)

		resp, err := newProductService(products, categories, nil, nil).GetByID(ctx, product.ID)

		require.NoError(t, err)
		assert.Nil(t, resp.MegaMenu)
		assert.Equal(t, category.ID, resp.MegaMenuID)
	})

	t.Run("not found", func(t *testing.T) {
		products := new(MockProductRepository)
		id := uuid.New()
		products.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := newProductService(products, new(MockCategoryRepository), nil, nil).GetByID(ctx, id)

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeNotFound, de.Code)
		assert.Equal(t, "Product not found: "+id.String(), de.Message)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	burgers := newTestCategory("Burgers")
	drinks := newTestCategory("Drinks")
	a := newTestProduct(burgers, "A", "1")
	b := newTestProduct(drinks, "B", "2")
	c := newTestProduct(burgers, "C", "3")

	products := new(MockProductRepository)
	categories := new(MockCategoryRepository)
	products.On("FindAll", ctx, mock.MatchedBy(func(f catalog.ProductFilter) bool {
		return f.Search == "burger" &&
			f.Type == catalog.ProductTypeMedium &&
			f.MinPrice != nil && f.MinPrice.Equal(decimal.NewFromInt(1)) &&
			f.MaxPrice == nil &&
			len(f.Sort) == 2 && f.Sort[0] == shared.SortField{Field: "price", Desc: true}
	})).Return([]catalog.Product{*a, *b, *c}, nil)
	categories.On("FindByIDs", ctx, []uuid.UUID{burgers.ID, drinks.ID}).
		Return([]catalog.Category{*burgers, *drinks}, nil)

	resp, err := newProductService(products, categories, nil, nil).List(ctx, ProductListFilter{
		Search:   "burger",
		Type:     "medium",
		MinPrice: "1",
		Sort:     "-price,name",
	})

	require.NoError(t, err)
	require.Len(t, resp, 3)
	assert.Equal(t, "Burgers", resp[0].MegaMenu.Name)
	assert.Equal(t, "Drinks", resp[1].MegaMenu.Name)
	assert.Equal(t, "Burgers", resp[2].MegaMenu.Name)
	categories.AssertNumberOfCalls(t, "FindByIDs", 1)
}

func TestProductService_List_InvalidFilter(t *testing.T) {
	ctx := context.Background()
	svc := newProductService(new(MockProductRepository), new(MockCategoryRepository), nil, nil)

	cases := []struct {
		name   string
		filter ProductListFilter
	}{
		{"bad category id", ProductListFilter{MegaMenu: "nope"}},
		{"bad type", ProductListFilter{Type: "huge"}},
		{"bad price", ProductListFilter{MinPrice: "ten"}},
		{"inverted range", ProductListFilter{MinPrice: "10", MaxPrice: "5"}},
		{"unknown sort", ProductListFilter{Sort: "secret"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.List(ctx, tc.filter)
			assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		})
	}
}

func TestProductService_ListByCategory(t *testing.T) {
	ctx := context.Background()
	burgers := newTestCategory("Burgers")
	products := new(MockProductRepository)
	products.On("FindAll", ctx, mock.MatchedBy(func(f catalog.ProductFilter) bool {
		return f.CategoryID != nil && *f.CategoryID == burgers.ID
	})).Return([]catalog.Product{}, nil)

	resp, err := newProductService(products, new(MockCategoryRepository), nil, nil).ListByCategory(ctx, burgers.ID)

	require.NoError(t, err)
	assert.Empty(t, resp)
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	burgers := newTestCategory("Burgers")

	t.Run("partial update keeps sales and other fields", func(t *testing.T) {
		product := newTestProduct(burgers, "Cheeseburger", "9.99")
		product.Sales = 42
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		products.On("FindByID", ctx, product.ID).Return(product, nil)
		products.On("Save", ctx, product).Return(nil)
		categories.On("FindByID", ctx, burgers.ID).Return(burgers, nil)

		svc := newProductService(products, categories, &fakeImageStore{}, &fakeCache{})
		resp, err := svc.Update(ctx, product.ID, UpdateProductRequest{Price: priceOf("11.00")})

		require.NoError(t, err)
		assert.True(t, resp.Price.Equal(decimal.NewFromInt(11)))
		assert.Equal(t, "Cheeseburger", resp.Name)
		assert.Equal(t, int64(42), resp.Sales)
	})

	t.Run("moving to a missing category fails", func(t *testing.T) {
		product := newTestProduct(burgers, "Cheeseburger", "9.99")
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		missing := uuid.New()
		products.On("FindByID", ctx, product.ID).Return(product, nil)
		categories.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		svc := newProductService(products, categories, nil, nil)
		_, err := svc.Update(ctx, product.ID, UpdateProductRequest{MegaMenu: &missing})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeReferenceNotFound, de.Code)
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("new image replaces and deletes the old one", func(t *testing.T) {
		product := newTestProduct(burgers, "Cheeseburger", "9.99")
		oldPic := product.Pic
		products := new(MockProductRepository)
		categories := new(MockCategoryRepository)
		images := &fakeImageStore{}
		products.On("FindByID", ctx, product.ID).Return(product, nil)
		products.On("Save", ctx, product).Return(nil)
		categories.On("FindByID", ctx, burgers.ID).Return(burgers, nil)

		svc := newProductService(products, categories, images, nil)
		resp, err := svc.Update(ctx, product.ID, UpdateProductRequest{
			Image: &storage.Image{Filename: "new.png", Data: []byte("x")},
		})

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.test/products/new.png", resp.Pic)
		assert.Equal(t, []string{oldPic}, images.deleted)
	})

	t.Run("save failure removes the new upload and keeps the old image", func(t *testing.T) {
		product := newTestProduct(burgers, "Cheeseburger", "9.99")
		products := new(MockProductRepository)
		images := &fakeImageStore{}
		products.On("FindByID", ctx, product.ID).Return(product, nil)
		products.On("Save", ctx, product).Return(shared.NewPersistenceError("save product", errors.New("boom")))

		svc := newProductService(products, new(MockCategoryRepository), images, nil)
		_, err := svc.Update(ctx, product.ID, UpdateProductRequest{
			Image: &storage.Image{Filename: "new.png", Data: []byte("x")},
		})

		require.Error(t, err)
		assert.Equal(t, []string{"https://cdn.test/products/new.png"}, images.deleted)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()
	burgers := newTestCategory("Burgers")
	product := newTestProduct(burgers, "Cheeseburger", "9.99")
	products := new(MockProductRepository)
	images := &fakeImageStore{}
	c := &fakeCache{}
	products.On("FindByID", ctx, product.ID).Return(product, nil)
	products.On("Delete", ctx, product.ID).Return(nil)

	svc := newProductService(products, new(MockCategoryRepository), images, c)
	require.NoError(t, svc.Delete(ctx, product.ID))

	assert.Equal(t, []string{product.Pic}, images.deleted)
	assert.Equal(t, 1, c.invalidations)
}

func TestProductService_Count(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	products.On("Count", ctx).Return(int64(7), nil)

	n, err := newProductService(products, new(MockCategoryRepository), nil, nil).Count(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}
