package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/cache"
	"github.com/menuhub/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles product business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	images       storage.ImageStore
	cache        cache.ResponseCache
	clock        shared.Clock
	logger       *zap.Logger
}

// NewProductService creates a new ProductService. images and responseCache may be nil.
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	images storage.ImageStore,
	responseCache cache.ResponseCache,
	clock shared.Clock,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
		cache:        responseCache,
		clock:        clock,
		logger:       logger,
	}
}

// Create creates a new product in an existing category
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	category, err := s.requireCategory(ctx, req.MegaMenu)
	if err != nil {
		return nil, err
	}
	if req.Price == nil {
		return nil, shared.NewValidationError("Please add a price")
	}

	pic, uploaded, err := storeImage(ctx, s.images, storage.FolderProducts, req.Pic, req.Image)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(catalog.NewProductInput{
		Name:        req.Name,
		Pic:         pic,
		Description: req.Description,
		Type:        catalog.ProductType(req.Type),
		Price:       *req.Price,
		CategoryID:  category.ID,
	}, s.clock.Now())
	if err != nil {
		deleteImage(ctx, s.images, uploaded, s.logger)
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		deleteImage(ctx, s.images, uploaded, s.logger)
		return nil, err
	}
	invalidateResponses(ctx, s.cache, s.logger)

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("category_id", category.ID.String()),
	)
	resp := ToProductResponse(product, category)
	return &resp, nil
}

// GetByID retrieves a product with its category populated
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Product", id)
	}

	category, err := s.categoryRepo.FindByID(ctx, product.CategoryID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	resp := ToProductResponse(product, category)
	return &resp, nil
}

// List retrieves products matching the filter, newest first unless a sort is given
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, error) {
	domainFilter, err := toDomainProductFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, domainFilter)
}

// ListByCategory retrieves the products of one category
func (s *ProductService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]ProductResponse, error) {
	return s.list(ctx, catalog.ProductFilter{
		Filter:     shared.Filter{Sort: shared.DefaultSort()},
		CategoryID: &categoryID,
	})
}

func (s *ProductService) list(ctx context.Context, filter catalog.ProductFilter) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoriesOf(ctx, products)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i], categories[products[i].CategoryID])
	}
	return responses, nil
}

// Update applies a partial update. A new category must exist; a replaced
// image is removed from storage on a best-effort basis.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Product", id)
	}

	changes := catalog.ProductChanges{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.MegaMenu,
	}
	if req.Type != nil {
		t := catalog.ProductType(*req.Type)
		changes.Type = &t
	}

	if changes.CategoryChanged(product.CategoryID) {
		if _, err := s.requireCategory(ctx, *changes.CategoryID); err != nil {
			return nil, err
		}
	}

	oldPic := product.Pic
	var uploaded string
	if req.Image != nil || req.Pic != nil {
		var pic string
		if req.Pic != nil {
			pic = *req.Pic
		}
		pic, uploaded, err = storeImage(ctx, s.images, storage.FolderProducts, pic, req.Image)
		if err != nil {
			return nil, err
		}
		changes.Pic = &pic
	}

	if err := product.Apply(changes, s.clock.Now()); err != nil {
		deleteImage(ctx, s.images, uploaded, s.logger)
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		deleteImage(ctx, s.images, uploaded, s.logger)
		return nil, err
	}
	if oldPic != product.Pic {
		deleteImage(ctx, s.images, oldPic, s.logger)
	}
	invalidateResponses(ctx, s.cache, s.logger)

	category, err := s.categoryRepo.FindByID(ctx, product.CategoryID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	resp := ToProductResponse(product, category)
	return &resp, nil
}

// Delete deletes a product and its image. Orders that reference it are left intact.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "Product", id)
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	deleteImage(ctx, s.images, product.Pic, s.logger)
	invalidateResponses(ctx, s.cache, s.logger)

	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

// Count returns the number of products
func (s *ProductService) Count(ctx context.Context) (int64, error) {
	return s.productRepo.Count(ctx)
}

// requireCategory loads a category referenced from a request body
func (s *ProductService) requireCategory(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	if id == uuid.Nil {
		return nil, shared.NewValidationError("Please add a megamenu category")
	}
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewReferenceNotFoundError("MegaMenu", id)
		}
		return nil, err
	}
	return category, nil
}

func (s *ProductService) categoriesOf(ctx context.Context, products []catalog.Product) (map[uuid.UUID]*catalog.Category, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for i := range products {
		if _, ok := seen[products[i].CategoryID]; ok {
			continue
		}
		seen[products[i].CategoryID] = struct{}{}
		ids = append(ids, products[i].CategoryID)
	}

	out := make(map[uuid.UUID]*catalog.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	categories, err := s.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		out[categories[i].ID] = &categories[i]
	}
	return out, nil
}

func toDomainProductFilter(f ProductListFilter) (catalog.ProductFilter, error) {
	sort, err := catalog.ParseProductSort(f.Sort)
	if err != nil {
		return catalog.ProductFilter{}, err
	}
	out := catalog.ProductFilter{
		Filter: shared.Filter{
			Search: strings.TrimSpace(f.Search),
			Sort:   sort,
		},
	}

	if f.MegaMenu != "" {
		id, err := uuid.Parse(f.MegaMenu)
		if err != nil {
			return out, shared.NewValidationError("Invalid megaMenu id: %s", f.MegaMenu)
		}
		out.CategoryID = &id
	}
	if f.Type != "" {
		t := catalog.ProductType(f.Type)
		if !t.IsValid() {
			return out, shared.NewValidationError("Type must be one of small, medium, large; got %q", f.Type)
		}
		out.Type = t
	}
	if out.MinPrice, err = parsePrice("minPrice", f.MinPrice); err != nil {
		return out, err
	}
	if out.MaxPrice, err = parsePrice("maxPrice", f.MaxPrice); err != nil {
		return out, err
	}
	if out.MinPrice != nil && out.MaxPrice != nil && out.MinPrice.GreaterThan(*out.MaxPrice) {
		return out, shared.NewValidationError("minPrice cannot be greater than maxPrice")
	}
	return out, nil
}

func parsePrice(name, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, shared.NewValidationError("Invalid %s: %s", name, raw)
	}
	return &d, nil
}
