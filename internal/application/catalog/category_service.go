package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/cache"
	"github.com/menuhub/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// CategoryService handles category ("mega menu") business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	images       storage.ImageStore
	cache        cache.ResponseCache
	clock        shared.Clock
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService. images and responseCache may be nil.
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	images storage.ImageStore,
	responseCache cache.ResponseCache,
	clock shared.Clock,
	logger *zap.Logger,
) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{
		categoryRepo: categoryRepo,
		images:       images,
		cache:        responseCache,
		clock:        clock,
		logger:       logger,
	}
}

// Create creates a new category. An uploaded image takes precedence over a pic URL.
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	pic, uploaded, err := s.resolvePic(ctx, req.Pic, req.Image)
	if err != nil {
		return nil, err
	}

	category, err := catalog.NewCategory(req.Name, pic, s.clock.Now())
	if err != nil {
		s.discardUpload(ctx, uploaded)
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		s.discardUpload(ctx, uploaded)
		return nil, err
	}
	invalidateResponses(ctx, s.cache, s.logger)

	s.logger.Info("Category created", zap.String("category_id", category.ID.String()), zap.String("name", category.Name))
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "MegaMenu", id)
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List retrieves all categories, newest first
func (s *CategoryService) List(ctx context.Context, filter CategoryListFilter) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, shared.Filter{
		Search: strings.TrimSpace(filter.Search),
		Sort:   shared.DefaultSort(),
	})
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// Update renames a category and optionally replaces its picture.
// The replaced image is removed from storage on a best-effort basis.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "MegaMenu", id)
	}

	now := s.clock.Now()
	if req.Name != nil {
		if err := category.Rename(*req.Name, now); err != nil {
			return nil, err
		}
	}

	var oldPic, uploaded string
	if req.Image != nil || req.Pic != nil {
		var pic string
		if req.Pic != nil {
			pic = *req.Pic
		}
		pic, uploaded, err = s.resolvePic(ctx, pic, req.Image)
		if err != nil {
			return nil, err
		}
		if oldPic, err = category.SetPic(pic, now); err != nil {
			s.discardUpload(ctx, uploaded)
			return nil, err
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		s.discardUpload(ctx, uploaded)
		return nil, err
	}
	if oldPic != "" && oldPic != category.Pic {
		s.discardUpload(ctx, oldPic)
	}
	invalidateResponses(ctx, s.cache, s.logger)

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete deletes a category. Products keep their dangling reference.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "MegaMenu", id)
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.discardUpload(ctx, category.Pic)
	invalidateResponses(ctx, s.cache, s.logger)

	s.logger.Info("Category deleted", zap.String("category_id", id.String()))
	return nil
}

// Count returns the number of categories
func (s *CategoryService) Count(ctx context.Context) (int64, error) {
	return s.categoryRepo.Count(ctx)
}

// resolvePic stores an upload if there is one and returns the pic to save,
// plus the URL of the freshly stored object (empty when nothing was uploaded).
func (s *CategoryService) resolvePic(ctx context.Context, pic string, img *storage.Image) (string, string, error) {
	return storeImage(ctx, s.images, storage.FolderCategories, pic, img)
}

func (s *CategoryService) discardUpload(ctx context.Context, url string) {
	deleteImage(ctx, s.images, url, s.logger)
}
