package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/cache"
	"github.com/menuhub/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// fakeImageStore records stored and deleted images in memory
type fakeImageStore struct {
	mu      sync.Mutex
	stored  []string
	deleted []string
	putErr  error
}

func (f *fakeImageStore) Put(_ context.Context, folder string, img storage.Image) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return "", f.putErr
	}
	url := "https://cdn.test/" + folder + "/" + strings.ToLower(img.Filename)
	f.stored = append(f.stored, url)
	return url, nil
}

func (f *fakeImageStore) Delete(_ context.Context, publicURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicURL)
	return nil
}

// fakeCache counts invalidations
type fakeCache struct {
	invalidations int
}

func (f *fakeCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (f *fakeCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (f *fakeCache) InvalidatePrefix(context.Context, string) error {
	f.invalidations++
	return nil
}

func (f *fakeCache) Close() error { return nil }

func newTestCategory(name string) *catalog.Category {
	c, err := catalog.NewCategory(name, "https://cdn.test/megamenu/"+strings.ToLower(name)+".png", testNow)
	if err != nil {
		panic(err)
	}
	return c
}

// collaborators keeps nil fakes as untyped nil interfaces
func collaborators(images *fakeImageStore, c *fakeCache) (storage.ImageStore, cache.ResponseCache) {
	var store storage.ImageStore
	if images != nil {
		store = images
	}
	var rc cache.ResponseCache
	if c != nil {
		rc = c
	}
	return store, rc
}
