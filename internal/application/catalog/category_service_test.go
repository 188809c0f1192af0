package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCategoryService(repo *MockCategoryRepository, images *fakeImageStore, c *fakeCache) *CategoryService {
	store, rc := collaborators(images, c)
	return NewCategoryService(repo, store, rc, shared.FixedClock{T: testNow}, nil)
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the uploaded picture", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		images := &fakeImageStore{}
		c := &fakeCache{}
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

		svc := newCategoryService(repo, images, c)
		resp, err := svc.Create(ctx, CreateCategoryRequest{
			Name:  "  Burgers ",
			Image: &storage.Image{Filename: "Burgers.PNG", Data: []byte("x")},
		})

		require.NoError(t, err)
		assert.Equal(t, "Burgers", resp.Name)
		assert.Equal(t, "https://cdn.test/megamenu/burgers.png", resp.Pic)
		assert.Equal(t, testNow, resp.CreatedAt)
		assert.Equal(t, 1, c.invalidations)
		repo.AssertExpectations(t)
	})

	t.Run("accepts a picture URL", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

		svc := newCategoryService(repo, &fakeImageStore{}, &fakeCache{})
		resp, err := svc.Create(ctx, CreateCategoryRequest{Name: "Drinks", Pic: "https://img.test/drinks.jpg"})

		require.NoError(t, err)
		assert.Equal(t, "https://img.test/drinks.jpg", resp.Pic)
	})

	t.Run("requires a picture", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		svc := newCategoryService(repo, &fakeImageStore{}, &fakeCache{})

		_, err := svc.Create(ctx, CreateCategoryRequest{Name: "Drinks"})

		require.Error(t, err)
		assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		assert.Equal(t, "Please upload a picture", err.Error())
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("removes the upload when the name is invalid", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		images := &fakeImageStore{}
		svc := newCategoryService(repo, images, &fakeCache{})

		_, err := svc.Create(ctx, CreateCategoryRequest{
			Name:  "",
			Image: &storage.Image{Filename: "a.png", Data: []byte("x")},
		})

		require.Error(t, err)
		assert.Equal(t, images.stored, images.deleted)
	})

	t.Run("removes the upload when saving fails", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		images := &fakeImageStore{}
		c := &fakeCache{}
		repo.On("Save", ctx, mock.Anything).Return(shared.NewPersistenceError("save category", errors.New("db down")))

		svc := newCategoryService(repo, images, c)
		_, err := svc.Create(ctx, CreateCategoryRequest{
			Name:  "Pizza",
			Image: &storage.Image{Filename: "p.png", Data: []byte("x")},
		})

		require.Error(t, err)
		assert.Equal(t, shared.KindPersistenceFault, shared.KindOf(err))
		assert.Len(t, images.deleted, 1)
		assert.Zero(t, c.invalidations)
	})
}

func TestCategoryService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCategoryRepository)
	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	svc := newCategoryService(repo, nil, nil)
	_, err := svc.GetByID(ctx, id)

	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, shared.CodeNotFound, de.Code)
	assert.Contains(t, de.Message, "MegaMenu not found")
}

func TestCategoryService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCategoryRepository)
	burgers := newTestCategory("Burgers")
	repo.On("FindAll", ctx, shared.Filter{Search: "bur", Sort: shared.DefaultSort()}).
		Return([]catalog.Category{*burgers}, nil)

	svc := newCategoryService(repo, nil, nil)
	resp, err := svc.List(ctx, CategoryListFilter{Search: " bur "})

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, burgers.ID, resp[0].ID)
}

func TestCategoryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the picture and deletes the old one", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		images := &fakeImageStore{}
		c := &fakeCache{}
		existing := newTestCategory("Burgers")
		oldPic := existing.Pic
		repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		repo.On("Save", ctx, existing).Return(nil)

		name := "Smash Burgers"
		svc := newCategoryService(repo, images, c)
		resp, err := svc.Update(ctx, existing.ID, UpdateCategoryRequest{
			Name:  &name,
			Image: &storage.Image{Filename: "smash.png", Data: []byte("x")},
		})

		require.NoError(t, err)
		assert.Equal(t, "Smash Burgers", resp.Name)
		assert.Equal(t, "https://cdn.test/megamenu/smash.png", resp.Pic)
		assert.Equal(t, []string{oldPic}, images.deleted)
		assert.Equal(t, 1, c.invalidations)
	})

	t.Run("keeps the picture when none is given", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		images := &fakeImageStore{}
		existing := newTestCategory("Burgers")
		pic := existing.Pic
		repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		repo.On("Save", ctx, existing).Return(nil)

		name := "Grill"
		svc := newCategoryService(repo, images, nil)
		resp, err := svc.Update(ctx, existing.ID, UpdateCategoryRequest{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, pic, resp.Pic)
		assert.Empty(t, images.deleted)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		svc := newCategoryService(repo, nil, nil)
		_, err := svc.Update(ctx, id, UpdateCategoryRequest{})

		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCategoryRepository)
	images := &fakeImageStore{}
	c := &fakeCache{}
	existing := newTestCategory("Burgers")
	repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	repo.On("Delete", ctx, existing.ID).Return(nil)

	svc := newCategoryService(repo, images, c)
	require.NoError(t, svc.Delete(ctx, existing.ID))

	assert.Equal(t, []string{existing.Pic}, images.deleted)
	assert.Equal(t, 1, c.invalidations)
	repo.AssertExpectations(t)
}
