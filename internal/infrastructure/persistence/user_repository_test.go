package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository(t *testing.T) {
	repo := NewGormUserRepository(newSQLiteDB(t))
	ctx := context.Background()

	user, err := identity.NewUser("Ana", "Ana@Example.com", "secret123", testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	t.Run("find by email ignores case", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "ANA@example.COM")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.True(t, found.VerifyPassword("secret123"))
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "bea@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("promotion persists", func(t *testing.T) {
		user.Promote(testNow.Add(time.Minute))
		require.NoError(t, repo.Save(ctx, user))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, found.IsAdmin())
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup, err := identity.NewUser("Other", "ana@example.com", "secret123", testNow)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
