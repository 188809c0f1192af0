package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/menuhub/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testNow is truncated to seconds and kept in UTC so SQLite round-trips it exactly
var testNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

// newSQLiteDB opens a migrated in-memory database private to the test
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// newMockGormDB creates a postgres-dialect gorm.DB backed by sqlmock
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

func seedCategory(t *testing.T, repo *GormCategoryRepository, name string, at time.Time) *catalog.Category {
	t.Helper()
	category, err := catalog.NewCategory(name, "/uploads/megamenu/"+name+".png", at)
	require.NoError(t, err)
	require.NoError(t, repo.Save(t.Context(), category))
	return category
}

func seedProduct(t *testing.T, repo *GormProductRepository, category *catalog.Category, name, price string, at time.Time) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(catalog.NewProductInput{
		Name:        name,
		Pic:         "/uploads/products/" + name + ".png",
		Description: name + " description",
		Type:        catalog.ProductTypeMedium,
		Price:       decimal.RequireFromString(price),
		CategoryID:  category.ID,
	}, at)
	require.NoError(t, err)
	require.NoError(t, repo.Save(t.Context(), product))
	return product
}

func snapshotOf(p *catalog.Product) trade.ProductSnapshot {
	return trade.ProductSnapshot{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Type:  string(p.Type),
		Pic:   p.Pic,
	}
}

func newTestOrder(t *testing.T, number int64, at time.Time, items []trade.LineItem, products ...*catalog.Product) (*trade.Order, *trade.OrderPlan) {
	t.Helper()
	snapshots := make([]trade.ProductSnapshot, len(products))
	for i, p := range products {
		snapshots[i] = snapshotOf(p)
	}
	plan, err := trade.ComputeOrderTotal(items, trade.NewProductCatalog(snapshots))
	require.NoError(t, err)
	order, err := trade.NewOrder(number, plan, trade.OrderDetails{CustomerName: "Ana", Phone: "555-0101"}, at)
	require.NoError(t, err)
	return order, plan
}
