package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/menuhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderSequence is the sequences row backing order numbers
const OrderSequence = "orders"

const nextSequenceSQL = `INSERT INTO sequences (name, current_value) VALUES (?, 1)
ON CONFLICT (name) DO UPDATE SET current_value = sequences.current_value + 1
RETURNING current_value`

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewPersistenceError("find order", err)
	}
	return model.ToDomain(), nil
}

// FindAll finds orders in the filter window, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, error) {
	var rows []models.OrderModel
	query := applyOrderFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	if err := query.Preload("Items").Order("created_at DESC").Order("number DESC").Find(&rows).Error; err != nil {
		return nil, shared.NewPersistenceError("list orders", err)
	}
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Count counts orders in the filter window
func (r *GormOrderRepository) Count(ctx context.Context, filter trade.OrderFilter) (int64, error) {
	var count int64
	query := applyOrderFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, shared.NewPersistenceError("count orders", err)
	}
	return count, nil
}

// Create inserts the order with its items and bumps product sales counters in
// one transaction. A missing product rolls the whole order back.
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order, increments []trade.SalesIncrement) error {
	model := models.OrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return err
			}
		}
		for _, inc := range increments {
			result := tx.Model(&models.ProductModel{}).
				Where("id = ?", inc.ProductID).
				UpdateColumn("sales", gorm.Expr("sales + ?", inc.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.NewReferenceNotFoundError("Product", inc.ProductID)
			}
		}
		return nil
	})
	return wrapPersistence("create order", err)
}

// Update saves order fields and replaces its items. Sales counters are not touched.
func (r *GormOrderRepository) Update(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(model).
			Select("customer_name", "phone", "discount", "total_amount", "status", "updated_at").
			UpdateColumns(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := tx.Where("order_id = ?", model.ID).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) > 0 {
			return tx.Create(&model.Items).Error
		}
		return nil
	})
	return wrapPersistence("update order", err)
}

// Delete removes an order and its items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.OrderModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	return wrapPersistence("delete order", err)
}

// NextNumber atomically allocates the next order number. Concurrent callers
// never receive the same value; a failed order leaves a gap.
func (r *GormOrderRepository) NextNumber(ctx context.Context) (int64, error) {
	var next int64
	if err := r.db.WithContext(ctx).Raw(nextSequenceSQL, OrderSequence).Scan(&next).Error; err != nil {
		return 0, shared.NewPersistenceError("allocate order number", err)
	}
	return next, nil
}

func applyOrderFilter(query *gorm.DB, filter trade.OrderFilter) *gorm.DB {
	if filter.Since != nil {
		query = query.Where("created_at >= ?", filter.Since.UTC())
	}
	if filter.Until != nil {
		query = query.Where("created_at < ?", filter.Until.UTC())
	}
	return query
}

// wrapPersistence passes domain errors through and wraps driver errors
func wrapPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return shared.NewPersistenceError(op, err)
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
