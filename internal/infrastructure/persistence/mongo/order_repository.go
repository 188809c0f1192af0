package mongo

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/trade"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// OrderCounter is the counters document backing order numbers
const OrderCounter = "orders"

// OrderRepository implements trade.OrderRepository on MongoDB.
// Standalone deployments have no multi-document transactions, so Create
// checks product references up front and removes the order if the counter
// update fails. Increments applied by a bulk write that failed part way are
// not reverted: counters only ever grow, and the applied count is logged.
type OrderRepository struct {
	orders   *mongo.Collection
	products *mongo.Collection
	counters *mongo.Collection
	logger   *zap.Logger
}

// NewOrderRepository creates an OrderRepository
func NewOrderRepository(db *mongo.Database, logger *zap.Logger) *OrderRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderRepository{
		orders:   db.Collection(OrdersCollection),
		products: db.Collection(ProductsCollection),
		counters: db.Collection(CountersCollection),
		logger:   logger,
	}
}

// FindByID finds an order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	doc, err := findOne[orderDoc](ctx, r.orders, bson.M{"_id": id.String()}, "find order")
	if err != nil {
		return nil, err
	}
	order := doc.toDomain()
	return &order, nil
}

// FindAll finds orders in the filter window, newest first
func (r *OrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "number", Value: -1}})
	docs, err := findAll[orderDoc](ctx, r.orders, windowQuery(filter), opts, "list orders")
	if err != nil {
		return nil, err
	}
	orders := make([]trade.Order, len(docs))
	for i, d := range docs {
		orders[i] = d.toDomain()
	}
	return orders, nil
}

// Count counts orders in the filter window
func (r *OrderRepository) Count(ctx context.Context, filter trade.OrderFilter) (int64, error) {
	n, err := r.orders.CountDocuments(ctx, windowQuery(filter))
	if err != nil {
		return 0, shared.NewPersistenceError("count orders", err)
	}
	return n, nil
}

// Create inserts the order and bumps product sales counters
func (r *OrderRepository) Create(ctx context.Context, order *trade.Order, increments []trade.SalesIncrement) error {
	if err := r.checkProducts(ctx, increments); err != nil {
		return err
	}

	doc := orderToDoc(order)
	if _, err := r.orders.InsertOne(ctx, doc); err != nil {
		return shared.NewPersistenceError("create order", err)
	}
	if len(increments) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, len(increments))
	for i, inc := range increments {
		writes[i] = mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": inc.ProductID.String()}).
			SetUpdate(bson.M{"$inc": bson.M{"sales": inc.Quantity}})
	}
	result, err := r.products.BulkWrite(ctx, writes)
	if err != nil {
		var applied int64
		if result != nil {
			applied = result.ModifiedCount
		}
		r.logger.Warn("Sales counter update failed, removing order",
			zap.String("order_id", doc.ID),
			zap.Int64("applied_increments", applied),
			zap.Int("total_increments", len(writes)),
			zap.Error(err))
		if _, delErr := r.orders.DeleteOne(context.WithoutCancel(ctx), bson.M{"_id": doc.ID}); delErr != nil {
			r.logger.Error("Failed to remove order after sales counter update failed",
				zap.String("order_id", doc.ID),
				zap.Error(delErr))
		}
		return shared.NewPersistenceError("update sales counters", err)
	}
	return nil
}

// checkProducts fails with ReferenceNotFound for the first increment whose product is missing
func (r *OrderRepository) checkProducts(ctx context.Context, increments []trade.SalesIncrement) error {
	if len(increments) == 0 {
		return nil
	}
	ids := make([]string, len(increments))
	for i, inc := range increments {
		ids[i] = inc.ProductID.String()
	}

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return shared.NewPersistenceError("check products", err)
	}
	defer cursor.Close(ctx)

	var found []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &found); err != nil {
		return shared.NewPersistenceError("check products", err)
	}
	present := make(map[string]bool, len(found))
	for _, f := range found {
		present[f.ID] = true
	}
	for _, inc := range increments {
		if !present[inc.ProductID.String()] {
			return shared.NewReferenceNotFoundError("Product", inc.ProductID)
		}
	}
	return nil
}

// Update saves order fields and items. Sales counters are not touched.
func (r *OrderRepository) Update(ctx context.Context, order *trade.Order) error {
	doc := orderToDoc(order)
	update := bson.M{"$set": bson.M{
		"customerName": doc.CustomerName,
		"phone":        doc.Phone,
		"discount":     doc.Discount,
		"totalAmount":  doc.TotalAmount,
		"status":       doc.Status,
		"items":        doc.Items,
		"updatedAt":    doc.UpdatedAt,
	}}
	result, err := r.orders.UpdateByID(ctx, doc.ID, update)
	if err != nil {
		return shared.NewPersistenceError("update order", err)
	}
	if result.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an order
func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.orders, id.String(), "delete order")
}

// NextNumber atomically allocates the next order number
func (r *OrderRepository) NextNumber(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter counterDoc
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": OrderCounter},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, shared.NewPersistenceError("allocate order number", err)
	}
	return counter.Value, nil
}

func windowQuery(filter trade.OrderFilter) bson.M {
	created := bson.M{}
	if filter.Since != nil {
		created["$gte"] = filter.Since.UTC()
	}
	if filter.Until != nil {
		created["$lt"] = filter.Until.UTC()
	}
	if len(created) == 0 {
		return bson.M{}
	}
	return bson.M{"createdAt": created}
}

var _ trade.OrderRepository = (*OrderRepository)(nil)
