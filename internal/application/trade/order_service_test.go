package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/menuhub/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter trade.OrderFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *trade.Order, increments []trade.SalesIncrement) error {
	args := m.Called(ctx, order, increments)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) NextNumber(ctx context.Context) (int64, error) {
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

func testProduct(name, price string) catalog.Product {
	p, err := catalog.NewProduct(catalog.NewProductInput{
		Name:        name,
		Pic:         "https://cdn.test/products/" + name + ".png",
		Description: name,
		Type:        catalog.ProductTypeMedium,
		Price:       decimal.RequireFromString(price),
		CategoryID:  uuid.New(),
	}, testNow)
	if err != nil {
		panic(err)
	}
	return *p
}

func newOrderService(orders *MockOrderRepository, products *MockProductRepository) *OrderService {
	return NewOrderService(orders, products, nil, shared.FixedClock{T: testNow}, zap.NewNop())
}

func TestOrderService_Create(t *testing.T) {
	ctx := mock.Anything
	burger := testProduct("Burger", "12.50")
	fries := testProduct("Fries", "7.25")

	t.Run("prices items and persists order with sales increments", func(t *testing.T) {
		orders := new(MockOrderRepository)
		products := new(MockProductRepository)
		products.On("FindByIDs", ctx, []uuid.UUID{burger.ID, fries.ID}).
			Return([]catalog.Product{burger, fries}, nil)
		orders.On("NextNumber", ctx).Return(int64(41), nil)
		orders.On("Create", ctx, mock.AnythingOfType("*trade.Order"), []trade.SalesIncrement{
			{ProductID: burger.ID, Quantity: 3},
			{ProductID: fries.ID, Quantity: 2},
		}).Return(nil)

		result, err := newOrderService(orders, products).Create(context.Background(), CreateOrderRequest{
			Products: []OrderItemRequest{
				{Product: burger.ID, Quantity: 3},
				{Product: fries.ID, Quantity: 2, Type: "spicy"},
			},
			CustomerName: " Ada ",
			Phone:        "555-0100",
			Discount:     ptrDecimal("5"),
		})

		require.NoError(t, err)
		assert.True(t, result.Order.TotalAmount.Equal(decimal.RequireFromString("52.00")))
		assert.Equal(t, int64(41), result.Order.OrderNumber)
		assert.Equal(t, "Completed", result.Order.Status)
		assert.Equal(t, "Ada", result.Order.CustomerName)
		require.NotNil(t, result.Order.Products[0].Product)
		assert.Equal(t, burger.Pic, result.Order.Products[0].Product.Pic)

		receipt := result.Receipt
		assert.Equal(t, trade.ReceiptNumber(result.Order.ID), receipt.ReceiptNumber)
		assert.Equal(t, result.Order.ID, receipt.OrderID)
		assert.True(t, receipt.Subtotal.Equal(receipt.Total))
		assert.True(t, receipt.Total.Equal(decimal.RequireFromString("52")), "discount is never applied")
		assert.True(t, receipt.Discount.Equal(decimal.NewFromInt(5)))
		require.Len(t, receipt.Items, 2)
		assert.Equal(t, "spicy", receipt.Items[1].Type)
		assert.True(t, receipt.Items[1].Total.Equal(decimal.RequireFromString("14.5")))
		assert.Equal(t, testNow, receipt.Date)
		orders.AssertExpectations(t)
	})

	t.Run("missing product aborts before any write", func(t *testing.T) {
		orders := new(MockOrderRepository)
		products := new(MockProductRepository)
		missing := uuid.New()
		products.On("FindByIDs", ctx, []uuid.UUID{burger.ID, missing}).
			Return([]catalog.Product{burger}, nil)

		result, err := newOrderService(orders, products).Create(context.Background(), CreateOrderRequest{
			Products: []OrderItemRequest{
				{Product: burger.ID, Quantity: 1},
				{Product: missing, Quantity: 1},
			},
		})

		assert.Nil(t, result)
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
		assert.Contains(t, err.Error(), missing.String())
		orders.AssertNotCalled(t, "NextNumber", mock.Anything)
		orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty order is rejected without reads", func(t *testing.T) {
		orders := new(MockOrderRepository)
		products := new(MockProductRepository)

		_, err := newOrderService(orders, products).Create(context.Background(), CreateOrderRequest{})

		require.Error(t, err)
		assert.Equal(t, "No products in order", err.Error())
		products.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	})

	t.Run("invalid status does not consume an order number", func(t *testing.T) {
		orders := new(MockOrderRepository)
		products := new(MockProductRepository)
		products.On("FindByIDs", ctx, []uuid.UUID{burger.ID}).Return([]catalog.Product{burger}, nil)

		_, err := newOrderService(orders, products).Create(context.Background(), CreateOrderRequest{
			Products: []OrderItemRequest{{Product: burger.ID, Quantity: 1}},
			Status:   "Shipped",
		})

		assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		orders.AssertNotCalled(t, "NextNumber", mock.Anything)
	})

	t.Run("store failure is a persistence fault", func(t *testing.T) {
		orders := new(MockOrderRepository)
		products := new(MockProductRepository)
		products.On("FindByIDs", ctx, []uuid.UUID{burger.ID}).Return([]catalog.Product{burger}, nil)
		orders.On("NextNumber", ctx).Return(int64(1), nil)
		orders.On("Create", ctx, mock.Anything, mock.Anything).
			Return(shared.NewPersistenceError("create order", errors.New("connection reset")))

		_, err := newOrderService(orders, products).Create(context.Background(), CreateOrderRequest{
			Products: []OrderItemRequest{{Product: burger.ID, Quantity: 1}},
		})

		assert.Equal(t, shared.KindPersistenceFault, shared.KindOf(err))
	})
}

func TestOrderService_Create_RecordsBusinessMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meters := telemetry.NewMeterProviderWithReader(reader, zap.NewNop())
	bm, err := telemetry.NewBusinessMetrics(meters)
	require.NoError(t, err)

	burger := testProduct("Burger", "10")
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{burger}, nil)
	orders.On("NextNumber", mock.Anything).Return(int64(1), nil)
	orders.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newOrderService(orders, products)
	svc.SetBusinessMetrics(bm)

	_, err = svc.Create(context.Background(), CreateOrderRequest{
		Products: []OrderItemRequest{{Product: burger.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateOrderRequest{})
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	values := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					values[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), values["orders_created_total"])
	assert.Equal(t, int64(2), values["order_items_sold_total"])
	assert.Equal(t, int64(1), values["orders_rejected_total"])
}

func TestOrderService_Update(t *testing.T) {
	ctx := mock.Anything
	burger := testProduct("Burger", "10.00")
	fries := testProduct("Fries", "4.00")

	existingOrder := func() *trade.Order {
		plan, err := trade.ComputeOrderTotal(
			[]trade.LineItem{{ProductID: burger.ID, Quantity: 1}},
			trade.NewProductCatalog([]trade.ProductSnapshot{Snapshot(&burger)}),
		)
		require.NoError(t, err)
		o, err := trade.NewOrder(7, plan, trade.OrderDetails{}, testNow.Add(-time.Hour))
		require.NoError(t, err)
		return o
	}

	t.Run("replacing items recomputes the total without touching counters", func(t *testing.T) {
		order := existingOrder()
		orders := new(MockOrderRepository)
		products := new(MockProductRepository)
		orders.On("FindByID", ctx, order.ID).Return(order, nil)
		products.On("FindByIDs", ctx, []uuid.UUID{fries.ID}).Return([]catalog.Product{fries}, nil)
		orders.On("Update", ctx, order).Return(nil)

		status := "Pending"
		result, err := newOrderService(orders, products).Update(context.Background(), order.ID, UpdateOrderRequest{
			Products: []OrderItemRequest{{Product: fries.ID, Quantity: 3}},
			Status:   &status,
		})

		require.NoError(t, err)
		assert.True(t, result.Order.TotalAmount.Equal(decimal.NewFromInt(12)))
		assert.Equal(t, "Pending", result.Receipt.Status)
		assert.Equal(t, int64(7), result.Receipt.OrderNumber)
		orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("customer-only update keeps items and tolerates deleted products", func(t *testing.T) {
		order := existingOrder()
		orders := new(MockOrderRepository)
		products := new(MockProductRepository)
		orders.On("FindByID", ctx, order.ID).Return(order, nil)
		orders.On("Update", ctx, order).Return(nil)
		products.On("FindByIDs", ctx, []uuid.UUID{burger.ID}).Return([]catalog.Product{}, nil)

		name := "Grace"
		result, err := newOrderService(orders, products).Update(context.Background(), order.ID, UpdateOrderRequest{
			CustomerName: &name,
		})

		require.NoError(t, err)
		assert.Equal(t, "Grace", result.Receipt.CustomerName)
		assert.True(t, result.Receipt.Total.Equal(decimal.NewFromInt(10)))
		require.Len(t, result.Receipt.Items, 1)
		assert.Empty(t, result.Receipt.Items[0].Name)
		assert.Nil(t, result.Order.Products[0].Product)
	})

	t.Run("missing product leaves the order untouched", func(t *testing.T) {
		order := existingOrder()
		orders := new(MockOrderRepository)
		products := new(MockProductRepository)
		missing := uuid.New()
		orders.On("FindByID", ctx, order.ID).Return(order, nil)
		products.On("FindByIDs", ctx, []uuid.UUID{missing}).Return([]catalog.Product{}, nil)

		_, err := newOrderService(orders, products).Update(context.Background(), order.ID, UpdateOrderRequest{
			Products: []OrderItemRequest{{Product: missing, Quantity: 1}},
		})

		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
		orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown order", func(t *testing.T) {
		orders := new(MockOrderRepository)
		id := uuid.New()
		orders.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := newOrderService(orders, new(MockProductRepository)).Update(context.Background(), id, UpdateOrderRequest{})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "Order not found: "+id.String(), de.Message)
	})
}

func TestOrderService_GetAndList(t *testing.T) {
	ctx := mock.Anything
	burger := testProduct("Burger", "10.00")
	plan, err := trade.ComputeOrderTotal(
		[]trade.LineItem{{ProductID: burger.ID, Quantity: 2}},
		trade.NewProductCatalog([]trade.ProductSnapshot{Snapshot(&burger)}),
	)
	require.NoError(t, err)
	order, err := trade.NewOrder(1, plan, trade.OrderDetails{}, testNow)
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	orders.On("FindByID", ctx, order.ID).Return(order, nil)
	orders.On("FindAll", ctx, trade.OrderFilter{}).Return([]trade.Order{*order}, nil)
	products.On("FindByIDs", ctx, []uuid.UUID{burger.ID}).Return([]catalog.Product{burger}, nil)
	svc := newOrderService(orders, products)

	got, err := svc.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Burger", got.Products[0].Product.Name)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, order.ID, list[0].ID)
}

func TestOrderService_Delete(t *testing.T) {
	ctx := mock.Anything

	t.Run("never touches sales counters", func(t *testing.T) {
		orders := new(MockOrderRepository)
		products := new(MockProductRepository)
		id := uuid.New()
		orders.On("Delete", ctx, id).Return(nil)

		require.NoError(t, newOrderService(orders, products).Delete(context.Background(), id))
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		orders.AssertExpectations(t)
	})

	t.Run("unknown order", func(t *testing.T) {
		orders := new(MockOrderRepository)
		id := uuid.New()
		orders.On("Delete", ctx, id).Return(shared.ErrNotFound)

		err := newOrderService(orders, new(MockProductRepository)).Delete(context.Background(), id)
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
	})
}

func ptrDecimal(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

type fakePrinter struct {
	printed []trade.Receipt
	err     error
}

func (f *fakePrinter) PrintReceipt(_ context.Context, receipt trade.Receipt) ([]byte, error) {
	f.printed = append(f.printed, receipt)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4"), nil
}

func TestOrderService_Receipt(t *testing.T) {
	ctx := mock.Anything
	burger := testProduct("Burger", "10.00")
	plan, err := trade.ComputeOrderTotal(
		[]trade.LineItem{{ProductID: burger.ID, Quantity: 3}},
		trade.NewProductCatalog([]trade.ProductSnapshot{Snapshot(&burger)}),
	)
	require.NoError(t, err)
	placedAt := testNow.Add(-2 * time.Hour)
	order, err := trade.NewOrder(7, plan, trade.OrderDetails{Discount: decimal.NewFromInt(2)}, placedAt)
	require.NoError(t, err)

	newService := func() (*OrderService, *MockOrderRepository) {
		orders := new(MockOrderRepository)
		products := new(MockProductRepository)
		orders.On("FindByID", ctx, order.ID).Return(order, nil)
		products.On("FindByIDs", ctx, []uuid.UUID{burger.ID}).Return([]catalog.Product{burger}, nil)
		return newOrderService(orders, products), orders
	}

	t.Run("reissue is dated with the order creation time", func(t *testing.T) {
		svc, _ := newService()

		receipt, err := svc.Receipt(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.ReceiptNumber(order.ID), receipt.ReceiptNumber)
		assert.Equal(t, int64(7), receipt.OrderNumber)
		assert.Equal(t, placedAt, receipt.Date)
		assert.True(t, receipt.Total.Equal(decimal.NewFromInt(30)))
		assert.True(t, receipt.Discount.Equal(decimal.NewFromInt(2)))
	})

	t.Run("printing disabled", func(t *testing.T) {
		svc, orders := newService()

		_, err := svc.PrintReceipt(context.Background(), order.ID)
		assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("renders the reissued receipt", func(t *testing.T) {
		svc, _ := newService()
		printer := &fakePrinter{}
		svc.SetReceiptPrinter(printer)

		doc, err := svc.PrintReceipt(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.ReceiptNumber(order.ID), doc.ReceiptNumber)
		assert.Equal(t, []byte("%PDF-1.4"), doc.PDF)
		require.Len(t, printer.printed, 1)
		assert.Equal(t, placedAt, printer.printed[0].IssuedAt)
	})

	t.Run("renderer failure", func(t *testing.T) {
		svc, _ := newService()
		svc.SetReceiptPrinter(&fakePrinter{err: errors.New("chrome crashed")})

		_, err := svc.PrintReceipt(context.Background(), order.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to print receipt")
	})

	t.Run("unknown order", func(t *testing.T) {
		orders := new(MockOrderRepository)
		id := uuid.New()
		orders.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := newOrderService(orders, new(MockProductRepository)).Receipt(context.Background(), id)
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
	})
}
