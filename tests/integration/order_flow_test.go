package integration

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	tradeapp "github.com/menuhub/backend/internal/application/trade"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/persistence"
	"github.com/menuhub/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderLifecycle(t *testing.T) {
	s := newStack(t, testutil.FixedTime)
	pizza := s.createCategory(t, "Pizza")
	margherita := s.createProduct(t, pizza.ID, "Margherita", "12.50")
	diavola := s.createProduct(t, pizza.ID, "Diavola", "14.25")

	first := s.placeOrder(t,
		map[string]any{"product": margherita.ID, "quantity": 2},
		map[string]any{"product": diavola.ID, "quantity": 1, "type": "spicy"},
	)
	assert.Equal(t, int64(1), first.OrderNumber)
	assert.Equal(t, "RCP-"+strings.ToUpper(first.OrderID.String()[30:]), first.ReceiptNumber)
	assert.True(t, decimal.RequireFromString("39.25").Equal(first.Total), first.Total.String())
	require.Len(t, first.Items, 2)
	assert.Equal(t, "spicy", first.Items[1].Type)

	second := s.placeOrder(t, map[string]any{"product": margherita.ID, "quantity": 1})
	assert.Equal(t, int64(2), second.OrderNumber)

	assert.Equal(t, int64(3), s.product(t, margherita.ID).Sales)
	assert.Equal(t, int64(1), s.product(t, diavola.ID).Sales)

	// Updating quantities re-prices the order but never touches counters
	w := testutil.Do(t, s.engine, testutil.Request{
		Method: http.MethodPut,
		Path:   "/api/orders/" + second.OrderID.String(),
		Body: map[string]any{
			"products": []map[string]any{{"product": margherita.ID, "quantity": 5}},
			"discount": "3",
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := testutil.DecodeJSON[receiptEnvelope](t, w).Receipt
	assert.True(t, decimal.RequireFromString("62.5").Equal(updated.Total), "discount is stored, not applied")
	assert.True(t, decimal.RequireFromString("3").Equal(updated.Discount))
	assert.Equal(t, int64(3), s.product(t, margherita.ID).Sales)

	// Deleting keeps the units already counted
	w = testutil.Do(t, s.engine, testutil.Request{Method: http.MethodDelete, Path: "/api/orders/" + first.OrderID.String()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(3), s.product(t, margherita.ID).Sales)
	assert.Equal(t, int64(1), s.product(t, diavola.ID).Sales)

	w = testutil.Do(t, s.engine, testutil.Request{Path: "/api/orders/" + first.OrderID.String()})
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, "NOT_FOUND")

	w = testutil.Do(t, s.engine, testutil.Request{Path: "/api/orders"})
	require.Equal(t, http.StatusOK, w.Code)
	list := testutil.DecodeJSON[envelope[[]tradeapp.OrderResponse]](t, w)
	assert.Equal(t, 1, list.Count)
	require.Len(t, list.Data, 1)
	assert.Equal(t, second.OrderID, list.Data[0].ID)
}

func TestOrderCreate_UnknownProductWritesNothing(t *testing.T) {
	s := newStack(t, testutil.FixedTime)
	drinks := s.createCategory(t, "Drinks")
	lemonade := s.createProduct(t, drinks.ID, "Lemonade", "3")

	w := testutil.Do(t, s.engine, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/orders",
		Body: map[string]any{"products": []map[string]any{
			{"product": lemonade.ID, "quantity": 2},
			{"product": uuid.New(), "quantity": 1},
		}},
	})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "REFERENCE_NOT_FOUND")

	assert.Equal(t, int64(0), s.product(t, lemonade.ID).Sales)
	var orders int64
	require.NoError(t, s.db.DB.Table("orders").Count(&orders).Error)
	assert.Zero(t, orders)

	// The rejected order did not consume a number
	receipt := s.placeOrder(t, map[string]any{"product": lemonade.ID, "quantity": 1})
	assert.Equal(t, int64(1), receipt.OrderNumber)
}

func TestOrderHistory_Windows(t *testing.T) {
	// FixedTime is Wednesday 2024-05-15
	s := newStack(t, testutil.FixedTime)
	menu := s.createCategory(t, "Grill")
	burger := s.createProduct(t, menu.ID, "Burger", "10")

	placeAt := func(at time.Time) {
		orders := tradeapp.NewOrderService(
			persistence.NewGormOrderRepository(s.db.DB),
			persistence.NewGormProductRepository(s.db.DB),
			nil, shared.FixedClock{T: at}, nil,
		)
		_, err := orders.Create(context.Background(), tradeapp.CreateOrderRequest{
			Products: []tradeapp.OrderItemRequest{{Product: burger.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}
	placeAt(time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC))  // today
	placeAt(time.Date(2024, 5, 13, 10, 0, 0, 0, time.UTC)) // Monday
	placeAt(time.Date(2024, 5, 2, 18, 0, 0, 0, time.UTC))  // this month
	placeAt(time.Date(2024, 4, 30, 23, 0, 0, 0, time.UTC)) // last month
	placeAt(time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC))  // tomorrow

	tests := []struct {
		query    string
		expected int
	}{
		{"?period=day", 1},
		{"?period=week", 3},
		{"?period=month", 4},
		{"?period=DAY&start=2024-01-01&end=2024-12-31", 1},
		{"?start=2024-04-30&end=2024-04-30", 1},
		{"?start=2024-04-01&end=2024-05-02", 2},
		{"", 5},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := testutil.Do(t, s.engine, testutil.Request{Path: "/api/orders/history" + tt.query})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.expected, testutil.DecodeJSON[envelope[[]tradeapp.OrderResponse]](t, w).Count)
		})
	}

	w := testutil.Do(t, s.engine, testutil.Request{Path: "/api/orders/history?start=2024-05-10&end=2024-05-01"})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestDashboardAndTodaySales(t *testing.T) {
	s := newStack(t, testutil.FixedTime)
	pizza := s.createCategory(t, "Pizza")
	drinks := s.createCategory(t, "Drinks")
	margherita := s.createProduct(t, pizza.ID, "Margherita", "1000")
	lemonade := s.createProduct(t, drinks.ID, "Lemonade", "3.5")

	for i := 0; i < 3; i++ {
		s.placeOrder(t,
			map[string]any{"product": margherita.ID, "quantity": 411},
			map[string]any{"product": lemonade.ID, "quantity": 2},
		)
	}

	w := testutil.Do(t, s.engine, testutil.Request{Path: "/api/dashboard/stats"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := testutil.DecodeJSON[envelope[map[string]any]](t, w).Data
	assert.EqualValues(t, 2, stats["totalProducts"])
	assert.EqualValues(t, 2, stats["menuItems"])
	assert.EqualValues(t, 3, stats["ordersToday"])
	// 3 * (411 * 1000 + 2 * 3.5) = 1,233,021
	assert.Equal(t, "1,233,021", stats["revenue"])

	w = testutil.Do(t, s.engine, testutil.Request{Path: "/api/orders/today-sales"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	summary := testutil.DecodeJSON[tradeapp.SalesSummaryResponse](t, w)
	assert.Equal(t, int64(1239), summary.TotalSales)
	assert.Equal(t, 3, summary.TotalOrders)
	require.Len(t, summary.Products, 2)
}

func TestHealth(t *testing.T) {
	s := newStack(t, testutil.FixedTime)

	w := testutil.Do(t, s.engine, testutil.Request{Path: "/health"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","database":"ok"}`, w.Body.String())
}
