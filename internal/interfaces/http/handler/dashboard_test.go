package handler

import (
	"net/http"
	"testing"

	reportapp "github.com/menuhub/backend/internal/application/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardHandler_Stats(t *testing.T) {
	f := newOrderFixture(t)

	w := f.env.doJSON(t, http.MethodGet, "/api/dashboard/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reportapp.DashboardStatsResponse{
		TotalProducts: 2,
		MenuItems:     2,
		OrdersToday:   0,
		Revenue:       "0",
	}, decode[reportapp.DashboardStatsResponse](t, w).Data)

	// 80 * 12.50 + 1 * 3 = 1003
	f.placeOrder(t, map[string]any{"products": []map[string]any{
		{"product": f.margherita.ID, "quantity": 80},
		{"product": f.lemonade.ID, "quantity": 1},
	}})

	w = f.env.doJSON(t, http.MethodGet, "/api/dashboard/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[reportapp.DashboardStatsResponse](t, w).Data
	assert.Equal(t, int64(1), stats.OrdersToday)
	assert.Equal(t, "1,003", stats.Revenue)
}

func TestDashboardHandler_SingleMetrics(t *testing.T) {
	f := newOrderFixture(t)
	f.placeOrder(t, map[string]any{"products": []map[string]any{{"product": f.margherita.ID, "quantity": 1}}})

	tests := []struct {
		path     string
		expected string
	}{
		{"/api/dashboard/products/count", `{"success":true,"data":2}`},
		{"/api/dashboard/menu-items/count", `{"success":true,"data":2}`},
		{"/api/dashboard/orders/today/count", `{"success":true,"data":1}`},
		{"/api/dashboard/revenue/today", `{"success":true,"data":"12.5"}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := f.env.doJSON(t, http.MethodGet, tt.path, "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.expected, w.Body.String())
		})
	}
}
