package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/menuhub/backend/internal/application/report"
	"github.com/menuhub/backend/internal/domain/report"
)

// DashboardHandler serves the dashboard metrics
type DashboardHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(reportService *reportapp.ReportService) *DashboardHandler {
	return &DashboardHandler{reportService: reportService}
}

// Stats godoc
// @Summary      Dashboard stats
// @Description  Product count, category count, today's order count and today's revenue formatted with thousands separators
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.DashboardStatsResponse}
// @Failure      500 {object} dto.ErrorResponse
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.reportService.DashboardStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ProductCount godoc
// @Summary      Total products
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=int}
// @Router       /dashboard/products/count [get]
func (h *DashboardHandler) ProductCount(c *gin.Context) {
	n, err := h.reportService.ProductCount(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// MenuItemsCount godoc
// @Summary      Total mega menus
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=int}
// @Router       /dashboard/menu-items/count [get]
func (h *DashboardHandler) MenuItemsCount(c *gin.Context) {
	n, err := h.reportService.CategoryCount(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// OrdersTodayCount godoc
// @Summary      Orders placed today
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=int}
// @Router       /dashboard/orders/today/count [get]
func (h *DashboardHandler) OrdersTodayCount(c *gin.Context) {
	n, err := h.reportService.OrdersTodayCount(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// RevenueToday godoc
// @Summary      Today's revenue
// @Description  Formatted like the combined stats, e.g. "1,234,567"
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=string}
// @Router       /dashboard/revenue/today [get]
func (h *DashboardHandler) RevenueToday(c *gin.Context) {
	revenue, err := h.reportService.RevenueToday(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report.FormatRevenue(revenue))
}
