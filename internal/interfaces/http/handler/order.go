package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	reportapp "github.com/menuhub/backend/internal/application/report"
	tradeapp "github.com/menuhub/backend/internal/application/trade"
	"github.com/menuhub/backend/internal/domain/report"
	"github.com/menuhub/backend/internal/interfaces/http/dto"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order placement, maintenance and order history
type OrderHandler struct {
	BaseHandler
	orderService  *tradeapp.OrderService
	reportService *reportapp.ReportService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService, reportService *reportapp.ReportService) *OrderHandler {
	return &OrderHandler{
		orderService:  orderService,
		reportService: reportService,
	}
}

// HistoryQuery selects the order history window. An unknown period falls
// back to the start/end range.
type HistoryQuery struct {
	Period string `form:"period"`
	Start  string `form:"start"`
	End    string `form:"end"`
}

// TodaySalesResponse flattens the sales summary into the envelope
type TodaySalesResponse struct {
	Success bool `json:"success"`
	*tradeapp.SalesSummaryResponse
}

// Create godoc
// @Summary      Place an order
// @Description  Prices every line from the current product prices, assigns the next order number and increments product sales
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateOrderRequest true "Order"
// @Success      201 {object} dto.ReceiptResponse{receipt=tradeapp.ReceiptResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ReceiptResponse{
		Success: true,
		Message: "Order created successfully",
		Receipt: result.Receipt,
	})
}

// Update godoc
// @Summary      Update an order
// @Description  A products list replaces every line and recomputes the total. Sales counters are not changed.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body tradeapp.UpdateOrderRequest true "Changes"
// @Success      200 {object} dto.ReceiptResponse{receipt=tradeapp.ReceiptResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Order")
	if !ok {
		return
	}
	var req tradeapp.UpdateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.orderService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReceiptResponse{
		Success: true,
		Message: "Order updated successfully",
		Receipt: result.Receipt,
	})
}

// Get godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Order")
	if !ok {
		return
	}
	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List godoc
// @Summary      List orders, newest first
// @Tags         orders
// @Produce      json
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(orders))
}

// Delete godoc
// @Summary      Delete an order
// @Description  Product sales counters keep the units the order added
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.ErrorResponse
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Order")
	if !ok {
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Order deleted successfully")
}

// Receipt godoc
// @Summary      Reprint an order receipt
// @Description  format=pdf returns a printable PDF on 80mm receipt paper when printing is enabled
// @Tags         orders
// @Produce      json
// @Produce      application/pdf
// @Param        id path string true "Order ID"
// @Param        format query string false "json (default) or pdf"
// @Success      200 {object} dto.ReceiptResponse{receipt=tradeapp.ReceiptResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Order")
	if !ok {
		return
	}

	if strings.EqualFold(c.Query("format"), "pdf") {
		doc, err := h.orderService.PrintReceipt(c.Request.Context(), id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, doc.ReceiptNumber))
		c.Data(http.StatusOK, "application/pdf", doc.PDF)
		return
	}

	receipt, err := h.orderService.Receipt(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReceiptResponse{
		Success: true,
		Message: "Receipt reissued",
		Receipt: *receipt,
	})
}

// History godoc
// @Summary      Order history
// @Description  period=day|week|month wins over start/end (YYYY-MM-DD, inclusive). Without either every order is returned.
// @Tags         orders
// @Produce      json
// @Param        period query string false "day, week or month"
// @Param        start query string false "Range start date"
// @Param        end query string false "Range end date"
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Router       /orders/history [get]
func (h *OrderHandler) History(c *gin.Context) {
	var q HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	orders, err := h.reportService.OrderHistory(c.Request.Context(), report.WindowRequest{
		Period: q.Period,
		Start:  q.Start,
		End:    q.End,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(orders))
}

// TodaySales godoc
// @Summary      Units sold per product today
// @Tags         orders
// @Produce      json
// @Success      200 {object} TodaySalesResponse
// @Router       /orders/today-sales [get]
func (h *OrderHandler) TodaySales(c *gin.Context) {
	summary, err := h.reportService.TodaySales(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, TodaySalesResponse{Success: true, SalesSummaryResponse: summary})
}
