package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/menuhub/backend/internal/infrastructure/cache"
	"github.com/menuhub/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// OrderService handles order placement and maintenance
type OrderService struct {
	orderRepo       trade.OrderRepository
	productRepo     catalog.ProductRepository
	cache           cache.ResponseCache
	clock           shared.Clock
	logger          *zap.Logger
	businessMetrics *telemetry.BusinessMetrics
	printer         ReceiptPrinter
}

// ReceiptPrinter renders a receipt as a printable document
type ReceiptPrinter interface {
	PrintReceipt(ctx context.Context, receipt trade.Receipt) ([]byte, error)
}

// NewOrderService creates a new OrderService. responseCache may be nil.
func NewOrderService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	responseCache cache.ResponseCache,
	clock shared.Clock,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cache:       responseCache,
		clock:       clock,
		logger:      logger,
	}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// SetReceiptPrinter enables PDF receipts
func (s *OrderService) SetReceiptPrinter(p ReceiptPrinter) {
	s.printer = p
}

// Create places an order in two phases. The first phase only reads: it
// validates the request, loads every referenced product and prices the
// items. Nothing is written unless it succeeds. The second phase allocates
// the order number and persists the order together with the sales counter
// increments.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (result *OrderResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create", attribute.Int("order.lines", len(req.Products)))
	defer func() {
		if err != nil && s.businessMetrics != nil {
			s.businessMetrics.RecordOrderRejected(ctx, shared.KindOf(err).String())
		}
		telemetry.EndSpan(span, err)
	}()

	plan, products, err := s.price(ctx, req.Products)
	if err != nil {
		return nil, err
	}
	details, err := req.details()
	if err != nil {
		return nil, err
	}

	number, err := s.orderRepo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	order, err := trade.NewOrder(number, plan, details, now)
	if err != nil {
		return nil, err
	}
	increments := plan.SalesIncrements()
	if err := s.orderRepo.Create(ctx, order, increments); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	var units int64
	for _, inc := range increments {
		units += inc.Quantity
	}
	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderCreated(ctx, order.Status.String(), order.TotalAmount, units)
	}
	span.SetAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.Int64("order.number", order.Number),
	)
	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.Int64("order_number", order.Number),
		zap.String("total", order.TotalAmount.String()),
	)

	return &OrderResult{
		Order:   ToOrderResponse(order, products),
		Receipt: ToReceiptResponse(trade.BuildReceipt(order, plan, now)),
	}, nil
}

// Update replaces line items, customer fields, status or discount.
// Sales counters are never adjusted by an update.
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (result *OrderResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "update", attribute.String("order.id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	now := s.clock.Now()

	var (
		plan     *trade.OrderPlan
		products trade.ProductCatalog
	)
	if req.Products != nil {
		if plan, products, err = s.price(ctx, req.Products); err != nil {
			return nil, err
		}
		if err := order.ReplaceItems(plan, now); err != nil {
			return nil, err
		}
	}
	if req.CustomerName != nil || req.Phone != nil {
		name, phone := order.CustomerName, order.Phone
		if req.CustomerName != nil {
			name = *req.CustomerName
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		order.UpdateCustomer(name, phone, now)
	}
	if req.Status != nil {
		if err := order.SetStatus(trade.OrderStatus(*req.Status), now); err != nil {
			return nil, err
		}
	}
	if req.Discount != nil {
		if err := order.SetDiscount(*req.Discount, now); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, notFound(err, id)
	}
	s.invalidate(ctx)

	if plan == nil {
		if products, err = LoadProductCatalog(ctx, s.productRepo, order.ProductIDs()); err != nil {
			return nil, err
		}
		plan = receiptPlan(order, products)
	}

	s.logger.Info("Order updated", zap.String("order_id", order.ID.String()))
	return &OrderResult{
		Order:   ToOrderResponse(order, products),
		Receipt: ToReceiptResponse(trade.BuildReceipt(order, plan, now)),
	}, nil
}

// GetByID retrieves an order with its products populated
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	products, err := LoadProductCatalog(ctx, s.productRepo, order.ProductIDs())
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order, products)
	return &resp, nil
}

// List retrieves every order, newest first, with products populated
func (s *OrderService) List(ctx context.Context) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindAll(ctx, trade.OrderFilter{})
	if err != nil {
		return nil, err
	}
	products, err := LoadProductCatalog(ctx, s.productRepo, trade.ProductIDsOf(orders))
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders, products), nil
}

// Receipt reissues the receipt of a stored order, dated with the order's
// creation time so a reprint matches the original.
func (s *OrderService) Receipt(ctx context.Context, id uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receipt(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToReceiptResponse(receipt)
	return &resp, nil
}

// PrintReceipt renders the receipt of a stored order as a PDF
func (s *OrderService) PrintReceipt(ctx context.Context, id uuid.UUID) (doc *PrintedReceipt, err error) {
	if s.printer == nil {
		return nil, shared.NewValidationError("Receipt printing is not enabled")
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "print_receipt", attribute.String("order.id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	receipt, err := s.receipt(ctx, id)
	if err != nil {
		return nil, err
	}
	pdf, err := s.printer.PrintReceipt(ctx, receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to print receipt %s: %w", receipt.ReceiptNumber, err)
	}
	return &PrintedReceipt{ReceiptNumber: receipt.ReceiptNumber, PDF: pdf}, nil
}

func (s *OrderService) receipt(ctx context.Context, id uuid.UUID) (trade.Receipt, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return trade.Receipt{}, notFound(err, id)
	}
	products, err := LoadProductCatalog(ctx, s.productRepo, order.ProductIDs())
	if err != nil {
		return trade.Receipt{}, err
	}
	return trade.BuildReceipt(order, receiptPlan(order, products), order.CreatedAt), nil
}

// Delete removes an order. Product sales counters keep the units it added.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return notFound(err, id)
	}
	s.invalidate(ctx)
	s.logger.Info("Order deleted", zap.String("order_id", id.String()))
	return nil
}

// price runs the read-only phase: validate items, load their products in one
// query and compute the total. No order or counter is touched.
func (s *OrderService) price(ctx context.Context, reqItems []OrderItemRequest) (*trade.OrderPlan, trade.ProductCatalog, error) {
	items, err := trade.NormalizeItems(toLineItems(reqItems))
	if err != nil {
		return nil, nil, err
	}
	products, err := LoadProductCatalog(ctx, s.productRepo, trade.DistinctProductIDs(items))
	if err != nil {
		return nil, nil, err
	}
	plan, err := trade.ComputeOrderTotal(items, products)
	if err != nil {
		return nil, nil, err
	}
	return plan, products, nil
}

func (s *OrderService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePrefix(ctx, ""); err != nil {
		s.logger.Warn("Failed to clear response cache", zap.Error(err))
	}
}

func notFound(err error, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("Order", id)
	}
	return err
}
