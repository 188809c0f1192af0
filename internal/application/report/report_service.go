package report

import (
	"context"

	apptrade "github.com/menuhub/backend/internal/application/trade"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/report"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/menuhub/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardStatsResponse represents the combined dashboard metrics
type DashboardStatsResponse struct {
	TotalProducts int64  `json:"totalProducts"`
	MenuItems     int64  `json:"menuItems"`
	OrdersToday   int64  `json:"ordersToday"`
	Revenue       string `json:"revenue"`
}

// ReportService answers time-windowed order queries and dashboard metrics.
// Every "now" is read from the injected clock.
type ReportService struct {
	orderRepo    trade.OrderRepository
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	clock        shared.Clock
	logger       *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		clock:        clock,
		logger:       logger,
	}
}

// OrderHistory lists the orders created inside the requested window, newest
// first. A request that selects no window returns every order.
func (s *ReportService) OrderHistory(ctx context.Context, req report.WindowRequest) (orders []apptrade.OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "order_history",
		attribute.String("report.period", req.Period))
	defer func() { telemetry.EndSpan(span, err) }()

	window, err := report.ResolveWindow(req, s.clock.Now())
	if err != nil {
		return nil, err
	}

	found, err := s.orderRepo.FindAll(ctx, filterFor(window))
	if err != nil {
		return nil, err
	}
	products, err := apptrade.LoadProductCatalog(ctx, s.productRepo, trade.ProductIDsOf(found))
	if err != nil {
		return nil, err
	}
	return apptrade.ToOrderResponses(found, products), nil
}

// TodaySales summarizes units sold per product across today's orders
func (s *ReportService) TodaySales(ctx context.Context) (summary *apptrade.SalesSummaryResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "today_sales")
	defer func() { telemetry.EndSpan(span, err) }()

	today := report.Today(s.clock.Now())
	orders, err := s.orderRepo.FindAll(ctx, filterFor(&today))
	if err != nil {
		return nil, err
	}
	products, err := apptrade.LoadProductCatalog(ctx, s.productRepo, trade.ProductIDsOf(orders))
	if err != nil {
		return nil, err
	}
	resp := apptrade.ToSalesSummaryResponse(trade.SummarizeSales(orders, products))
	return &resp, nil
}

// DashboardStats gathers the four headline metrics concurrently. All of them
// share one reading of the clock, so "today" is the same window for each.
func (s *ReportService) DashboardStats(ctx context.Context) (resp *DashboardStatsResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "dashboard_stats")
	defer func() { telemetry.EndSpan(span, err) }()

	today := report.Today(s.clock.Now())
	var stats report.DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.TotalProducts, err = s.productRepo.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.MenuItems, err = s.categoryRepo.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.OrdersToday, err = s.ordersIn(gctx, today)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Revenue, err = s.revenueIn(gctx, today)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to gather dashboard stats", zap.Error(err))
		return nil, err
	}

	return &DashboardStatsResponse{
		TotalProducts: stats.TotalProducts,
		MenuItems:     stats.MenuItems,
		OrdersToday:   stats.OrdersToday,
		Revenue:       report.FormatRevenue(stats.Revenue),
	}, nil
}

// ProductCount returns the number of products
func (s *ReportService) ProductCount(ctx context.Context) (int64, error) {
	return s.productRepo.Count(ctx)
}

// CategoryCount returns the number of categories
func (s *ReportService) CategoryCount(ctx context.Context) (int64, error) {
	return s.categoryRepo.Count(ctx)
}

// OrdersTodayCount returns the number of orders created today
func (s *ReportService) OrdersTodayCount(ctx context.Context) (int64, error) {
	return s.ordersIn(ctx, report.Today(s.clock.Now()))
}

// RevenueToday returns the unformatted sum of today's order totals
func (s *ReportService) RevenueToday(ctx context.Context) (decimal.Decimal, error) {
	return s.revenueIn(ctx, report.Today(s.clock.Now()))
}

func (s *ReportService) ordersIn(ctx context.Context, w report.Window) (int64, error) {
	return s.orderRepo.Count(ctx, filterFor(&w))
}

func (s *ReportService) revenueIn(ctx context.Context, w report.Window) (decimal.Decimal, error) {
	orders, err := s.orderRepo.FindAll(ctx, filterFor(&w))
	if err != nil {
		return decimal.Zero, err
	}
	return trade.SumRevenue(orders), nil
}

// filterFor maps a window onto an order filter; nil means unfiltered
func filterFor(w *report.Window) trade.OrderFilter {
	if w == nil {
		return trade.OrderFilter{}
	}
	start, end := w.Start, w.End
	return trade.OrderFilter{Since: &start, Until: &end}
}
