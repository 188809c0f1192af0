package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics counts orders and the revenue they carry
type BusinessMetrics struct {
	ordersCreated  metric.Int64Counter
	ordersRejected metric.Int64Counter
	orderRevenue   metric.Float64Counter
	itemsSold      metric.Int64Counter
	orderValue     metric.Float64Histogram
}

// NewBusinessMetrics creates the order instruments on meters
func NewBusinessMetrics(meters *MeterProvider) (*BusinessMetrics, error) {
	meter := meters.Meter("menuhub/orders")

	ordersCreated, err := meter.Int64Counter("orders_created_total",
		metric.WithDescription("Orders persisted"),
		metric.WithUnit("{order}"))
	if err != nil {
		return nil, err
	}
	ordersRejected, err := meter.Int64Counter("orders_rejected_total",
		metric.WithDescription("Order creations that failed, by error kind"),
		metric.WithUnit("{order}"))
	if err != nil {
		return nil, err
	}
	orderRevenue, err := meter.Float64Counter("order_revenue_total",
		metric.WithDescription("Sum of order totals"))
	if err != nil {
		return nil, err
	}
	itemsSold, err := meter.Int64Counter("order_items_sold_total",
		metric.WithDescription("Units sold across all orders"),
		metric.WithUnit("{item}"))
	if err != nil {
		return nil, err
	}
	orderValue, err := meter.Float64Histogram("order_value",
		metric.WithDescription("Distribution of order totals"),
		metric.WithExplicitBucketBoundaries(5, 10, 20, 50, 100, 200, 500, 1000))
	if err != nil {
		return nil, err
	}

	return &BusinessMetrics{
		ordersCreated:  ordersCreated,
		ordersRejected: ordersRejected,
		orderRevenue:   orderRevenue,
		itemsSold:      itemsSold,
		orderValue:     orderValue,
	}, nil
}

// RecordOrderCreated records one persisted order
func (m *BusinessMetrics) RecordOrderCreated(ctx context.Context, status string, total decimal.Decimal, units int64) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	amount := total.InexactFloat64()
	m.ordersCreated.Add(ctx, 1, attrs)
	m.orderRevenue.Add(ctx, amount, attrs)
	m.itemsSold.Add(ctx, units, attrs)
	m.orderValue.Record(ctx, amount, attrs)
}

// RecordOrderRejected records a failed creation attempt
func (m *BusinessMetrics) RecordOrderRejected(ctx context.Context, kind string) {
	m.ordersRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
