package telemetry

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const queryStartKey = "telemetry:query_start"

// GormConfig controls query instrumentation
type GormConfig struct {
	// Tracing registers the otelgorm plugin so every statement gets a span
	Tracing bool
	// DBName is reported as db.name on spans
	DBName string
	// SlowQueryThreshold logs and flags statements that take longer
	SlowQueryThreshold time.Duration
}

// GormInstrumentation records statement latency and marks slow or failed
// statements on the active span.
type GormInstrumentation struct {
	cfg      GormConfig
	logger   *zap.Logger
	duration metric.Float64Histogram
}

// InstrumentGorm registers tracing and latency callbacks on db
func InstrumentGorm(db *gorm.DB, cfg GormConfig, meters *MeterProvider, logger *zap.Logger) (*GormInstrumentation, error) {
	duration, err := meters.Meter("menuhub/db").Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Database statement latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5),
	)
	if err != nil {
		return nil, err
	}

	g := &GormInstrumentation{cfg: cfg, logger: logger, duration: duration}

	if cfg.Tracing {
		opts := []otelgorm.Option{otelgorm.WithoutQueryVariables()}
		if cfg.DBName != "" {
			opts = append(opts, otelgorm.WithDBName(cfg.DBName))
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return nil, err
		}
	}

	if err := g.register(db); err != nil {
		return nil, err
	}
	logger.Info("Database instrumentation enabled",
		zap.Bool("tracing", cfg.Tracing),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)
	return g, nil
}

func (g *GormInstrumentation) register(db *gorm.DB) error {
	cb := db.Callback()
	steps := []struct {
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, s := range steps {
		if err := s.before("telemetry:before_"+s.op, markStart); err != nil {
			return err
		}
		if err := s.after("telemetry:after_"+s.op, g.observe(s.op)); err != nil {
			return err
		}
	}
	return nil
}

func markStart(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (g *GormInstrumentation) observe(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)

		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		attrs := []attribute.KeyValue{
			attribute.String("db.operation", op),
			attribute.String("db.sql.table", db.Statement.Table),
		}
		g.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))

		span := trace.SpanFromContext(ctx)
		if db.Error != nil && db.Error != gorm.ErrRecordNotFound && span.IsRecording() {
			span.SetStatus(codes.Error, db.Error.Error())
			span.RecordError(db.Error)
		}

		if g.cfg.SlowQueryThreshold > 0 && elapsed > g.cfg.SlowQueryThreshold {
			if span.IsRecording() {
				span.SetAttributes(attribute.Bool("db.slow_query", true))
			}
			g.logger.Warn("Slow query",
				zap.String("operation", op),
				zap.String("table", db.Statement.Table),
				zap.Duration("elapsed", elapsed),
				zap.Int64("rows", db.Statement.RowsAffected),
			)
		}
	}
}

// PoolStatser is satisfied by *sql.DB
type PoolStatser interface {
	Stats() sql.DBStats
}

// RegisterPoolMetrics exports connection pool gauges read from pool at collection time
func RegisterPoolMetrics(meters *MeterProvider, pool PoolStatser, dbName string) (metric.Registration, error) {
	meter := meters.Meter("menuhub/db")

	open, err := meter.Int64ObservableGauge("db_pool_open_connections",
		metric.WithDescription("Open connections, in use plus idle"))
	if err != nil {
		return nil, err
	}
	inUse, err := meter.Int64ObservableGauge("db_pool_in_use_connections",
		metric.WithDescription("Connections currently in use"))
	if err != nil {
		return nil, err
	}
	idle, err := meter.Int64ObservableGauge("db_pool_idle_connections",
		metric.WithDescription("Idle connections"))
	if err != nil {
		return nil, err
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_count_total",
		metric.WithDescription("Connections waited for"))
	if err != nil {
		return nil, err
	}

	attrs := metric.WithAttributes(attribute.String("db.name", dbName))
	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := pool.Stats()
		o.ObserveInt64(open, int64(stats.OpenConnections), attrs)
		o.ObserveInt64(inUse, int64(stats.InUse), attrs)
		o.ObserveInt64(idle, int64(stats.Idle), attrs)
		o.ObserveInt64(waits, stats.WaitCount, attrs)
		return nil
	}, open, inUse, idle, waits)
}
