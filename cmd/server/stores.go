package main

import (
	"context"
	"fmt"

	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/menuhub/backend/internal/infrastructure/config"
	"github.com/menuhub/backend/internal/infrastructure/logger"
	"github.com/menuhub/backend/internal/infrastructure/migration"
	"github.com/menuhub/backend/internal/infrastructure/persistence"
	mongostore "github.com/menuhub/backend/internal/infrastructure/persistence/mongo"
	"github.com/menuhub/backend/internal/infrastructure/telemetry"
	"github.com/menuhub/backend/migrations"
	"go.uber.org/zap"
)

// stores bundles the repositories of whichever backend is configured
type stores struct {
	categories catalog.CategoryRepository
	products   catalog.ProductRepository
	orders     trade.OrderRepository
	users      identity.UserRepository

	pinger interface {
		Ping(ctx context.Context) error
	}
	close func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config, meters *telemetry.MeterProvider, log *zap.Logger) (*stores, error) {
	if cfg.Database.Driver == config.DriverMongoDB {
		return openMongo(ctx, cfg, log)
	}
	return openSQL(cfg, meters, log)
}

func openSQL(cfg *config.Config, meters *telemetry.MeterProvider, log *zap.Logger) (*stores, error) {
	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	switch {
	case cfg.Database.AutoMigrate || cfg.Database.Driver == config.DriverSQLite:
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("Schema auto-migrated", zap.String("driver", cfg.Database.Driver))
	default:
		migrator, err := migration.New(sqlDB, migrations.FS, log)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := migrator.Up(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	if _, err := telemetry.InstrumentGorm(db.DB, telemetry.GormConfig{
		Tracing:            cfg.Telemetry.DBTraceEnabled,
		DBName:             cfg.Database.DBName,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, meters, log); err != nil {
		log.Warn("Failed to instrument database", zap.Error(err))
	}
	if _, err := telemetry.RegisterPoolMetrics(meters, sqlDB, cfg.Database.DBName); err != nil {
		log.Warn("Failed to register pool metrics", zap.Error(err))
	}

	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))
	return &stores{
		categories: persistence.NewGormCategoryRepository(db.DB),
		products:   persistence.NewGormProductRepository(db.DB),
		orders:     persistence.NewGormOrderRepository(db.DB),
		users:      persistence.NewGormUserRepository(db.DB),
		pinger:     db,
		close:      func(context.Context) error { return db.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	store, err := mongostore.NewStore(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := mongostore.EnsureIndexes(ctx, store.Database()); err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}

	log.Info("MongoDB connected successfully", zap.String("database", cfg.Database.DBName))
	database := store.Database()
	return &stores{
		categories: mongostore.NewCategoryRepository(database),
		products:   mongostore.NewProductRepository(database),
		orders:     mongostore.NewOrderRepository(database, log),
		users:      mongostore.NewUserRepository(database),
		pinger:     store,
		close:      store.Close,
	}, nil
}
