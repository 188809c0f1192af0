package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/menuhub/backend/internal/application/catalog"
	identityapp "github.com/menuhub/backend/internal/application/identity"
	reportapp "github.com/menuhub/backend/internal/application/report"
	tradeapp "github.com/menuhub/backend/internal/application/trade"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/auth"
	"github.com/menuhub/backend/internal/infrastructure/cache"
	"github.com/menuhub/backend/internal/infrastructure/config"
	"github.com/menuhub/backend/internal/infrastructure/logger"
	"github.com/menuhub/backend/internal/infrastructure/printing"
	"github.com/menuhub/backend/internal/infrastructure/storage"
	"github.com/menuhub/backend/internal/infrastructure/telemetry"
	"github.com/menuhub/backend/internal/interfaces/http/dto"
	"github.com/menuhub/backend/internal/interfaces/http/handler"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
	"github.com/menuhub/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/menuhub/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			MenuHub API
//	@version		1.0
//	@description	Restaurant menu, ordering and sales dashboard backend

//	@host		localhost:5000
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Logs pipeline: tee zap into OTLP when enabled
	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatal("Failed to initialize OTLP logs", zap.Error(err))
	}
	log = logProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	log.Info("Starting MenuHub backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Profiling, cfg.App.Env, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	defer shutdownTelemetry(log, logProvider, tracerProvider, meterProvider, profiler)

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal("Invalid timezone", zap.Error(err))
	}
	clock := shared.NewSystemClock(loc)

	// Repositories
	st, err := openStores(ctx, cfg, meterProvider, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	// Response cache and token blacklist share Redis when it is available
	responseCache, err := cache.NewFactory(cfg.Redis, cache.WithLogger(log)).Create()
	if err != nil {
		log.Fatal("Failed to initialize response cache", zap.Error(err))
	}
	defer func() {
		_ = responseCache.Close()
	}()
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if rc, ok := responseCache.(*cache.RedisCache); ok {
		blacklist = auth.NewRedisTokenBlacklistWithClient(rc.GetClient())
	}

	images, err := storage.New(&cfg.Storage, cfg.HTTP.MaxUploadSize, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	// Application services
	categoryService := catalogapp.NewCategoryService(st.categories, images, responseCache, clock, log)
	productService := catalogapp.NewProductService(st.products, st.categories, images, responseCache, clock, log)
	orderService := tradeapp.NewOrderService(st.orders, st.products, responseCache, clock, log)
	reportService := reportapp.NewReportService(st.orders, st.products, st.categories, clock, log)
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(st.users, jwtService, blacklist, clock, log)

	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider)
		if err != nil {
			log.Warn("Failed to create business metrics", zap.Error(err))
		} else {
			orderService.SetBusinessMetrics(businessMetrics)
		}
	}

	if cfg.Printing.Enabled {
		renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.Timeout,
			RemoteURL:      cfg.Printing.ChromeURL,
			NoSandbox:      cfg.Printing.NoSandbox,
			Logger:         log,
		})
		defer func() { _ = renderer.Close() }()
		orderService.SetReceiptPrinter(printing.NewReceiptPrinter(renderer, cfg.App.Name, loc))
		log.Info("PDF receipts enabled", zap.Bool("remote_chrome", cfg.Printing.ChromeURL != ""))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpMetrics := telemetry.NewHTTPMetrics(strings.ReplaceAll(cfg.App.Name, "-", "_"))

	// Middleware order: request id, recovery, request logging, tracing,
	// metrics and profiling labels, then headers and limits.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.TracingAttributeInjector())
	if cfg.Metrics.Enabled {
		engine.Use(middleware.PrometheusMetrics(httpMetrics))
	}
	profilingConfig := middleware.DefaultProfilingConfig()
	profilingConfig.Enabled = profiler.IsEnabled()
	engine.Use(middleware.ProfilingWithConfig(profilingConfig))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", middleware.CacheStatusHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", handler.NewHealthHandler(st.pinger).Health)
	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(httpMetrics.Handler()))
	}
	if local, ok := images.(*storage.LocalImageStore); ok && strings.HasPrefix(local.PublicURL(), "/") {
		engine.Static(local.PublicURL(), local.Dir())
	}
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeRouteNotFound, "Route not found: "+c.Request.URL.Path, middleware.GetRequestID(c)))
	})

	routeMiddleware := router.RouteMiddleware{
		Auth: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		}),
		Cache: middleware.ResponseCache(responseCache, cfg.Redis.CacheTTL, log),
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, routeMiddleware.Auth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		routeMiddleware.RateLimit = middleware.RateLimit(limiter)
		log.Info("Rate limiting enabled on authentication routes",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	router.RegisterAPI(router.NewRouter(engine), router.Handlers{
		Category:  handler.NewCategoryHandler(categoryService, cfg.HTTP.MaxUploadSize),
		Product:   handler.NewProductHandler(productService, cfg.HTTP.MaxUploadSize),
		Order:     handler.NewOrderHandler(orderService, reportService),
		Dashboard: handler.NewDashboardHandler(reportService),
		Auth:      handler.NewAuthHandler(authService),
	}, routeMiddleware).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if limiter != nil {
		g.Go(func() error {
			limiter.RunCleanup(gctx)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

func shutdownTelemetry(
	log *zap.Logger,
	logs *telemetry.LoggerProvider,
	traces *telemetry.TracerProvider,
	meters *telemetry.MeterProvider,
	profiler *telemetry.Profiler,
) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := traces.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := meters.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := logs.Shutdown(ctx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
}
