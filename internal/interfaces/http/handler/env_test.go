package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/menuhub/backend/internal/application/catalog"
	identityapp "github.com/menuhub/backend/internal/application/identity"
	reportapp "github.com/menuhub/backend/internal/application/report"
	tradeapp "github.com/menuhub/backend/internal/application/trade"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/auth"
	"github.com/menuhub/backend/internal/infrastructure/config"
	"github.com/menuhub/backend/internal/infrastructure/persistence"
	"github.com/menuhub/backend/internal/infrastructure/persistence/models"
	"github.com/menuhub/backend/internal/infrastructure/storage"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testNow is a Wednesday
var testNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	engine *gin.Engine
	db     *gorm.DB
	jwt    *auth.JWTService
	orders *tradeapp.OrderService
}

// newTestEnv wires the real services over an in-memory SQLite store and
// mounts the handlers the way the router does
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	images, err := storage.NewLocalImageStore(t.TempDir(), "/uploads", storage.DefaultMaxImageSize)
	require.NoError(t, err)

	clock := shared.FixedClock{T: testNow}
	categoryRepo := persistence.NewGormCategoryRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	userRepo := persistence.NewGormUserRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "handler-test-secret-at-least-32-bytes",
		Expiration: time.Hour,
		Issuer:     "menuhub-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	categoryService := catalogapp.NewCategoryService(categoryRepo, images, nil, clock, nil)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, images, nil, clock, nil)
	orderService := tradeapp.NewOrderService(orderRepo, productRepo, nil, clock, nil)
	reportService := reportapp.NewReportService(orderRepo, productRepo, categoryRepo, clock, nil)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, clock, nil)

	categories := NewCategoryHandler(categoryService, storage.DefaultMaxImageSize)
	products := NewProductHandler(productService, storage.DefaultMaxImageSize)
	orders := NewOrderHandler(orderService, reportService)
	dashboard := NewDashboardHandler(reportService)
	users := NewAuthHandler(authService)

	r := gin.New()
	r.Use(middleware.RequestID())
	protect := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
	})

	api := r.Group("/api")
	api.POST("/megamenu", protect, categories.Create)
	api.GET("/megamenu", categories.List)
	api.GET("/megamenu/:id", categories.Get)
	api.PUT("/megamenu/:id", protect, categories.Update)
	api.DELETE("/megamenu/:id", protect, categories.Delete)

	api.POST("/products", protect, products.Create)
	api.GET("/products", products.List)
	api.GET("/products/megamenu/:megaMenuId", products.ListByCategory)
	api.GET("/products/:id", products.Get)
	api.PUT("/products/:id", protect, products.Update)
	api.DELETE("/products/:id", protect, products.Delete)

	api.POST("/orders", orders.Create)
	api.GET("/orders", orders.List)
	api.GET("/orders/history", orders.History)
	api.GET("/orders/today-sales", orders.TodaySales)
	api.GET("/orders/:id", orders.Get)
	api.GET("/orders/:id/receipt", orders.Receipt)
	api.PUT("/orders/:id", orders.Update)
	api.DELETE("/orders/:id", orders.Delete)

	api.GET("/dashboard/stats", dashboard.Stats)
	api.GET("/dashboard/products/count", dashboard.ProductCount)
	api.GET("/dashboard/menu-items/count", dashboard.MenuItemsCount)
	api.GET("/dashboard/orders/today/count", dashboard.OrdersTodayCount)
	api.GET("/dashboard/revenue/today", dashboard.RevenueToday)

	api.POST("/users/register", users.Register)
	api.POST("/users/login", users.Login)
	api.GET("/users/me", protect, users.Me)
	api.POST("/users/logout", protect, users.Logout)

	r.GET("/health", NewHealthHandler(persistence.NewDatabaseFromGorm(db)).Health)

	return &testEnv{engine: r, db: db, jwt: jwtService, orders: orderService}
}

// token issues a bearer token for mutating catalog routes
func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	tok, err := e.jwt.GenerateToken(auth.TokenSubject{
		UserID: uuid.MustParse("6650a7e2-0000-4000-8000-000000000001"),
		Email:  "staff@menuhub.test",
		Role:   "staff",
	})
	require.NoError(t, err)
	return tok.AccessToken
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// doJSON sends body as JSON; a non-empty token is sent as a bearer token
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.do(req)
}

// doMultipart sends fields and an optional "pic" file
func (e *testEnv) doMultipart(t *testing.T, method, path, token string, fields map[string]string, filename string, file []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("pic", filename)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.do(req)
}

// envelope decodes the common response shape with a typed data field
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Data    T      `json:"data"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// createCategory creates a category through the API and returns it
func (e *testEnv) createCategory(t *testing.T, name string) catalogapp.CategoryResponse {
	t.Helper()
	w := e.doJSON(t, http.MethodPost, "/api/megamenu", e.token(t), map[string]string{
		"name": name,
		"pic":  "https://cdn.menuhub.test/" + name + ".png",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[catalogapp.CategoryResponse](t, w).Data
}

// createProduct creates a product through the API and returns it
func (e *testEnv) createProduct(t *testing.T, category catalogapp.CategoryResponse, name, productType, price string) catalogapp.ProductResponse {
	t.Helper()
	w := e.doJSON(t, http.MethodPost, "/api/products", e.token(t), map[string]string{
		"name":        name,
		"description": name + " with rice",
		"type":        productType,
		"price":       price,
		"megaMenu":    category.ID.String(),
		"pic":         "https://cdn.menuhub.test/" + name + ".png",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[catalogapp.ProductResponse](t, w).Data
}
