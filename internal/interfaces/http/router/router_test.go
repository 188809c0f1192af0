package router

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/menuhub/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouterSetup(t *testing.T) {
	tests := []struct {
		name string
		opts []RouterOption
		path string
	}{
		{"default base path", nil, "/api/test/ping"},
		{"custom base path", []RouterOption{WithBasePath("/v2")}, "/v2/test/ping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			group := NewDomainGroup("test", "/test")
			group.GET("/ping", func(c *gin.Context) {
				c.String(http.StatusOK, "pong")
			})
			NewRouter(engine, tt.opts...).Register(group).Setup()

			w := serve(engine, http.MethodGet, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "pong", w.Body.String())
		})
	}
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("orders", "/orders").Use(func(c *gin.Context) {
		c.Header("X-Group", "orders")
		c.Next()
	})
	group.DELETE("/:id", func(c *gin.Context) { c.String(http.StatusOK, "deleted "+c.Param("id")) })
	group.Group("history", "/history").GET("", func(c *gin.Context) { c.String(http.StatusOK, "history") })

	assert.Equal(t, "orders", group.Name())
	assert.Equal(t, "/orders", group.Prefix())

	NewRouter(engine).Register(group).Setup()

	w := serve(engine, http.MethodDelete, "/api/orders/7")
	assert.Equal(t, "deleted 7", w.Body.String())
	assert.Equal(t, "orders", w.Header().Get("X-Group"))

	w = serve(engine, http.MethodGet, "/api/orders/history")
	assert.Equal(t, "history", w.Body.String())
	assert.Equal(t, "orders", w.Header().Get("X-Group"))
}

func testHandlers() Handlers {
	return Handlers{
		Category:  handler.NewCategoryHandler(nil, 0),
		Product:   handler.NewProductHandler(nil, 0),
		Order:     handler.NewOrderHandler(nil, nil),
		Dashboard: handler.NewDashboardHandler(nil),
		Auth:      handler.NewAuthHandler(nil),
	}
}

func TestRegisterAPI_Routes(t *testing.T) {
	engine := gin.New()
	RegisterAPI(NewRouter(engine), testHandlers(), RouteMiddleware{}).Setup()

	var got []string
	for _, route := range engine.Routes() {
		got = append(got, route.Method+" "+route.Path)
	}
	sort.Strings(got)

	expected := []string{
		"DELETE /api/megamenu/:id",
		"DELETE /api/orders/:id",
		"DELETE /api/products/:id",
		"GET /api/dashboard/menu-items/count",
		"GET /api/dashboard/orders/today/count",
		"GET /api/dashboard/products/count",
		"GET /api/dashboard/revenue/today",
		"GET /api/dashboard/stats",
		"GET /api/megamenu",
		"GET /api/megamenu/:id",
		"GET /api/orders",
		"GET /api/orders/:id",
		"GET /api/orders/:id/receipt",
		"GET /api/orders/history",
		"GET /api/orders/today-sales",
		"GET /api/products",
		"GET /api/products/:id",
		"GET /api/products/megamenu/:megaMenuId",
		"GET /api/users/me",
		"POST /api/megamenu",
		"POST /api/orders",
		"POST /api/products",
		"POST /api/users/login",
		"POST /api/users/logout",
		"POST /api/users/register",
		"PUT /api/megamenu/:id",
		"PUT /api/orders/:id",
		"PUT /api/products/:id",
	}
	assert.Equal(t, expected, got)
}

func TestRegisterAPI_RouteMiddleware(t *testing.T) {
	engine := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	hit := func(c *gin.Context) { c.AbortWithStatus(http.StatusNoContent) }
	throttle := func(c *gin.Context) { c.AbortWithStatus(http.StatusTooManyRequests) }

	RegisterAPI(NewRouter(engine), testHandlers(), RouteMiddleware{
		Auth:      deny,
		Cache:     hit,
		RateLimit: throttle,
	}).Setup()

	tests := []struct {
		method   string
		path     string
		expected int
	}{
		{http.MethodPost, "/api/megamenu", http.StatusUnauthorized},
		{http.MethodPut, "/api/products/1", http.StatusUnauthorized},
		{http.MethodDelete, "/api/products/1", http.StatusUnauthorized},
		{http.MethodGet, "/api/users/me", http.StatusUnauthorized},
		{http.MethodGet, "/api/megamenu", http.StatusNoContent},
		{http.MethodGet, "/api/products/megamenu/1", http.StatusNoContent},
		{http.MethodPost, "/api/users/login", http.StatusTooManyRequests},
		{http.MethodPost, "/api/users/register", http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, serve(engine, tt.method, tt.path).Code)
		})
	}
}
