package router

import (
	"github.com/gin-gonic/gin"
	"github.com/menuhub/backend/internal/interfaces/http/handler"
)

// Handlers bundles the handlers mounted under the API base path
type Handlers struct {
	Category  *handler.CategoryHandler
	Product   *handler.ProductHandler
	Order     *handler.OrderHandler
	Dashboard *handler.DashboardHandler
	Auth      *handler.AuthHandler
}

// RouteMiddleware holds the middleware applied to individual routes.
// Nil entries are skipped.
type RouteMiddleware struct {
	// Auth guards catalog mutations and the current-user routes
	Auth gin.HandlerFunc
	// Cache serves catalog reads from the response cache
	Cache gin.HandlerFunc
	// RateLimit throttles register and login
	RateLimit gin.HandlerFunc
}

// RegisterAPI registers every API domain group on r
func RegisterAPI(r *Router, h Handlers, mw RouteMiddleware) *Router {
	auth := chain(mw.Auth)
	cached := chain(mw.Cache)
	limited := chain(mw.RateLimit)

	megamenu := NewDomainGroup("megamenu", "/megamenu")
	megamenu.POST("", with(auth, h.Category.Create)...)
	megamenu.GET("", with(cached, h.Category.List)...)
	megamenu.GET("/:id", with(cached, h.Category.Get)...)
	megamenu.PUT("/:id", with(auth, h.Category.Update)...)
	megamenu.DELETE("/:id", with(auth, h.Category.Delete)...)

	products := NewDomainGroup("products", "/products")
	products.POST("", with(auth, h.Product.Create)...)
	products.GET("", with(cached, h.Product.List)...)
	products.GET("/megamenu/:megaMenuId", with(cached, h.Product.ListByCategory)...)
	products.GET("/:id", with(cached, h.Product.Get)...)
	products.PUT("/:id", with(auth, h.Product.Update)...)
	products.DELETE("/:id", with(auth, h.Product.Delete)...)

	orders := NewDomainGroup("orders", "/orders")
	orders.POST("", h.Order.Create)
	orders.GET("", h.Order.List)
	orders.GET("/history", h.Order.History)
	orders.GET("/today-sales", h.Order.TodaySales)
	orders.GET("/:id", h.Order.Get)
	orders.GET("/:id/receipt", h.Order.Receipt)
	orders.PUT("/:id", h.Order.Update)
	orders.DELETE("/:id", h.Order.Delete)

	dashboard := NewDomainGroup("dashboard", "/dashboard")
	dashboard.GET("/stats", h.Dashboard.Stats)
	dashboard.GET("/products/count", h.Dashboard.ProductCount)
	dashboard.GET("/menu-items/count", h.Dashboard.MenuItemsCount)
	dashboard.GET("/orders/today/count", h.Dashboard.OrdersTodayCount)
	dashboard.GET("/revenue/today", h.Dashboard.RevenueToday)

	users := NewDomainGroup("users", "/users")
	users.POST("/register", with(limited, h.Auth.Register)...)
	users.POST("/login", with(limited, h.Auth.Login)...)
	users.GET("/me", with(auth, h.Auth.Me)...)
	users.POST("/logout", with(auth, h.Auth.Logout)...)

	return r.Register(megamenu).
		Register(products).
		Register(orders).
		Register(dashboard).
		Register(users)
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

func with(middleware []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(middleware)+1)
	out = append(out, middleware...)
	return append(out, h)
}
