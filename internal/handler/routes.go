package handler

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups every HTTP handler mounted under /api
type Handlers struct {
	Auth      *AuthHandler
	Products  *ProductHandler
	Quotes    *QuoteHandler
	Stores    *StoreHandler
	Dashboard *DashboardHandler
	Health    *HealthHandler
}

// Register mounts the routes. requireAuth guards merchant routes and submitLimit throttles anonymous quote submission.
func Register(e *echo.Echo, h Handlers, requireAuth, submitLimit echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	api := e.Group("/api")
	api.GET("/health", h.Health.Health)

	auth := api.Group("/auth")
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", h.Auth.Login)
	auth.GET("/me", h.Auth.Me, requireAuth)

	products := api.Group("/products", requireAuth)
	products.GET("", h.Products.List)
	products.POST("", h.Products.Create)
	products.GET("/:id", h.Products.Get)
	products.PUT("/:id", h.Products.Update)
	products.DELETE("/:id", h.Products.Delete)

	quotes := api.Group("/quote-requests")
	quotes.POST("", h.Quotes.Submit, submitLimit)
	quotes.GET("", h.Quotes.List, requireAuth)
	quotes.GET("/:id", h.Quotes.Get, requireAuth)
	quotes.PUT("/:id", h.Quotes.UpdateStatus, requireAuth)

	// static segments win over :storeName in echo's router
	stores := api.Group("/stores")
	stores.GET("/check-availability", h.Stores.CheckAvailability)
	stores.PUT("/update-name", h.Stores.UpdateName, requireAuth)
	stores.GET("/:storeName", h.Stores.Get)
	api.GET("/public/stores/:storeName", h.Stores.Get)

	api.GET("/dashboard/stats", h.Dashboard.Stats, requireAuth)
}
