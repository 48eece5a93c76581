package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shremyagupta/simple-ecommerce/internal/handlers"
	"github.com/shremyagupta/simple-ecommerce/internal/handlers/cart"
	"github.com/shremyagupta/simple-ecommerce/internal/jwtmiddleware"
)

type Deps struct {
	DB              *gorm.DB
	ProductHandler  *handlers.ProductHandler
	OrderHandler    *handlers.OrderHandler
	CheckoutHandler *handlers.CheckoutHandler
	HealthHandler   *handlers.HealthHandler
	CartHandler     *cart.CartHandler
	SearchHandler   *handlers.SearchHandler

	// AdminSecret guards catalog mutations when set; without it the
	// endpoints stay open.
	AdminSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", d.HealthHandler.Health)
	e.GET("/config", d.HealthHandler.Config)

	products := e.Group("/api/products")
	products.GET("", d.ProductHandler.GetProducts)
	if d.SearchHandler != nil {
		products.GET("/search", d.SearchHandler.Search)
	}
	products.GET("/:id", d.ProductHandler.GetProduct)

	mutations := e.Group("/api/products")
	if len(d.AdminSecret) > 0 {
		mutations.Use(jwtmiddleware.AdminGuard(d.AdminSecret))
	}
	mutations.POST("", d.ProductHandler.CreateProduct)
	mutations.PATCH("/:id/stock", d.ProductHandler.UpdateStock)

	e.POST("/create-checkout-session", d.CheckoutHandler.CreateCheckoutSession)
	e.POST("/complete-demo-checkout", d.CheckoutHandler.CompleteDemoCheckout)
	e.POST("/webhook", d.CheckoutHandler.Webhook)

	e.GET("/api/orders", d.OrderHandler.GetOrders)

	cartGroup := e.Group("/api/cart")
	cartGroup.GET("", d.CartHandler.GetCart)
	cartGroup.POST("", d.CartHandler.AddToCart)
	cartGroup.DELETE("/:id", d.CartHandler.DeleteOneFromCart)
	cartGroup.DELETE("/:id/all", d.CartHandler.DeleteAllFromCart)
}
