package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/claycraft/shop/internal/handlers"
	middleware "github.com/claycraft/shop/internal/middleware/auth"
)

type Deps struct {
	ProductHandler *handlers.ProductHandler
	CartHandler    *handlers.CartHandler
	OrderHandler   *handlers.OrderHandler
	AuthHandler    *handlers.AuthHandler
	UploadHandler  *handlers.UploadHandler
	SearchHandler  *handlers.SearchHandler
	JWTSecret      []byte
	UploadDir      string
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = NewValidator()

	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Static("/uploads", d.UploadDir)

	api := e.Group("/api")

	api.POST("/auth/login", d.AuthHandler.Login)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/categories/list", d.ProductHandler.GetCategories)
	products.GET("/:slug", d.ProductHandler.GetProduct)

	if d.SearchHandler != nil {
		api.GET("/search", d.SearchHandler.Search)
	}

	cart := api.Group("/cart")
	cart.POST("/validate", d.CartHandler.ValidateCart)
	cart.POST("/checkout", d.CartHandler.Checkout)

	api.GET("/orders/:orderNumber", d.OrderHandler.GetOrder)

	authMW := middleware.New(d.JWTSecret)
	admin := api.Group("/admin", authMW.RequireAdmin)
	admin.GET("/products", d.ProductHandler.ListProductsAdmin)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PUT("/products/:id", d.ProductHandler.UpdateProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.GET("/orders", d.OrderHandler.ListOrders)
	admin.PUT("/orders/:id", d.OrderHandler.UpdateOrder)

	api.POST("/upload/image", d.UploadHandler.UploadImage, authMW.RequireAdmin)
}
