package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/quickcart/internal/middleware/auth"
	"github.com/Skotchmaster/quickcart/pkg/logging"
	"github.com/Skotchmaster/quickcart/pkg/metrics"
)

type Deps struct {
	ProductHandler *ProductHTTP
	AuthHandler    *AuthHTTP
	CartHandler    *CartHTTP
	Session        *authmw.SessionMiddleware
	Metrics        *metrics.ServerMetrics
	// Ready reports whether the backing stores answer.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "API up and running!") })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Warn("ready_check_failed", "status", 503, "error", err)
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	api := e.Group("/api")
	api.POST("/login", d.AuthHandler.Login)
	api.POST("/logout", d.AuthHandler.Logout, d.Session.RequireLogin)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.ListProducts)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("/add", d.ProductHandler.AddProduct, d.Session.RequireLogin)
	products.PUT("/update/:id", d.ProductHandler.UpdateProduct, d.Session.RequireLogin)
	products.DELETE("/delete/:id", d.ProductHandler.DeleteProduct, d.Session.RequireLogin)

	cart := api.Group("/cart", d.Session.RequireLogin)
	cart.GET("", d.CartHandler.ViewCart)
	cart.POST("/add/:productId", d.CartHandler.AddToCart)
	cart.DELETE("/remove/:productId", d.CartHandler.RemoveFromCart)
	cart.POST("/checkout", d.CartHandler.Checkout)
}
