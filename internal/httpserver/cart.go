package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/quickcart/internal/middleware/auth"
	"github.com/Skotchmaster/quickcart/internal/service"
	"github.com/Skotchmaster/quickcart/internal/transport"
	"github.com/Skotchmaster/quickcart/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	productID, err := parseID(c, "productId")
	if err != nil {
		l.Warn("add_to_cart_failed", "status", 400, "reason", "product id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to add item to the cart")
	}

	item, err := h.Svc.AddToCart(ctx, id.UserID, productID)
	if err != nil {
		if errors.Is(err, service.ErrCartFailure) {
			l.Warn("add_to_cart_failed", "status", 400, "reason", "user or product missing", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to add item to the cart")
		}
		l.Error("add_to_cart_failed", "status", 500, "reason", "cannot add item", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("add_to_cart_success", "product_id", productID, "cart_item_id", item.ID)
	return c.JSON(http.StatusOK, transport.CreatedResponse{Message: "Item added to the cart successfully", ID: item.ID})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	productID, err := parseID(c, "productId")
	if err != nil {
		l.Warn("remove_from_cart_failed", "status", 400, "reason", "product id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to remove item from the cart")
	}

	if err := h.Svc.RemoveFromCart(ctx, id.UserID, productID); err != nil {
		if errors.Is(err, service.ErrCartFailure) {
			l.Warn("remove_from_cart_failed", "status", 400, "reason", "item not in cart", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to remove item from the cart")
		}
		l.Error("remove_from_cart_failed", "status", 500, "reason", "cannot remove item", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("remove_from_cart_success", "product_id", productID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Item removed from the cart successfully"})
}

func (h *CartHTTP) ViewCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.view")

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	rows, err := h.Svc.ViewCart(ctx, id.UserID)
	if err != nil {
		l.Error("view_cart_failed", "status", 500, "reason", "cannot list cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	n, err := h.Svc.Checkout(ctx, id.UserID)
	if err != nil {
		l.Error("checkout_failed", "status", 500, "reason", "cannot empty cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("checkout_success", "removed", n)
	return c.JSON(http.StatusOK, transport.CheckoutResponse{Message: "Checkout successful. Cart has been cleared.", Removed: n})
}
