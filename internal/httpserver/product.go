package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/quickcart/internal/models"
	"github.com/Skotchmaster/quickcart/internal/service"
	"github.com/Skotchmaster/quickcart/internal/transport"
	"github.com/Skotchmaster/quickcart/internal/util"
	"github.com/Skotchmaster/quickcart/pkg/logging"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func details(p *models.Product) transport.ProductDetails {
	return transport.ProductDetails{ID: p.ID, Name: p.Name, Price: p.Price, Description: p.Description}
}

func (h *ProductHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.add")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.Add(ctx, service.ProductFields{Name: req.Name, Price: req.Price, Description: req.Description})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("add_product_failed", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid product data")
		}
		l.Error("add_product_failed", "status", 500, "reason", "cannot add product to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("add_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, transport.CreatedResponse{Message: "Product added successfully", ID: prod.ID})
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	prod, err := h.Svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_failed", "status", 404, "reason", "product not found", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		l.Error("get_product_failed", "status", 500, "reason", "cannot get product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, details(prod))
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	_, err = h.Svc.Update(ctx, id, service.ProductFields{Name: req.Name, Price: req.Price, Description: req.Description})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("update_product_failed", "status", 404, "reason", "product not found", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		default:
			l.Error("update_product_failed", "status", 500, "reason", "cannot update product", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	l.Info("update_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product updated successfully"})
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("delete_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_product_failed", "status", 404, "reason", "product not found", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		l.Error("delete_product_failed", "status", 500, "reason", "cannot delete product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product deleted successfully"})
}

func (h *ProductHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		l.Error("list_products_failed", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	out := make([]transport.ProductSummary, 0, len(items))
	for _, p := range items {
		out = append(out, transport.ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("search_products_failed", "status", 400, "reason", "empty query", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "query is required")
		}
		l.Error("search_products_failed", "status", 500, "reason", "search failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	out := transport.SearchResult{
		Total:    res.Total,
		Page:     res.Page,
		Size:     res.Size,
		Products: make([]transport.ProductDetails, 0, len(res.Products)),
	}
	for i := range res.Products {
		out.Products = append(out.Products, details(&res.Products[i]))
	}
	return c.JSON(http.StatusOK, out)
}
