package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/agamariel/shopmart/internal/models"
	"github.com/agamariel/shopmart/internal/seo"
	"github.com/agamariel/shopmart/internal/services"
	"github.com/agamariel/shopmart/internal/storage"
	"github.com/labstack/echo/v4"
)

// ProductHandler обрабатывает каталог, категории и справочник статусов.
type ProductHandler struct {
	productService services.ProductService
}

// NewProductHandler создаёт новый handler.
func NewProductHandler(productService services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts обрабатывает GET /products.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.productService.ListProducts(c.Request().Context())
	if err != nil {
		return internalError(c, "failed to list products", err)
	}
	return c.JSON(http.StatusOK, models.DataResponse{Data: products})
}

// GetProduct обрабатывает GET /products/:id.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.productService.GetProduct(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return internalError(c, "failed to get product", err)
	}
	return c.JSON(http.StatusOK, models.DataResponse{Data: product})
}

// CreateProduct обрабатывает POST /products.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req models.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	product, err := h.productService.CreateProduct(c.Request().Context(), &req)
	if err != nil {
		return h.productError(c, err)
	}
	return c.JSON(http.StatusCreated, models.DataResponse{Data: product})
}

// UpdateProduct обрабатывает PUT /products/:id.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	product, err := h.productService.UpdateProduct(c.Request().Context(), id, &req)
	if err != nil {
		return h.productError(c, err)
	}
	return c.JSON(http.StatusOK, models.DataResponse{Data: product})
}

// Import обрабатывает POST /init - первичную загрузку каталога массивом JSON.
func (h *ProductHandler) Import(c echo.Context) error {
	var items []*models.ImportItem
	if err := c.Bind(&items); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "payload must be a JSON array of products")
	}

	count, err := h.productService.ImportProducts(c.Request().Context(), items)
	if err != nil {
		var itemErr *services.ImportItemError
		if errors.As(err, &itemErr) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, itemErr.Error())
		}
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			return echo.NewHTTPError(http.StatusBadRequest, vErr.Message)
		}
		if errors.Is(err, storage.ErrCategoryNotFound) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "category not found")
		}
		return internalError(c, "failed to import products", err)
	}

	return c.JSON(http.StatusCreated, models.DataResponse{Data: models.ImportResponse{Count: count}})
}

// ListCategories обрабатывает GET /categories.
func (h *ProductHandler) ListCategories(c echo.Context) error {
	categories, err := h.productService.ListCategories(c.Request().Context())
	if err != nil {
		return internalError(c, "failed to list categories", err)
	}
	return c.JSON(http.StatusOK, models.DataResponse{Data: categories})
}

// ListStatuses обрабатывает GET /status.
func (h *ProductHandler) ListStatuses(c echo.Context) error {
	statuses, err := h.productService.ListStatuses(c.Request().Context())
	if err != nil {
		return internalError(c, "failed to list statuses", err)
	}
	return c.JSON(http.StatusOK, models.DataResponse{Data: statuses})
}

// SEODescription обрабатывает GET /products/:id/seo-description.
func (h *ProductHandler) SEODescription(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	resp, err := h.productService.SEODescription(c.Request().Context(), id)
	if err != nil {
		var rl seo.RateLimitError
		switch {
		case errors.Is(err, storage.ErrProductNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		case errors.Is(err, seo.ErrNotConfigured):
			return echo.NewHTTPError(http.StatusServiceUnavailable, "seo generation is not configured")
		case errors.As(err, &rl):
			secs := int(math.Ceil(rl.RetryAfter.Seconds()))
			c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
			return echo.NewHTTPError(http.StatusServiceUnavailable, "seo generation is rate limited")
		}
		return internalError(c, "failed to generate seo description", err)
	}

	return c.JSON(http.StatusOK, models.DataResponse{Data: resp})
}

func (h *ProductHandler) productError(c echo.Context, err error) error {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return echo.NewHTTPError(http.StatusBadRequest, vErr.Message)
	case errors.Is(err, storage.ErrCategoryNotFound):
		return echo.NewHTTPError(http.StatusBadRequest, "category not found")
	case errors.Is(err, storage.ErrProductNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return internalError(c, "failed to save product", err)
}
