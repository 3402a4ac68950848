package handlers

import (
	"errors"
	"net/http"

	"github.com/agamariel/shopmart/internal/auth"
	"github.com/agamariel/shopmart/internal/models"
	"github.com/agamariel/shopmart/internal/services"
	"github.com/agamariel/shopmart/internal/storage"
	"github.com/labstack/echo/v4"
)

// OrderHandler обрабатывает запросы, связанные с заказами.
type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder обрабатывает POST /orders.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	identity, err := auth.GetIdentityFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), identity, &req)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			return echo.NewHTTPError(http.StatusBadRequest, vErr.Message)
		}
		return internalError(c, "failed to create order", err)
	}

	return c.JSON(http.StatusCreated, models.DataResponse{Data: order})
}

// GetOrders обрабатывает GET /orders.
func (h *OrderHandler) GetOrders(c echo.Context) error {
	identity, err := auth.GetIdentityFromContext(c)
	if err != nil {
		return err
	}

	orders, err := h.orderService.ListOrders(c.Request().Context(), identity)
	if err != nil {
		return internalError(c, "failed to list orders", err)
	}

	return c.JSON(http.StatusOK, models.DataResponse{Data: orders})
}

// GetOrdersByStatus обрабатывает GET /orders/status/:id.
func (h *OrderHandler) GetOrdersByStatus(c echo.Context) error {
	statusID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	orders, err := h.orderService.ListByStatus(c.Request().Context(), statusID)
	if err != nil {
		return internalError(c, "failed to list orders by status", err)
	}

	return c.JSON(http.StatusOK, models.DataResponse{Data: orders})
}

// UpdateStatus обрабатывает PATCH /orders/:id.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}
	if req.StatusID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "statusId is required")
	}

	order, err := h.orderService.ChangeStatus(c.Request().Context(), orderID, req.StatusID)
	if err != nil {
		if he, ok := rejectionError(err); ok {
			return he
		}
		if errors.Is(err, storage.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return internalError(c, "failed to update order status", err)
	}

	return c.JSON(http.StatusOK, models.DataResponse{Data: order})
}

// AddOpinion обрабатывает POST /orders/:id/opinions.
func (h *OrderHandler) AddOpinion(c echo.Context) error {
	identity, err := auth.GetIdentityFromContext(c)
	if err != nil {
		return err
	}

	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.OpinionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	opinion, err := h.orderService.AddOpinion(c.Request().Context(), identity, orderID, &req)
	if err != nil {
		if he, ok := rejectionError(err); ok {
			return he
		}
		if errors.Is(err, storage.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return internalError(c, "failed to add opinion", err)
	}

	return c.JSON(http.StatusCreated, models.DataResponse{Data: opinion})
}
