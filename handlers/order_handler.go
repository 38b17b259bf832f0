package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/icognita1702/festalog/internal/domain"
	"github.com/icognita1702/festalog/pkg/response"
)

// orderGetter is the slice of the order repository this handler needs.
type orderGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
}

// OrderHandler exposes order lookups to the dashboard. Notifications carry
// a pedido_id; this is how the dashboard resolves it.
type OrderHandler struct {
	repo orderGetter
}

func NewOrderHandler(repo orderGetter) *OrderHandler {
	return &OrderHandler{repo: repo}
}

// GetByID godoc
// @Summary Get one order
// @Description Retrieves the order a notification points at
// @Tags orders
// @Accept json
// @Produce json
// @Param x-festa-auth-key header string true "Dashboard API key"
// @Param id path int true "Order ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) GetByID(c echo.Context) error {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return response.BadRequest(c, fmt.Errorf("invalid order id"))
	}

	order, err := h.repo.GetByID(c.Request().Context(), id)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	if order == nil {
		return response.NotFound(c, fmt.Sprintf("no order found with id %d", id))
	}

	return response.Ok(c, order)
}
