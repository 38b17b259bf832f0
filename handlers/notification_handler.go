package handlers

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/icognita1702/festalog/internal/notifier"
	"github.com/icognita1702/festalog/internal/repository"
	"github.com/icognita1702/festalog/pkg/response"
)

type NotificationHandler struct {
	repo      *repository.NotificationRepository
	generator *notifier.Generator
}

func NewNotificationHandler(repo *repository.NotificationRepository, generator *notifier.Generator) *NotificationHandler {
	return &NotificationHandler{
		repo:      repo,
		generator: generator,
	}
}

// GetAll godoc
// @Summary Get notifications
// @Description Retrieves a paginated list of notifications with optional read filter
// @Tags notifications
// @Accept json
// @Produce json
// @Param x-festa-auth-key header string true "Dashboard API key"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Param lida query bool false "Filter by read state"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) GetAll(c echo.Context) error {
	page, pageSize, err := parsePaginationParams(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	var lida *bool
	if lidaStr := c.QueryParam("lida"); lidaStr != "" {
		parsed, err := strconv.ParseBool(lidaStr)
		if err != nil {
			return response.BadRequest(c, fmt.Errorf("lida must be a boolean"))
		}
		lida = &parsed
	}

	notifications, totalCount, err := h.repo.GetAll(c.Request().Context(), lida, page, pageSize)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Paginated(c, notifications, page, pageSize, totalCount)
}

// GetStats godoc
// @Summary Get notification statistics
// @Description Returns notification counts per type and the unread total
// @Tags notifications
// @Accept json
// @Produce json
// @Param x-festa-auth-key header string true "Dashboard API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/notifications/stats [get]
func (h *NotificationHandler) GetStats(c echo.Context) error {
	stats, err := h.repo.GetStats(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, stats)
}

// MarkAsRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Accept json
// @Produce json
// @Param x-festa-auth-key header string true "Dashboard API key"
// @Param id path int true "Notification ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return response.BadRequest(c, fmt.Errorf("invalid notification id"))
	}

	if err := h.repo.MarkAsRead(c.Request().Context(), id); err != nil {
		return response.BadRequest(c, err)
	}

	return response.Ok(c, map[string]any{
		"read": 1,
	})
}

// MarkAllAsRead godoc
// @Summary Mark every unread notification as read
// @Tags notifications
// @Accept json
// @Produce json
// @Param x-festa-auth-key header string true "Dashboard API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/notifications/read-all [put]
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	count, err := h.repo.MarkAllAsRead(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, map[string]any{
		"read": count,
	})
}

// Generate godoc
// @Summary Run the notification generator now
// @Description Scans orders and creates any missing reminder notifications
// @Tags notifications
// @Accept json
// @Produce json
// @Param x-festa-auth-key header string true "Dashboard API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/notifications/generate [post]
func (h *NotificationHandler) Generate(c echo.Context) error {
	created, err := h.generator.GenerateAutomaticNotifications(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, map[string]any{
		"created": created,
	})
}

func parsePaginationParams(c echo.Context) (int, int, error) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)

	pageStr := c.QueryParam("page")
	pageSizeStr := c.QueryParam("pageSize")

	// Page
	page := defaultPage
	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p <= 0 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
		page = p
	}

	// Page size
	pageSize := defaultPageSize
	if pageSizeStr != "" {
		ps, err := strconv.Atoi(pageSizeStr)
		if err != nil || ps <= 0 || ps > maxPageSize {
			return 0, 0, fmt.Errorf("pageSize must be between 1 and %d", maxPageSize)
		}

		pageSize = ps
	}

	return page, pageSize, nil
}
