package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/icognita1702/festalog/internal/service"
	"github.com/icognita1702/festalog/pkg/gateway"
	"github.com/icognita1702/festalog/pkg/response"
	"github.com/icognita1702/festalog/pkg/validator"
)

// GatewayHandler exposes the WhatsApp instance controls to the dashboard.
type GatewayHandler struct {
	client *gateway.Client
	bot    *service.BotService
}

func NewGatewayHandler(client *gateway.Client, bot *service.BotService) *GatewayHandler {
	return &GatewayHandler{
		client: client,
		bot:    bot,
	}
}

type SendTestRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,br_phone"`
	Text        string `json:"text" validate:"required,max=1000"`
}

// GetStatus godoc
// @Summary Get WhatsApp instance connection status
// @Tags gateway
// @Accept json
// @Produce json
// @Param x-festa-auth-key header string true "Dashboard API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/gateway/status [get]
func (h *GatewayHandler) GetStatus(c echo.Context) error {
	status, err := h.client.GetStatus(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, status)
}

// CreateInstance godoc
// @Summary Provision the WhatsApp instance
// @Description Creates the gateway instance; returns a pairing QR code when not yet connected
// @Tags gateway
// @Accept json
// @Produce json
// @Param x-festa-auth-key header string true "Dashboard API key"
// @Success 201 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/gateway/instance [post]
func (h *GatewayHandler) CreateInstance(c echo.Context) error {
	info, err := h.client.CreateInstance(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Created(c, "Instance created", info)
}

// Disconnect godoc
// @Summary Disconnect the WhatsApp instance
// @Tags gateway
// @Accept json
// @Produce json
// @Param x-festa-auth-key header string true "Dashboard API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/gateway/session [delete]
func (h *GatewayHandler) Disconnect(c echo.Context) error {
	ok, err := h.client.Disconnect(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, map[string]any{
		"disconnected": ok,
	})
}

// SendTest godoc
// @Summary Send a test message
// @Description Delivers an arbitrary text through the gateway (dashboard test-send)
// @Tags gateway
// @Accept json
// @Produce json
// @Param x-festa-auth-key header string true "Dashboard API key"
// @Param request body SendTestRequest true "Message to send"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/gateway/test [post]
func (h *GatewayHandler) SendTest(c echo.Context) error {
	var req SendTestRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	if err := h.bot.SendTest(c.Request().Context(), req.PhoneNumber, req.Text); err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "Test message sent", nil)
}

// GetCachedReplies godoc
// @Summary Get cached bot replies from Redis
// @Description Returns the last delivered reply per sender for the dashboard conversation view
// @Tags gateway
// @Accept json
// @Produce json
// @Param x-festa-auth-key header string true "Dashboard API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/replies/cached [get]
func (h *GatewayHandler) GetCachedReplies(c echo.Context) error {
	cached, err := h.bot.GetCachedReplies(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, cached)
}
