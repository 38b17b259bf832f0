package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/icognita1702/festalog/environments"
	"github.com/icognita1702/festalog/internal/freight"
	"github.com/icognita1702/festalog/pkg/response"
	"github.com/icognita1702/festalog/pkg/validator"
)

type FreightHandler struct {
	calculator *freight.Calculator
	config     environments.FreightConfig
}

func NewFreightHandler(calculator *freight.Calculator, cfg environments.FreightConfig) *FreightHandler {
	return &FreightHandler{
		calculator: calculator,
		config:     cfg,
	}
}

type FreightQuoteRequest struct {
	Address string `json:"address" validate:"required,min=5,max=300"`
}

// Quote godoc
// @Summary Quote delivery freight for an address
// @Description Geocodes the address, routes from the store and applies the per-km price with a minimum floor. When the address cannot be resolved the minimum freight is returned with fallback=true.
// @Tags freight
// @Accept json
// @Produce json
// @Param x-festa-auth-key header string true "Dashboard API key"
// @Param request body FreightQuoteRequest true "Delivery address"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/v1/freight/quote [post]
func (h *FreightHandler) Quote(c echo.Context) error {
	var req FreightQuoteRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	quote, ok := h.calculator.QuoteForAddress(c.Request().Context(), req.Address)
	if !ok {
		// Order-entry fallback policy: charge the floor when the address
		// cannot be resolved.
		return response.Ok(c, map[string]any{
			"fallback": true,
			"freight":  h.config.MinimumFreight,
		})
	}

	return response.Ok(c, map[string]any{
		"fallback":   false,
		"distanceKm": quote.DistanceKm,
		"freight":    quote.Freight,
	})
}
