package handlers

import (
	"net/http"

	"courierhub/internal/common"
	"courierhub/internal/models"
	"courierhub/internal/services"

	"github.com/labstack/echo/v4"
)

// RateHandlers handles quote calculation and rate table administration.
type RateHandlers struct {
	rateSvc services.RateService
}

func NewRateHandlers(rateSvc services.RateService) *RateHandlers {
	return &RateHandlers{rateSvc: rateSvc}
}

// Quote handles POST /v1/rates/quote
func (h *RateHandlers) Quote(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	var req services.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	quote, err := h.rateSvc.Quote(c.Request().Context(), tc, &req)
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusOK, quote)
}

// ListRates handles GET /v1/rates
func (h *RateHandlers) ListRates(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	rates, err := h.rateSvc.ListRates(c.Request().Context(), tc)
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusOK, rates)
}

// UpsertRate handles PUT /v1/rates
func (h *RateHandlers) UpsertRate(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	var rate models.Rate
	if err := c.Bind(&rate); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.rateSvc.UpsertRate(c.Request().Context(), tc, &rate); err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusOK, rate)
}
