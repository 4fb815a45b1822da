package handlers

import (
	"net/http"

	"courierhub/internal/common"
	"courierhub/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles tenant signup and token issuance.
type AuthHandlers struct {
	tenantSvc services.TenantService
}

func NewAuthHandlers(tenantSvc services.TenantService) *AuthHandlers {
	return &AuthHandlers{tenantSvc: tenantSvc}
}

// Signup handles POST /v1/auth/signup
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req services.SignupRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	resp, err := h.tenantSvc.Signup(c.Request().Context(), &req)
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusCreated, resp)
}

// Login handles POST /v1/auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req services.LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	resp, err := h.tenantSvc.Login(c.Request().Context(), &req)
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}
