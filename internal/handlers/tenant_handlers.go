package handlers

import (
	"net/http"

	"courierhub/internal/common"
	"courierhub/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHandlers handles tenant self-administration.
type TenantHandlers struct {
	tenantSvc services.TenantService
}

func NewTenantHandlers(tenantSvc services.TenantService) *TenantHandlers {
	return &TenantHandlers{tenantSvc: tenantSvc}
}

// GetTenant handles GET /v1/tenants/me
func (h *TenantHandlers) GetTenant(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	tenant, err := h.tenantSvc.Get(c.Request().Context(), tc)
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusOK, tenant)
}

// UpdatePlan handles PUT /v1/tenants/me/plan
func (h *TenantHandlers) UpdatePlan(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	var req struct {
		Plan string `json:"plan"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	tenant, err := h.tenantSvc.UpdatePlan(c.Request().Context(), tc, req.Plan)
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusOK, tenant)
}

// DeactivateTenant handles DELETE /v1/tenants/me. Tenants are soft
// deactivated, never removed.
func (h *TenantHandlers) DeactivateTenant(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	if err := h.tenantSvc.Deactivate(c.Request().Context(), tc); err != nil {
		return common.SendError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
