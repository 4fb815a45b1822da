package handlers

import (
	"courierhub/internal/common"

	"github.com/labstack/echo/v4"
)

// tenantContext pulls the resolved tenant scope off the request. Handlers
// registered behind the tenant middleware can rely on it being present.
func tenantContext(c echo.Context) (common.TenantContext, error) {
	tc, ok := common.GetTenantContext(c.Request().Context())
	if !ok {
		return common.TenantContext{}, common.NewTenantNotFoundError()
	}
	return tc, nil
}
