package middleware

import (
	"courierhub/internal/common"
	"courierhub/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantMiddleware turns an authenticated principal (or API key) into a
// TenantContext. The context is attached to the request and every handler
// passes it explicitly into the services it calls.
type TenantMiddleware struct {
	tenantSvc services.TenantService
}

func NewTenantMiddleware(tenantSvc services.TenantService) *TenantMiddleware {
	return &TenantMiddleware{tenantSvc: tenantSvc}
}

func (m *TenantMiddleware) Resolve() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			if apiKey := c.Request().Header.Get("X-API-Key"); apiKey != "" {
				tc, err := m.tenantSvc.ResolveAPIKey(ctx, apiKey)
				if err != nil {
					return common.SendError(c, err)
				}
				c.SetRequest(c.Request().WithContext(common.WithTenantContext(ctx, tc)))
				return next(c)
			}

			principalID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return common.SendError(c, common.NewUnauthenticatedError())
			}

			tc, err := m.tenantSvc.Resolve(ctx, principalID)
			if err != nil {
				return common.SendError(c, err)
			}

			c.SetRequest(c.Request().WithContext(common.WithTenantContext(ctx, tc)))
			return next(c)
		}
	}
}
