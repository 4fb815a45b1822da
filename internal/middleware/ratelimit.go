package middleware

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"courierhub/internal/common"
	"courierhub/internal/models"

	"github.com/labstack/echo/v4"
)

const rateLimitWindow = time.Minute

// WindowCounter is the atomic increment-and-report primitive backing the
// limiter. The Redis cache service and the in-memory counter both satisfy it.
type WindowCounter interface {
	IncrementWindow(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RateLimiter enforces a fixed one-minute request quota per tenant, sized
// by the tenant's plan. Counters for elapsed windows are never reused and
// expire on their own.
type RateLimiter struct {
	counter WindowCounter
	quotas  map[string]int
	now     func() time.Time
}

// DefaultQuotas returns the per-plan requests-per-minute table.
func DefaultQuotas() map[string]int {
	return map[string]int{
		models.PlanFree:       60,
		models.PlanPro:        300,
		models.PlanEnterprise: 1000,
	}
}

func NewRateLimiter(counter WindowCounter, quotas map[string]int) *RateLimiter {
	if quotas == nil {
		quotas = DefaultQuotas()
	}
	return &RateLimiter{
		counter: counter,
		quotas:  quotas,
		now:     time.Now,
	}
}

func (rl *RateLimiter) quotaFor(plan string) int {
	if quota, ok := rl.quotas[plan]; ok {
		return quota
	}
	return rl.quotas[models.PlanFree]
}

// Limit must run after tenant resolution; whitelisted routes are simply
// registered outside the limited group.
func (rl *RateLimiter) Limit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			tc, ok := common.GetTenantContext(ctx)
			if !ok {
				return common.SendError(c, common.NewTenantNotFoundError())
			}

			window := rl.now().Unix() / 60
			key := fmt.Sprintf("%s:%d", tc.TenantID.String(), window)

			// INCR-then-compare: two racing requests can never both see a
			// pre-quota count. The 2x TTL outlives the window so a counter
			// is only ever touched within its own minute.
			count, err := rl.counter.IncrementWindow(ctx, key, 2*rateLimitWindow)
			if err != nil {
				// Counter backend down: admit rather than refuse traffic.
				log.Printf("WARN: rate limit counter unavailable, admitting request: %v", err)
				return next(c)
			}

			quota := rl.quotaFor(tc.Plan)
			remaining := int64(quota) - count
			if remaining < 0 {
				remaining = 0
			}
			reset := (window + 1) * 60

			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(quota))
			header.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			header.Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

			if count > int64(quota) {
				return common.SendError(c, common.NewRateLimitError())
			}

			return next(c)
		}
	}
}
