package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/noah-isme/company-site-api/internal/observability"
	"github.com/noah-isme/company-site-api/internal/utils"
)

// RateLimit throttles a route group per console user, or per visitor IP for
// guests. The visitor IP is the same one recorded on activity logs.
func RateLimit(name string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if id, ok := c.Locals("user_id").(uint); ok && id != 0 {
				return fmt.Sprintf("%s:user:%d", name, id)
			}
			return fmt.Sprintf("%s:ip:%s", name, clientIP(c))
		},
		LimitReached: func(c *fiber.Ctx) error {
			observability.RateLimited().WithLabelValues(name).Inc()
			return utils.Fail(c, fiber.StatusTooManyRequests, "too many requests", fiber.Map{"retry_after": c.GetRespHeader(fiber.HeaderRetryAfter)})
		},
	})
}
