package middleware

import (
	"fmt"
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"bhangari/internal/infrastructure/ratelimit"
	"bhangari/pkg/errors"
	"bhangari/pkg/logger"
	"bhangari/pkg/response"
)

// RateLimit throttles requests per client IP using the limiter's policy for action.
func RateLimit(limiter *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			allowed, wait := limiter.Allow(ip, action)
			if !allowed {
				seconds := int(math.Ceil(wait.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				logger.Warn("Rate limit hit by %s on %s", ip, action)

				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return response.Error(c, errors.TooManyRequests(fmt.Sprintf("Too many requests, retry in %d seconds", seconds)))
			}

			return next(c)
		}
	}
}
