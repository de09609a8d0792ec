package middleware

import (
	"github.com/labstack/echo/v4"

	"bhangari/pkg/errors"
	"bhangari/pkg/response"
)

// RequireRole lets through only users whose role, set by Authenticate, is role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			current, _ := c.Get("role").(string)
			if current != role {
				return response.Error(c, errors.Forbidden("This endpoint is for "+role+"s only", nil))
			}
			return next(c)
		}
	}
}
