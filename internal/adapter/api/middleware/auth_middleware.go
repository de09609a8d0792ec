package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"bhangari/internal/domain/entity"
	"bhangari/pkg/errors"
	"bhangari/pkg/response"
)

// Authenticator resolves an ID token to the caller's profile.
type Authenticator interface {
	Authenticate(ctx context.Context, idToken string) (*entity.User, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// Authenticate requires a bearer token and stores uid, role and user on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		return m.authenticate(c, next, parts[1])
	}
}

// AuthenticateQuery reads the token from the "token" query parameter.
// Browsers cannot set headers on a WebSocket handshake.
func (m *AuthMiddleware) AuthenticateQuery(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		if token == "" {
			return response.Error(c, errors.Unauthorized("token query parameter is required", nil))
		}
		return m.authenticate(c, next, token)
	}
}

func (m *AuthMiddleware) authenticate(c echo.Context, next echo.HandlerFunc, token string) error {
	user, err := m.auth.Authenticate(c.Request().Context(), token)
	if err != nil {
		return response.Error(c, err)
	}

	c.Set("uid", user.ID)
	c.Set("role", user.Role)
	c.Set("user", user)

	return next(c)
}
