package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/theatharvamuley10/backendPro/internal/core/domain"
)

const (
	accessTokenCookie = "accessToken"
	userContextKey    = "user"
)

// Authenticator resolves an access token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.PublicUser, error)
}

// Auth reads the access token from the accessToken cookie or the
// Authorization bearer header and stores the resolved user under "user".
func Auth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := accessToken(c)
			if token == "" {
				return domain.ErrUnauthorized
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

func accessToken(c echo.Context) string {
	if ck, err := c.Cookie(accessTokenCookie); err == nil && ck.Value != "" {
		return ck.Value
	}

	scheme, token, ok := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
