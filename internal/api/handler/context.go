package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/theatharvamuley10/backendPro/internal/core/domain"
)

// UserContextKey is where the auth guard stores the *domain.PublicUser.
const UserContextKey = "user"

// currentUser returns the user resolved by the auth guard. A missing value
// means the route was mounted without the guard.
func currentUser(c echo.Context) (*domain.PublicUser, error) {
	user, ok := c.Get(UserContextKey).(*domain.PublicUser)
	if !ok || user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}
