package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/theatharvamuley10/backendPro/internal/core/domain"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// CookieConfig controls the session cookies. Max-Age follows the token TTLs.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (cc CookieConfig) sameSite() http.SameSite {
	if cc.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func (cc CookieConfig) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: cc.sameSite(),
	}
}

func (cc CookieConfig) setSession(c echo.Context, pair domain.TokenPair) {
	c.SetCookie(cc.cookie(accessTokenCookie, pair.AccessToken, cc.AccessTTL))
	c.SetCookie(cc.cookie(refreshTokenCookie, pair.RefreshToken, cc.RefreshTTL))
}

func (cc CookieConfig) clearSession(c echo.Context) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		ck := cc.cookie(name, "", 0)
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
		c.SetCookie(ck)
	}
}
