package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Cookie names shared by the auth handlers and the session middleware.
const (
	CookieAccessToken  = "accessToken"
	CookieRefreshToken = "refreshToken"
)

// NewAuthCookie builds a token cookie. Both token cookies are httpOnly and
// same-site lax; the secure flag follows the environment so local development
// over plain HTTP keeps working.
func NewAuthCookie(name, value string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}

// ClearAuthCookie builds an immediately expiring cookie for logout and
// account deletion.
func ClearAuthCookie(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}

// ClearSessionCookies removes both token cookies from the client.
func ClearSessionCookies(c echo.Context, secure bool) {
	c.SetCookie(ClearAuthCookie(CookieAccessToken, secure))
	c.SetCookie(ClearAuthCookie(CookieRefreshToken, secure))
}
