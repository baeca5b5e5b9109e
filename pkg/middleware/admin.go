package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"catering/pkg/auth/service"
)

const (
	adminIDKey    = "admin_id"
	adminEmailKey = "admin_email"
)

type Verifier interface {
	Verify(token string) (*service.Claims, error)
}

func sessionToken(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		if t := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); t != "" {
			return t
		}
	}
	if ck, err := c.Cookie(service.CookieName); err == nil {
		return ck.Value
	}
	return ""
}

func setAdmin(c echo.Context, claims *service.Claims) {
	c.Set(adminIDKey, claims.Subject)
	c.Set(adminEmailKey, claims.Email)
}

// RequireAdmin accepts a bearer token or the admin_session cookie and
// rejects the request with 401 otherwise.
func RequireAdmin(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := sessionToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			claims, err := v.Verify(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired session"})
			}
			setAdmin(c, claims)
			return next(c)
		}
	}
}

// IdentifyAdmin records the admin identity when a valid session is present
// and lets every request through.
func IdentifyAdmin(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := sessionToken(c); token != "" {
				if claims, err := v.Verify(token); err == nil {
					setAdmin(c, claims)
				}
			}
			return next(c)
		}
	}
}

func AdminID(c echo.Context) string {
	v, _ := c.Get(adminIDKey).(string)
	return v
}

func AdminEmail(c echo.Context) string {
	v, _ := c.Get(adminEmailKey).(string)
	return v
}
