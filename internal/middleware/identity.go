package middleware

import "github.com/labstack/echo/v4"

// identity returns the signed-in user id for keying caches and rate
// limits, or "anon" on public routes.
func identity(c echo.Context) string {
	if s, ok := c.Get(CtxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}
