package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// TokenGate restricts access to holders of the shared link token, passed
// either as the ?t= query parameter or the X-App-Token header. An empty
// configured token disables the gate.
func TokenGate(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token == "" {
				return next(c)
			}

			got := c.QueryParam("t")
			if got == "" {
				got = c.Request().Header.Get("X-App-Token")
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired link")
			}
			return next(c)
		}
	}
}
