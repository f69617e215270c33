package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aroy/employee-dashboard/internal/auth"
)

// CSRFHeader is the only channel the anti-forgery token is accepted on.
// A cross-site form post can send cookies but cannot set this header,
// which is the entire point of the check.
const CSRFHeader = "X-CSRF-Token"

// CSRFGuard verifies the anti-forgery credential. It must run after
// SessionAuth: a request that fails the session check never reaches it.
// Missing, malformed and expired tokens all map to 403.
func CSRFGuard(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(CSRFHeader)
			if raw == "" {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "CSRF token missing"})
			}
			if err := auth.VerifyCSRF(secret, raw); err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Invalid CSRF token"})
			}
			return next(c)
		}
	}
}
