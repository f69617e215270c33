package middleware // middleware provides reusable request guards for the HTTP handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aroy/employee-dashboard/internal/auth"
)

// Context keys set by SessionAuth for downstream handlers.
const (
	CtxEmail = "email"
	CtxRole  = "role"
)

// SessionAuth verifies the session credential on every request. The
// token is read from the Authorization header ("Bearer <token>") and,
// when that is absent, from the HttpOnly "token" cookie set by the
// cookie login variant. There is no server-side session state: a request
// is authenticated if and only if the token verifies right now.
//
// Failures map to 401 regardless of cause — a missing token, a broken
// signature and an expired session all look the same to the caller.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				if ck, err := c.Cookie("token"); err == nil {
					raw = ck.Value
				}
			}
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
			}
			claims, err := auth.VerifySession(secret, raw)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Token expired"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token"})
			}
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
