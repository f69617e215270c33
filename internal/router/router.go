// Package router wires HTTP routes for the three services. Each binary
// registers only its own surface; the route shapes (/login, /logout,
// /protected, /{feedName}) are a public contract the browser client
// relies on and must not move under a version prefix.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/aroy/employee-dashboard/internal/handler"
	"github.com/aroy/employee-dashboard/internal/middleware"
)

// RegisterAuth registers the auth service routes. loginLimiter guards
// only the login route; the other endpoints do no expensive work.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret, csrfSecret string, loginLimiter echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	if loginLimiter != nil {
		e.POST("/login", a.Login, loginLimiter)
	} else {
		e.POST("/login", a.Login)
	}
	e.POST("/logout", a.Logout)
	// Session first, then CSRF: a request with no valid session is 401
	// before the CSRF header is ever looked at.
	e.GET("/protected", a.Protected,
		middleware.SessionAuth(jwtSecret),
		middleware.CSRFGuard(csrfSecret))
}

// RegisterFeed registers the feed service routes. The parameter route
// comes last; Echo matches static paths like /healthz first.
func RegisterFeed(e *echo.Echo, f *handler.FeedHandler, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	if cache != nil {
		e.GET("/:feedName", f.Get, cache)
	} else {
		e.GET("/:feedName", f.Get)
	}
}

// RegisterDashboard registers the aggregated summary routes.
func RegisterDashboard(e *echo.Echo, d *handler.DashboardHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/overview", d.Overview)
	e.GET("/projects", d.Projects)
}
