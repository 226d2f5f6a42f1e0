package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/aremont/college-appointments/internal/handler"
	"github.com/aremont/college-appointments/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
// Currently that is only the health check used by load balancers and
// monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the identity endpoints.  Unauthenticated
// operations (register, login, refresh, logout) live under /v1/auth;
// /v1/me requires a valid access token of either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roleProfessor, roleStudent),
	)
	auth.GET("/me", a.Me)
}
