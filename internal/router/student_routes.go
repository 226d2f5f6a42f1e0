package router

import (
	"github.com/labstack/echo/v4"

	"github.com/aremont/college-appointments/internal/handler"
	"github.com/aremont/college-appointments/internal/middleware"
)

// RegisterStudent registers student-scoped endpoints under /v1.  All
// routes require a valid JWT with the STUDENT role.  Students book
// slots and view their own pending appointments; the engine rejects a
// student reading another student's list.
func RegisterStudent(e *echo.Echo, ap *handler.AppointmentHandler, jwtSecret string) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roleStudent),
	)
	g.POST("/appointments", ap.Book)
	g.GET("/students/:id/appointments", ap.ListForStudent)
}
