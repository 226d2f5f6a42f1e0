package router

import (
	"github.com/labstack/echo/v4"

	"github.com/aremont/college-appointments/internal/handler"
	"github.com/aremont/college-appointments/internal/middleware"
	"github.com/aremont/college-appointments/internal/model"
)

// Role names used when wiring route groups.
const (
	roleProfessor = model.RoleProfessor
	roleStudent   = model.RoleStudent
)

// RegisterProfessor registers professor-scoped endpoints: publishing
// availability and canceling appointments.  Both require a valid JWT
// with the PROFESSOR role; ownership of the targeted resources is
// enforced by the booking engine.
func RegisterProfessor(e *echo.Echo, av *handler.AvailabilityHandler, ap *handler.AppointmentHandler, jwtSecret string) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roleProfessor),
	)
	g.POST("/professors/:id/availability", av.PublishSlot)
	g.PUT("/appointments/:id/cancel", ap.Cancel)
}

// RegisterAvailability registers the free-slot listing, readable by any
// authenticated user.  cacheMW is the optional Redis response cache; a
// nil value registers the route uncached.
func RegisterAvailability(e *echo.Echo, av *handler.AvailabilityHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roleProfessor, roleStudent),
	}
	if cacheMW != nil {
		mws = append(mws, cacheMW)
	}
	e.GET("/v1/professors/:id/availability", av.ListFreeSlots, mws...)
}
