package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aremont/college-appointments/internal/booking"
)

// AvailabilityHandler exposes the professor availability endpoints:
// publishing new slots and listing the free ones.  All authorization
// beyond the role middleware happens inside the booking engine.
type AvailabilityHandler struct {
	Engine *booking.Engine
}

func NewAvailabilityHandler(engine *booking.Engine) *AvailabilityHandler {
	if engine == nil {
		panic("nil engine passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Engine: engine}
}

type publishSlotReq struct {
	Date     string `json:"date"`
	TimeSlot string `json:"timeSlot"`
}

// PublishSlot handles POST /v1/professors/:id/availability.  The
// authenticated professor publishes a new bookable slot under their own
// id; publishing for someone else is rejected by the engine with
// forbidden.  Returns 201 with the created slot.
func (h *AvailabilityHandler) PublishSlot(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	professorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || professorID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid professor id"})
	}
	var req publishSlotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	slot, err := h.Engine.PublishSlot(c.Request().Context(), actor, professorID, req.Date, req.TimeSlot)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, slot)
}

// ListFreeSlots handles GET /v1/professors/:id/availability.  Any
// authenticated user can browse a professor's free slots.  Responses
// may be served from the Redis cache for a short TTL.
func (h *AvailabilityHandler) ListFreeSlots(c echo.Context) error {
	professorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || professorID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid professor id"})
	}
	slots, err := h.Engine.ListFreeSlots(c.Request().Context(), professorID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, slots)
}
