package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aremont/college-appointments/internal/booking"
	"github.com/aremont/college-appointments/internal/queue"
)

// AppointmentHandler exposes booking, cancellation and the student's
// appointment listing.  Publish is the optional broker hook invoked
// after a successful booking or cancellation; it is best-effort and a
// failure never fails the request.
type AppointmentHandler struct {
	Engine  *booking.Engine
	Publish func(ctx context.Context, ev queue.AppointmentEvent) error
}

func NewAppointmentHandler(engine *booking.Engine, publish func(ctx context.Context, ev queue.AppointmentEvent) error) *AppointmentHandler {
	if engine == nil {
		panic("nil engine passed to NewAppointmentHandler")
	}
	return &AppointmentHandler{Engine: engine, Publish: publish}
}

type bookSlotReq struct {
	SlotID uint64 `json:"slotId"`
}

// publishEvent emits a broker event with its own timeout so a slow or
// absent broker cannot stall the response.
func (h *AppointmentHandler) publishEvent(c echo.Context, ev queue.AppointmentEvent) {
	if h.Publish == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Publish(ctx, ev); err != nil {
		c.Logger().Warnf("publish %s event: %v", ev.Type, err)
	}
}

// Book handles POST /v1/appointments.  The authenticated student books
// the slot named in the body; at most one concurrent booking per slot
// succeeds.  Returns 201 with the created appointment.
func (h *AppointmentHandler) Book(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookSlotReq
	if err := c.Bind(&req); err != nil || req.SlotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slotId is required"})
	}
	appt, err := h.Engine.BookSlot(c.Request().Context(), actor, req.SlotID)
	if err != nil {
		return engineError(c, err)
	}
	h.publishEvent(c, queue.BookedEvent(appt))
	return c.JSON(http.StatusCreated, appt)
}

// Cancel handles PUT /v1/appointments/:id/cancel.  The authenticated
// professor cancels an appointment they own; the referenced slot
// becomes bookable again.  Returns 200 with a confirmation.
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	apptID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || apptID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	appt, err := h.Engine.CancelAppointment(c.Request().Context(), actor, apptID)
	if err != nil {
		return engineError(c, err)
	}
	h.publishEvent(c, queue.CanceledEvent(appt))
	return c.JSON(http.StatusOK, echo.Map{
		"msg":         "appointment successfully canceled",
		"appointment": appt,
	})
}

// ListForStudent handles GET /v1/students/:id/appointments.  A student
// lists their own pending appointments ordered by date and time slot;
// requesting someone else's list is rejected by the engine.
func (h *AppointmentHandler) ListForStudent(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	studentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || studentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	appts, err := h.Engine.ListStudentAppointments(c.Request().Context(), actor, studentID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, appts)
}
