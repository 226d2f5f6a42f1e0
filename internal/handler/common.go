package handler // handler defines HTTP handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aremont/college-appointments/internal/booking"
)

// getUserID extracts the user_id stashed by the JWT middleware and
// converts it to uint64.  jwt decodes numeric claims as float64, so
// several representations must be accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// actorFrom builds the booking.Actor for the authenticated caller.  It
// fails only when the middleware did not run or stored garbage.
func actorFrom(c echo.Context) (booking.Actor, error) {
	uid, err := getUserID(c)
	if err != nil {
		return booking.Actor{}, err
	}
	role, _ := c.Get("role").(string)
	return booking.Actor{UserID: uid, Role: role}, nil
}

// engineError maps booking engine failures onto HTTP responses.  Every
// sentinel has a fixed status; anything unexpected is logged and
// surfaced as a generic 500 so internal detail never reaches the
// caller.
func engineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrSlotNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
	case errors.Is(err, booking.ErrAppointmentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "appointment not found"})
	case errors.Is(err, booking.ErrSlotUnavailable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot is not available"})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, booking.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date and timeSlot are required"})
	default:
		c.Logger().Errorf("booking engine: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
