// Package booking owns the slot-reservation state machine: how an
// availability slot moves between free and booked and how appointment
// records stay consistent with it under concurrent access.  The sentinel
// errors below are the only failure kinds the engine produces; handlers
// translate them to HTTP status codes and must never leak anything else
// to callers.
package booking

import "errors"

// ErrForbidden is returned when the caller is authenticated but lacks
// the role or identity required for the operation, e.g. a professor
// publishing availability for another professor.  Handlers translate
// this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrSlotNotFound is returned when no slot exists with the requested
// id.  Handlers translate this into HTTP 404.
var ErrSlotNotFound = errors.New("slot not found")

// ErrSlotUnavailable is returned when a booking attempt targets a slot
// that is already booked.  This is a legitimate terminal outcome, not a
// transient condition: the caller should re-list availability and pick
// another slot.  Handlers translate this into HTTP 400.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrAppointmentNotFound is returned when no live appointment exists
// with the requested id.  A canceled appointment is no longer live and
// reports this same error.  Handlers translate this into HTTP 404.
var ErrAppointmentNotFound = errors.New("appointment not found")

// ErrValidation is returned when a request is missing required fields,
// such as an empty date or time slot on publish.  Handlers translate
// this into HTTP 400.
var ErrValidation = errors.New("validation failed")
