// Package queue defines the message payloads exchanged over the broker
// and the background consumer that records them.
package queue

import (
	"time"

	"github.com/aremont/college-appointments/internal/model"
)

// EventQueueName is the durable queue carrying appointment lifecycle
// events.
const EventQueueName = "appointment.events"

// Event types carried in AppointmentEvent.Type.
const (
	EventBooked   = "booked"
	EventCanceled = "canceled"
)

// AppointmentEvent is published when an appointment is booked or
// canceled.  It carries enough detail for downstream consumers to log
// or notify without querying the primary database.
type AppointmentEvent struct {
	Type          string `json:"type"`
	AppointmentID uint64 `json:"appointmentId"`
	SlotID        uint64 `json:"slotId"`
	StudentID     uint64 `json:"studentId"`
	ProfessorID   uint64 `json:"professorId"`
	Date          string `json:"date"`
	TimeSlot      string `json:"timeSlot"`
	OccurredAt    string `json:"occurredAt"`
}

func fromAppointment(typ string, a *model.Appointment) AppointmentEvent {
	return AppointmentEvent{
		Type:          typ,
		AppointmentID: a.ID,
		SlotID:        a.SlotID,
		StudentID:     a.StudentID,
		ProfessorID:   a.ProfessorID,
		Date:          a.Date,
		TimeSlot:      a.TimeSlot,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

// BookedEvent builds the event for a successful booking.
func BookedEvent(a *model.Appointment) AppointmentEvent {
	return fromAppointment(EventBooked, a)
}

// CanceledEvent builds the event for a cancellation.
func CanceledEvent(a *model.Appointment) AppointmentEvent {
	return fromAppointment(EventCanceled, a)
}
