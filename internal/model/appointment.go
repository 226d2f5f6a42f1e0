package model

// Appointment status values stored in appointments.status.  A booking
// starts out pending; cancellation keeps the row and marks it canceled
// so history is retained.  Canceled appointments are excluded from
// student listings.
const (
	AppointmentPending  = "pending"
	AppointmentCanceled = "canceled"
)

// Appointment records a student's booking of a slot, as stored in the
// `appointments` table.  Date and TimeSlot are snapshot copies of the
// slot's fields taken at booking time; later slot edits must never
// retroactively change a booking.  ProfessorID always equals the
// referenced slot's professor; it is derived at booking time, never
// settable by callers.
//
// Fields:
//  ID          – primary key identifier.
//  StudentID   – user ID of the booking student.
//  ProfessorID – user ID of the slot's professor (derived).
//  SlotID      – the booked slot.
//  Date        – snapshot of the slot's date string.
//  TimeSlot    – snapshot of the slot's time string.
//  Status      – pending or canceled.
type Appointment struct {
	ID          uint64 `json:"id"`          // appointments.id
	StudentID   uint64 `json:"studentId"`   // appointments.student_id
	ProfessorID uint64 `json:"professorId"` // appointments.professor_id
	SlotID      uint64 `json:"slotId"`      // appointments.slot_id
	Date        string `json:"date"`        // appointments.date
	TimeSlot    string `json:"timeSlot"`    // appointments.time_slot
	Status      string `json:"status"`      // appointments.status
}
