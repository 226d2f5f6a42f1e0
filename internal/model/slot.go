package model

// Slot is a professor-published, bookable unit of time as stored in the
// `slots` table.  Date and TimeSlot are kept as plain strings (for
// example "2025-12-01" and "02:00 PM"); the service orders them by
// lexical comparison and never parses them as temporal values.  A slot
// is never deleted: IsBooked flips false→true when a student books it
// and true→false when the owning appointment is canceled, so a slot can
// cycle between free and booked any number of times.
//
// Fields:
//  ID          – primary key identifier.
//  ProfessorID – user ID of the publishing professor.
//  Date        – calendar date string.
//  TimeSlot    – time-of-day string.
//  IsBooked    – true iff exactly one pending appointment references it.
type Slot struct {
	ID          uint64 `json:"id"`          // slots.id
	ProfessorID uint64 `json:"professorId"` // slots.professor_id
	Date        string `json:"date"`        // slots.date
	TimeSlot    string `json:"timeSlot"`    // slots.time_slot
	IsBooked    bool   `json:"isBooked"`    // slots.is_booked
}
