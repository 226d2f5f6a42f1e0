package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aremont/college-appointments/internal/booking"
	"github.com/aremont/college-appointments/internal/model"
)

// MySQLStore persists both ledgers in MySQL.  All SQL is hand-written
// and scoped to single statements; the booked-flag transitions are
// compare-and-set updates so the at-most-one-booking property holds
// even when several service processes share the database.  IDs come
// from auto-increment columns.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore returns a MySQLStore bound to the given database.
func NewMySQLStore(db *sql.DB) *MySQLStore { return &MySQLStore{db: db} }

// CreateSlot inserts a new slot row and populates the generated ID.
func (s *MySQLStore) CreateSlot(ctx context.Context, slot *model.Slot) error {
	const q = `INSERT INTO slots (professor_id, date, time_slot, is_booked) VALUES (?, ?, ?, 0)`
	res, err := s.db.ExecContext(ctx, q, slot.ProfessorID, slot.Date, slot.TimeSlot)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	slot.ID = uint64(id)
	return nil
}

// GetSlot fetches one slot row.
func (s *MySQLStore) GetSlot(ctx context.Context, id uint64) (*model.Slot, error) {
	const q = `SELECT id, professor_id, date, time_slot, is_booked FROM slots WHERE id = ?`
	var slot model.Slot
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&slot.ID, &slot.ProfessorID, &slot.Date, &slot.TimeSlot, &slot.IsBooked,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListFreeSlots returns all unbooked slots of a professor.  A single
// SELECT gives a consistent snapshot of the flag and the denormalized
// fields.
func (s *MySQLStore) ListFreeSlots(ctx context.Context, professorID uint64) ([]model.Slot, error) {
	const q = `SELECT id, professor_id, date, time_slot, is_booked
			   FROM slots
			   WHERE professor_id = ? AND is_booked = 0`
	rows, err := s.db.QueryContext(ctx, q, professorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Slot, 0)
	for rows.Next() {
		var slot model.Slot
		if err := rows.Scan(&slot.ID, &slot.ProfessorID, &slot.Date, &slot.TimeSlot, &slot.IsBooked); err != nil {
			return nil, err
		}
		out = append(out, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkSlotBooked performs the free→booked compare-and-set.  Zero rows
// affected means the slot was either already booked or missing; a
// follow-up existence check picks the right error.
func (s *MySQLStore) MarkSlotBooked(ctx context.Context, id uint64) error {
	const q = `UPDATE slots SET is_booked = 1 WHERE id = ? AND is_booked = 0`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	var exists bool
	const check = `SELECT EXISTS(SELECT 1 FROM slots WHERE id = ?)`
	if err := s.db.QueryRowContext(ctx, check, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return booking.ErrSlotNotFound
	}
	return booking.ErrSlotUnavailable
}

// MarkSlotFree flips the flag back, unconditionally on the flag value
// so a rollback after a failed appointment insert also lands here.
func (s *MySQLStore) MarkSlotFree(ctx context.Context, id uint64) error {
	const q = `UPDATE slots SET is_booked = 0 WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected can be zero for a missing row or an already-free
		// slot; only the missing row is reported.
		var exists bool
		const check = `SELECT EXISTS(SELECT 1 FROM slots WHERE id = ?)`
		if err := s.db.QueryRowContext(ctx, check, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return booking.ErrSlotNotFound
		}
	}
	return nil
}

// CreateAppointment inserts a new appointment row and populates the
// generated ID.
func (s *MySQLStore) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	const q = `INSERT INTO appointments (student_id, professor_id, slot_id, date, time_slot, status)
			   VALUES (?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, a.StudentID, a.ProfessorID, a.SlotID, a.Date, a.TimeSlot, a.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetAppointment fetches one appointment row regardless of status.
func (s *MySQLStore) GetAppointment(ctx context.Context, id uint64) (*model.Appointment, error) {
	const q = `SELECT id, student_id, professor_id, slot_id, date, time_slot, status
			   FROM appointments WHERE id = ?`
	var a model.Appointment
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.StudentID, &a.ProfessorID, &a.SlotID, &a.Date, &a.TimeSlot, &a.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CancelAppointment performs the pending→canceled compare-and-set.
func (s *MySQLStore) CancelAppointment(ctx context.Context, id uint64) error {
	const q = `UPDATE appointments SET status = ? WHERE id = ? AND status = ?`
	res, err := s.db.ExecContext(ctx, q, model.AppointmentCanceled, id, model.AppointmentPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return booking.ErrAppointmentNotFound
	}
	return nil
}

// ListStudentAppointments returns the student's pending appointments.
func (s *MySQLStore) ListStudentAppointments(ctx context.Context, studentID uint64) ([]model.Appointment, error) {
	const q = `SELECT id, student_id, professor_id, slot_id, date, time_slot, status
			   FROM appointments
			   WHERE student_id = ? AND status = ?`
	rows, err := s.db.QueryContext(ctx, q, studentID, model.AppointmentPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Appointment, 0)
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.StudentID, &a.ProfessorID, &a.SlotID, &a.Date, &a.TimeSlot, &a.Status); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
