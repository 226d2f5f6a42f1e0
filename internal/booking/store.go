package booking

import (
	"context"

	"github.com/aremont/college-appointments/internal/model"
)

// Store is the ledger storage the engine is given at construction.  The
// engine is the sole mutator of both ledgers; implementations only need
// to provide the primitives below.  There is no module-level store;
// every Engine instance holds its own handle, which keeps test
// instances isolated.
//
// Two implementations exist: a MySQL-backed store (internal/store,
// MySQLStore) for production and a mutex-guarded in-memory store
// (MemoryStore) for tests.
type Store interface {
	// CreateSlot inserts a new slot and assigns its generated ID.
	CreateSlot(ctx context.Context, s *model.Slot) error
	// GetSlot returns the slot with the given id, or ErrSlotNotFound.
	GetSlot(ctx context.Context, id uint64) (*model.Slot, error)
	// ListFreeSlots returns every unbooked slot of the professor.  The
	// returned values are a consistent snapshot: no slot may be
	// observed mid-transition.
	ListFreeSlots(ctx context.Context, professorID uint64) ([]model.Slot, error)

	// MarkSlotBooked flips is_booked false→true as a compare-and-set.
	// It returns ErrSlotUnavailable when the slot is already booked and
	// ErrSlotNotFound when it does not exist.
	MarkSlotBooked(ctx context.Context, id uint64) error
	// MarkSlotFree flips is_booked back to false.  It returns
	// ErrSlotNotFound when the slot does not exist.
	MarkSlotFree(ctx context.Context, id uint64) error

	// CreateAppointment inserts a new appointment and assigns its
	// generated ID.
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	// GetAppointment returns the appointment with the given id
	// regardless of status, or ErrAppointmentNotFound.
	GetAppointment(ctx context.Context, id uint64) (*model.Appointment, error)
	// CancelAppointment flips status pending→canceled as a
	// compare-and-set.  It returns ErrAppointmentNotFound when no
	// pending appointment with the id exists.
	CancelAppointment(ctx context.Context, id uint64) error
	// ListStudentAppointments returns the student's pending
	// appointments in no particular order; the engine sorts them.
	ListStudentAppointments(ctx context.Context, studentID uint64) ([]model.Appointment, error)
}
