package booking

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/aremont/college-appointments/internal/model"
)

// Actor identifies an authenticated caller.  The transport layer
// resolves it from the JWT before invoking any engine operation; the
// engine re-checks role and identity because authorization gates ledger
// mutations and is therefore a core rule, not a transport concern.
type Actor struct {
	UserID uint64
	Role   string
}

// slotShards is the number of striped locks guarding slot transitions.
// Two slot ids that hash to the same stripe serialize against each
// other unnecessarily, which is harmless; ids on different stripes
// proceed in parallel.
const slotShards = 64

// Engine owns all slot and appointment state transitions.  The
// check-then-set on a slot's booked flag and the creation of the
// corresponding appointment execute as one atomic unit per slot: the
// engine serializes book/cancel per slot id through a striped mutex,
// and the store's MarkSlotBooked is additionally a compare-and-set so
// exactly one of two concurrent bookings can win even when several
// processes share the same database.
type Engine struct {
	store Store
	locks [slotShards]sync.Mutex
}

// NewEngine returns an Engine bound to the given store.  The store must
// be non-nil.
func NewEngine(store Store) *Engine {
	if store == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{store: store}
}

func (e *Engine) slotLock(slotID uint64) *sync.Mutex {
	return &e.locks[slotID%slotShards]
}

// PublishSlot creates a new, unbooked availability slot.  The caller
// must be a professor publishing under their own id; anything else is
// ErrForbidden.  Duplicate (professor, date, timeSlot) tuples are
// permitted.  Returns the created slot.
func (e *Engine) PublishSlot(ctx context.Context, actor Actor, professorID uint64, date, timeSlot string) (*model.Slot, error) {
	if actor.Role != model.RoleProfessor || actor.UserID != professorID {
		return nil, ErrForbidden
	}
	date = strings.TrimSpace(date)
	timeSlot = strings.TrimSpace(timeSlot)
	if date == "" || timeSlot == "" {
		return nil, ErrValidation
	}
	s := &model.Slot{
		ProfessorID: professorID,
		Date:        date,
		TimeSlot:    timeSlot,
		IsBooked:    false,
	}
	if err := e.store.CreateSlot(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListFreeSlots returns all of the professor's slots that are not
// currently booked.  Read-only; no ordering is guaranteed beyond the
// membership of the set at the instant of the read.
func (e *Engine) ListFreeSlots(ctx context.Context, professorID uint64) ([]model.Slot, error) {
	return e.store.ListFreeSlots(ctx, professorID)
}

// BookSlot books a free slot for a student and creates the matching
// appointment with a snapshot of the slot's professor, date and time.
// The caller must be a student.  At most one booking succeeds per slot:
// concurrent attempts on the same slot id leave exactly one winner, the
// rest fail with ErrSlotUnavailable.
func (e *Engine) BookSlot(ctx context.Context, actor Actor, slotID uint64) (*model.Appointment, error) {
	if actor.Role != model.RoleStudent {
		return nil, ErrForbidden
	}
	mu := e.slotLock(slotID)
	mu.Lock()
	defer mu.Unlock()

	slot, err := e.store.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.IsBooked {
		return nil, ErrSlotUnavailable
	}
	if err := e.store.MarkSlotBooked(ctx, slotID); err != nil {
		return nil, err
	}
	appt := &model.Appointment{
		StudentID:   actor.UserID,
		ProfessorID: slot.ProfessorID,
		SlotID:      slot.ID,
		Date:        slot.Date,
		TimeSlot:    slot.TimeSlot,
		Status:      model.AppointmentPending,
	}
	if err := e.store.CreateAppointment(ctx, appt); err != nil {
		// Undo the flag flip so the slot does not stay booked without a
		// live appointment.
		_ = e.store.MarkSlotFree(ctx, slotID)
		return nil, err
	}
	return appt, nil
}

// CancelAppointment cancels a pending appointment and frees the
// referenced slot.  The caller must be a professor and must own the
// appointment; canceling another professor's appointment is
// ErrForbidden.  A missing slot is not an error; the appointment is
// still canceled and the slot transition skipped.  Returns the
// appointment in its canceled state.
func (e *Engine) CancelAppointment(ctx context.Context, actor Actor, appointmentID uint64) (*model.Appointment, error) {
	if actor.Role != model.RoleProfessor {
		return nil, ErrForbidden
	}
	appt, err := e.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.ProfessorID != actor.UserID {
		return nil, ErrForbidden
	}
	if appt.Status != model.AppointmentPending {
		return nil, ErrAppointmentNotFound
	}

	// Serialize against bookings of the same slot so a concurrent
	// BookSlot cannot observe the slot free while the old appointment
	// is still pending.
	mu := e.slotLock(appt.SlotID)
	mu.Lock()
	defer mu.Unlock()

	// Cancel first: of two racing cancels only one passes the
	// compare-and-set, so the slot is freed exactly once.
	if err := e.store.CancelAppointment(ctx, appointmentID); err != nil {
		return nil, err
	}
	if err := e.store.MarkSlotFree(ctx, appt.SlotID); err != nil && !errors.Is(err, ErrSlotNotFound) {
		return nil, err
	}
	appt.Status = model.AppointmentCanceled
	return appt, nil
}

// ListStudentAppointments returns the student's pending appointments
// ordered by (date, timeSlot) ascending, comparing the stored strings
// lexically.  The caller must be the student whose appointments are
// requested.
func (e *Engine) ListStudentAppointments(ctx context.Context, actor Actor, studentID uint64) ([]model.Appointment, error) {
	if actor.Role != model.RoleStudent || actor.UserID != studentID {
		return nil, ErrForbidden
	}
	appts, err := e.store.ListStudentAppointments(ctx, studentID)
	if err != nil {
		return nil, err
	}
	sort.Slice(appts, func(i, j int) bool {
		if appts[i].Date != appts[j].Date {
			return appts[i].Date < appts[j].Date
		}
		return appts[i].TimeSlot < appts[j].TimeSlot
	})
	return appts, nil
}
