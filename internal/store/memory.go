// Package store provides the ledger storage implementations consumed by
// the booking engine: a MySQL-backed store for production and an
// in-memory store for isolated test instances.
package store

import (
	"context"
	"sync"

	"github.com/aremont/college-appointments/internal/booking"
	"github.com/aremont/college-appointments/internal/model"
)

// MemoryStore keeps both ledgers in mutex-guarded maps.  All reads
// return copies taken under the lock, so callers never observe a record
// mid-transition.  IDs are assigned from monotonically increasing
// counters, mirroring the auto-increment keys of the MySQL store.
type MemoryStore struct {
	mu         sync.RWMutex
	slots      map[uint64]model.Slot
	appts      map[uint64]model.Appointment
	nextSlotID uint64
	nextApptID uint64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots: make(map[uint64]model.Slot),
		appts: make(map[uint64]model.Appointment),
	}
}

// CreateSlot inserts the slot and assigns its ID.
func (m *MemoryStore) CreateSlot(_ context.Context, s *model.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSlotID++
	s.ID = m.nextSlotID
	m.slots[s.ID] = *s
	return nil
}

// GetSlot returns a copy of the slot or booking.ErrSlotNotFound.
func (m *MemoryStore) GetSlot(_ context.Context, id uint64) (*model.Slot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.slots[id]
	if !ok {
		return nil, booking.ErrSlotNotFound
	}
	return &s, nil
}

// ListFreeSlots returns copies of the professor's unbooked slots.
func (m *MemoryStore) ListFreeSlots(_ context.Context, professorID uint64) ([]model.Slot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Slot, 0)
	for _, s := range m.slots {
		if s.ProfessorID == professorID && !s.IsBooked {
			out = append(out, s)
		}
	}
	return out, nil
}

// MarkSlotBooked flips is_booked false→true.  Only one caller can win
// the transition; the rest get booking.ErrSlotUnavailable.
func (m *MemoryStore) MarkSlotBooked(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return booking.ErrSlotNotFound
	}
	if s.IsBooked {
		return booking.ErrSlotUnavailable
	}
	s.IsBooked = true
	m.slots[id] = s
	return nil
}

// MarkSlotFree flips is_booked back to false.
func (m *MemoryStore) MarkSlotFree(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return booking.ErrSlotNotFound
	}
	s.IsBooked = false
	m.slots[id] = s
	return nil
}

// CreateAppointment inserts the appointment and assigns its ID.
func (m *MemoryStore) CreateAppointment(_ context.Context, a *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextApptID++
	a.ID = m.nextApptID
	m.appts[a.ID] = *a
	return nil
}

// GetAppointment returns a copy of the appointment regardless of status
// or booking.ErrAppointmentNotFound.
func (m *MemoryStore) GetAppointment(_ context.Context, id uint64) (*model.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.appts[id]
	if !ok {
		return nil, booking.ErrAppointmentNotFound
	}
	return &a, nil
}

// CancelAppointment flips status pending→canceled.  Only one caller can
// win the transition.
func (m *MemoryStore) CancelAppointment(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok || a.Status != model.AppointmentPending {
		return booking.ErrAppointmentNotFound
	}
	a.Status = model.AppointmentCanceled
	m.appts[id] = a
	return nil
}

// ListStudentAppointments returns copies of the student's pending
// appointments.
func (m *MemoryStore) ListStudentAppointments(_ context.Context, studentID uint64) ([]model.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Appointment, 0)
	for _, a := range m.appts {
		if a.StudentID == studentID && a.Status == model.AppointmentPending {
			out = append(out, a)
		}
	}
	return out, nil
}

// Snapshot returns copies of both ledgers in full, canceled
// appointments included.  It exists so tests can check the booked-flag
// invariant after every operation.
func (m *MemoryStore) Snapshot() ([]model.Slot, []model.Appointment) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slots := make([]model.Slot, 0, len(m.slots))
	for _, s := range m.slots {
		slots = append(slots, s)
	}
	appts := make([]model.Appointment, 0, len(m.appts))
	for _, a := range m.appts {
		appts = append(appts, a)
	}
	return slots, appts
}
