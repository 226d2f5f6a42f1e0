package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aremont/college-appointments/internal/booking"
	"github.com/aremont/college-appointments/internal/model"
)

func seedSlot(t *testing.T, m *MemoryStore) *model.Slot {
	t.Helper()
	s := &model.Slot{ProfessorID: 1, Date: "2025-12-01", TimeSlot: "02:00 PM"}
	require.NoError(t, m.CreateSlot(context.Background(), s))
	return s
}

func TestMemoryStore_Slots(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	s := seedSlot(t, m)
	assert.Equal(t, uint64(1), s.ID)

	got, err := m.GetSlot(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, *s, *got)

	// Mutating the returned copy must not leak into the store.
	got.IsBooked = true
	again, err := m.GetSlot(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, again.IsBooked)

	_, err = m.GetSlot(ctx, 42)
	assert.ErrorIs(t, err, booking.ErrSlotNotFound)
}

func TestMemoryStore_MarkSlotBooked(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	s := seedSlot(t, m)

	require.NoError(t, m.MarkSlotBooked(ctx, s.ID))
	assert.ErrorIs(t, m.MarkSlotBooked(ctx, s.ID), booking.ErrSlotUnavailable)
	assert.ErrorIs(t, m.MarkSlotBooked(ctx, 42), booking.ErrSlotNotFound)

	require.NoError(t, m.MarkSlotFree(ctx, s.ID))
	require.NoError(t, m.MarkSlotBooked(ctx, s.ID))
	assert.ErrorIs(t, m.MarkSlotFree(ctx, 42), booking.ErrSlotNotFound)
}

func TestMemoryStore_MarkSlotBooked_Concurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	s := seedSlot(t, m)

	const attempts = 50
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = m.MarkSlotBooked(ctx, s.ID)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestMemoryStore_Appointments(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	a := &model.Appointment{
		StudentID:   10,
		ProfessorID: 1,
		SlotID:      1,
		Date:        "2025-12-01",
		TimeSlot:    "02:00 PM",
		Status:      model.AppointmentPending,
	}
	require.NoError(t, m.CreateAppointment(ctx, a))
	assert.Equal(t, uint64(1), a.ID)

	got, err := m.GetAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, *a, *got)

	_, err = m.GetAppointment(ctx, 42)
	assert.ErrorIs(t, err, booking.ErrAppointmentNotFound)

	require.NoError(t, m.CancelAppointment(ctx, a.ID))
	assert.ErrorIs(t, m.CancelAppointment(ctx, a.ID), booking.ErrAppointmentNotFound)

	// GetAppointment still returns the canceled record.
	got, err = m.GetAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentCanceled, got.Status)
}

func TestMemoryStore_ListStudentAppointments(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	mk := func(studentID uint64, status string) *model.Appointment {
		a := &model.Appointment{StudentID: studentID, ProfessorID: 1, SlotID: 1, Status: status}
		require.NoError(t, m.CreateAppointment(ctx, a))
		return a
	}
	pending := mk(10, model.AppointmentPending)
	mk(10, model.AppointmentCanceled)
	mk(11, model.AppointmentPending)

	appts, err := m.ListStudentAppointments(ctx, 10)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, pending.ID, appts[0].ID)

	appts, err = m.ListStudentAppointments(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, appts)
}
