package booking_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aremont/college-appointments/internal/booking"
	"github.com/aremont/college-appointments/internal/model"
	"github.com/aremont/college-appointments/internal/store"
)

var (
	profA    = booking.Actor{UserID: 1, Role: model.RoleProfessor}
	profB    = booking.Actor{UserID: 2, Role: model.RoleProfessor}
	studentA = booking.Actor{UserID: 10, Role: model.RoleStudent}
	studentB = booking.Actor{UserID: 11, Role: model.RoleStudent}
)

func newEngine(t *testing.T) (*booking.Engine, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return booking.NewEngine(st), st
}

// checkLedgers verifies that every booked slot is referenced by exactly
// one pending appointment and that no free slot is referenced by any.
func checkLedgers(t *testing.T, st *store.MemoryStore) {
	t.Helper()
	slots, appts := st.Snapshot()
	pendingBySlot := make(map[uint64]int)
	for _, a := range appts {
		if a.Status == model.AppointmentPending {
			pendingBySlot[a.SlotID]++
		}
	}
	for _, s := range slots {
		if s.IsBooked {
			assert.Equalf(t, 1, pendingBySlot[s.ID],
				"booked slot %d must have exactly one pending appointment", s.ID)
		} else {
			assert.Zerof(t, pendingBySlot[s.ID],
				"free slot %d must have no pending appointment", s.ID)
		}
	}
}

func TestPublishSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("creates unbooked slot", func(t *testing.T) {
		eng, st := newEngine(t)
		slot, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "02:00 PM")
		require.NoError(t, err)
		assert.NotZero(t, slot.ID)
		assert.Equal(t, profA.UserID, slot.ProfessorID)
		assert.Equal(t, "2025-12-01", slot.Date)
		assert.Equal(t, "02:00 PM", slot.TimeSlot)
		assert.False(t, slot.IsBooked)
		checkLedgers(t, st)
	})

	t.Run("trims date and time", func(t *testing.T) {
		eng, _ := newEngine(t)
		slot, err := eng.PublishSlot(ctx, profA, profA.UserID, "  2025-12-01 ", " 02:00 PM\n")
		require.NoError(t, err)
		assert.Equal(t, "2025-12-01", slot.Date)
		assert.Equal(t, "02:00 PM", slot.TimeSlot)
	})

	t.Run("rejects blank fields", func(t *testing.T) {
		eng, _ := newEngine(t)
		_, err := eng.PublishSlot(ctx, profA, profA.UserID, "", "02:00 PM")
		assert.ErrorIs(t, err, booking.ErrValidation)
		_, err = eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "   ")
		assert.ErrorIs(t, err, booking.ErrValidation)
	})

	t.Run("rejects student caller", func(t *testing.T) {
		eng, _ := newEngine(t)
		_, err := eng.PublishSlot(ctx, studentA, studentA.UserID, "2025-12-01", "02:00 PM")
		assert.ErrorIs(t, err, booking.ErrForbidden)
	})

	t.Run("rejects publishing under another professor", func(t *testing.T) {
		eng, _ := newEngine(t)
		_, err := eng.PublishSlot(ctx, profA, profB.UserID, "2025-12-01", "02:00 PM")
		assert.ErrorIs(t, err, booking.ErrForbidden)
	})

	t.Run("allows duplicate tuples", func(t *testing.T) {
		eng, _ := newEngine(t)
		first, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "02:00 PM")
		require.NoError(t, err)
		second, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "02:00 PM")
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestListFreeSlots(t *testing.T) {
	ctx := context.Background()
	eng, _ := newEngine(t)

	free, err := eng.ListFreeSlots(ctx, profA.UserID)
	require.NoError(t, err)
	assert.Empty(t, free)

	s1, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "02:00 PM")
	require.NoError(t, err)
	s2, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "03:00 PM")
	require.NoError(t, err)
	_, err = eng.PublishSlot(ctx, profB, profB.UserID, "2025-12-01", "02:00 PM")
	require.NoError(t, err)

	free, err = eng.ListFreeSlots(ctx, profA.UserID)
	require.NoError(t, err)
	require.Len(t, free, 2)

	// Booking removes the slot from the free listing.
	_, err = eng.BookSlot(ctx, studentA, s1.ID)
	require.NoError(t, err)

	free, err = eng.ListFreeSlots(ctx, profA.UserID)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, s2.ID, free[0].ID)
}

func TestBookSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("books free slot and snapshots details", func(t *testing.T) {
		eng, st := newEngine(t)
		slot, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "02:00 PM")
		require.NoError(t, err)

		appt, err := eng.BookSlot(ctx, studentA, slot.ID)
		require.NoError(t, err)
		assert.NotZero(t, appt.ID)
		assert.Equal(t, studentA.UserID, appt.StudentID)
		assert.Equal(t, profA.UserID, appt.ProfessorID)
		assert.Equal(t, slot.ID, appt.SlotID)
		assert.Equal(t, "2025-12-01", appt.Date)
		assert.Equal(t, "02:00 PM", appt.TimeSlot)
		assert.Equal(t, model.AppointmentPending, appt.Status)

		got, err := st.GetSlot(ctx, slot.ID)
		require.NoError(t, err)
		assert.True(t, got.IsBooked)
		checkLedgers(t, st)
	})

	t.Run("rejects already booked slot", func(t *testing.T) {
		eng, st := newEngine(t)
		slot, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "02:00 PM")
		require.NoError(t, err)
		_, err = eng.BookSlot(ctx, studentA, slot.ID)
		require.NoError(t, err)

		_, err = eng.BookSlot(ctx, studentB, slot.ID)
		assert.ErrorIs(t, err, booking.ErrSlotUnavailable)
		checkLedgers(t, st)
	})

	t.Run("rejects unknown slot", func(t *testing.T) {
		eng, _ := newEngine(t)
		_, err := eng.BookSlot(ctx, studentA, 999)
		assert.ErrorIs(t, err, booking.ErrSlotNotFound)
	})

	t.Run("rejects professor caller", func(t *testing.T) {
		eng, _ := newEngine(t)
		slot, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "02:00 PM")
		require.NoError(t, err)
		_, err = eng.BookSlot(ctx, profA, slot.ID)
		assert.ErrorIs(t, err, booking.ErrForbidden)
	})
}

func TestBookSlot_Concurrent(t *testing.T) {
	ctx := context.Background()
	eng, st := newEngine(t)
	slot, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "02:00 PM")
	require.NoError(t, err)

	const attempts = 50
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			student := booking.Actor{UserID: uint64(100 + i), Role: model.RoleStudent}
			_, errs[i] = eng.BookSlot(ctx, student, slot.ID)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, booking.ErrSlotUnavailable)
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent booking must win")
	checkLedgers(t, st)
}

func TestCancelAppointment(t *testing.T) {
	ctx := context.Background()

	book := func(t *testing.T, eng *booking.Engine, student booking.Actor) *model.Appointment {
		t.Helper()
		slot, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "02:00 PM")
		require.NoError(t, err)
		appt, err := eng.BookSlot(ctx, student, slot.ID)
		require.NoError(t, err)
		return appt
	}

	t.Run("cancels and frees the slot", func(t *testing.T) {
		eng, st := newEngine(t)
		appt := book(t, eng, studentA)

		canceled, err := eng.CancelAppointment(ctx, profA, appt.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentCanceled, canceled.Status)

		slot, err := st.GetSlot(ctx, appt.SlotID)
		require.NoError(t, err)
		assert.False(t, slot.IsBooked)
		checkLedgers(t, st)

		// The freed slot is bookable again.
		_, err = eng.BookSlot(ctx, studentB, appt.SlotID)
		require.NoError(t, err)
		checkLedgers(t, st)
	})

	t.Run("canceled record is retained", func(t *testing.T) {
		eng, st := newEngine(t)
		appt := book(t, eng, studentA)
		_, err := eng.CancelAppointment(ctx, profA, appt.ID)
		require.NoError(t, err)

		got, err := st.GetAppointment(ctx, appt.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentCanceled, got.Status)
	})

	t.Run("rejects another professor", func(t *testing.T) {
		eng, _ := newEngine(t)
		appt := book(t, eng, studentA)
		_, err := eng.CancelAppointment(ctx, profB, appt.ID)
		assert.ErrorIs(t, err, booking.ErrForbidden)
	})

	t.Run("rejects student caller", func(t *testing.T) {
		eng, _ := newEngine(t)
		appt := book(t, eng, studentA)
		_, err := eng.CancelAppointment(ctx, studentA, appt.ID)
		assert.ErrorIs(t, err, booking.ErrForbidden)
	})

	t.Run("rejects unknown appointment", func(t *testing.T) {
		eng, _ := newEngine(t)
		_, err := eng.CancelAppointment(ctx, profA, 999)
		assert.ErrorIs(t, err, booking.ErrAppointmentNotFound)
	})

	t.Run("rejects already canceled appointment", func(t *testing.T) {
		eng, _ := newEngine(t)
		appt := book(t, eng, studentA)
		_, err := eng.CancelAppointment(ctx, profA, appt.ID)
		require.NoError(t, err)
		_, err = eng.CancelAppointment(ctx, profA, appt.ID)
		assert.ErrorIs(t, err, booking.ErrAppointmentNotFound)
	})
}

func TestListStudentAppointments(t *testing.T) {
	ctx := context.Background()

	t.Run("orders by date then time", func(t *testing.T) {
		eng, _ := newEngine(t)
		// Published out of order on purpose.
		s1, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-02", "09:00 AM")
		require.NoError(t, err)
		s2, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "03:00 PM")
		require.NoError(t, err)
		s3, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "02:00 PM")
		require.NoError(t, err)
		for _, id := range []uint64{s1.ID, s2.ID, s3.ID} {
			_, err := eng.BookSlot(ctx, studentA, id)
			require.NoError(t, err)
		}

		appts, err := eng.ListStudentAppointments(ctx, studentA, studentA.UserID)
		require.NoError(t, err)
		require.Len(t, appts, 3)
		assert.Equal(t, s3.ID, appts[0].SlotID)
		assert.Equal(t, s2.ID, appts[1].SlotID)
		assert.Equal(t, s1.ID, appts[2].SlotID)
	})

	t.Run("excludes canceled appointments", func(t *testing.T) {
		eng, _ := newEngine(t)
		slot, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "02:00 PM")
		require.NoError(t, err)
		appt, err := eng.BookSlot(ctx, studentA, slot.ID)
		require.NoError(t, err)
		_, err = eng.CancelAppointment(ctx, profA, appt.ID)
		require.NoError(t, err)

		appts, err := eng.ListStudentAppointments(ctx, studentA, studentA.UserID)
		require.NoError(t, err)
		assert.Empty(t, appts)
	})

	t.Run("rejects reading another student's list", func(t *testing.T) {
		eng, _ := newEngine(t)
		_, err := eng.ListStudentAppointments(ctx, studentA, studentB.UserID)
		assert.ErrorIs(t, err, booking.ErrForbidden)
	})
}

// TestBookingRoundTrip walks the full flow: a professor publishes two
// slots, two students book one each, the professor cancels the first
// student's appointment, and the first slot becomes free again while
// the second booking stays untouched.
func TestBookingRoundTrip(t *testing.T) {
	ctx := context.Background()
	eng, st := newEngine(t)

	t1, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "02:00 PM")
	require.NoError(t, err)
	t2, err := eng.PublishSlot(ctx, profA, profA.UserID, "2025-12-01", "03:00 PM")
	require.NoError(t, err)

	a1, err := eng.BookSlot(ctx, studentA, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, profA.UserID, a1.ProfessorID)
	a2, err := eng.BookSlot(ctx, studentB, t2.ID)
	require.NoError(t, err)
	checkLedgers(t, st)

	_, err = eng.CancelAppointment(ctx, profA, a1.ID)
	require.NoError(t, err)
	checkLedgers(t, st)

	free, err := eng.ListFreeSlots(ctx, profA.UserID)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, t1.ID, free[0].ID)

	listA, err := eng.ListStudentAppointments(ctx, studentA, studentA.UserID)
	require.NoError(t, err)
	assert.Empty(t, listA)

	listB, err := eng.ListStudentAppointments(ctx, studentB, studentB.UserID)
	require.NoError(t, err)
	require.Len(t, listB, 1)
	assert.Equal(t, a2.ID, listB[0].ID)
	assert.Equal(t, model.AppointmentPending, listB[0].Status)
}
