package conflict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/ptr"
	"github.com/m04kA/SMC-CalendarService/pkg/types"
)

var testDate = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func bookedSlot(id, bookingID string, start, end types.TimeString) domain.TimeSlot {
	return domain.TimeSlot{
		ID:        id,
		StartTime: start,
		EndTime:   end,
		Status:    domain.SlotBooked,
		IsBooked:  true,
		BookingID: ptr.Ptr(bookingID),
	}
}

func TestDetect_PartialOverlap(t *testing.T) {
	candidate := Candidate{Date: testDate, StartTime: "10:00", EndTime: "11:00"}
	booked := []domain.TimeSlot{
		bookedSlot("slot-1", "booking-1", "10:30", "11:30"),
	}

	overlaps := Detect(candidate, booked, nil)

	require.Len(t, overlaps, 1)
	assert.Equal(t, domain.ConflictPartialOverlap, overlaps[0].Type)
	assert.Equal(t, "slot-1", overlaps[0].SlotID)
	assert.Equal(t, "booking-1", overlaps[0].BookingID)
}

func TestDetect_FullOverlap(t *testing.T) {
	candidate := Candidate{Date: testDate, StartTime: "10:00", EndTime: "11:00"}

	t.Run("equal ranges", func(t *testing.T) {
		booked := []domain.TimeSlot{bookedSlot("slot-1", "booking-1", "10:00", "11:00")}
		overlaps := Detect(candidate, booked, nil)
		require.Len(t, overlaps, 1)
		assert.Equal(t, domain.ConflictFullOverlap, overlaps[0].Type)
	})

	t.Run("candidate contained in booked slot", func(t *testing.T) {
		booked := []domain.TimeSlot{bookedSlot("slot-1", "booking-1", "09:00", "12:00")}
		overlaps := Detect(candidate, booked, nil)
		require.Len(t, overlaps, 1)
		assert.Equal(t, domain.ConflictFullOverlap, overlaps[0].Type)
	})

	t.Run("booked slot contained in candidate is partial", func(t *testing.T) {
		booked := []domain.TimeSlot{bookedSlot("slot-1", "booking-1", "10:15", "10:45")}
		overlaps := Detect(candidate, booked, nil)
		require.Len(t, overlaps, 1)
		assert.Equal(t, domain.ConflictPartialOverlap, overlaps[0].Type)
	})
}

func TestDetect_TouchingIsNotConflict(t *testing.T) {
	candidate := Candidate{Date: testDate, StartTime: "10:00", EndTime: "11:00"}
	booked := []domain.TimeSlot{
		bookedSlot("slot-1", "booking-1", "09:00", "10:00"),
		bookedSlot("slot-2", "booking-2", "11:00", "12:00"),
	}

	assert.Empty(t, Detect(candidate, booked, nil))
}

func TestDetect_IgnoresFreeSlots(t *testing.T) {
	candidate := Candidate{Date: testDate, StartTime: "10:00", EndTime: "11:00"}
	booked := []domain.TimeSlot{
		{ID: "slot-1", StartTime: "10:00", EndTime: "11:00", Status: domain.SlotAvailable},
	}

	assert.Empty(t, Detect(candidate, booked, nil))
}

func TestDetect_ExcludeBookingID(t *testing.T) {
	candidate := Candidate{Date: testDate, StartTime: "10:00", EndTime: "11:00"}
	booked := []domain.TimeSlot{
		bookedSlot("slot-1", "booking-1", "10:00", "11:00"),
		bookedSlot("slot-2", "booking-2", "10:30", "11:30"),
	}

	overlaps := Detect(candidate, booked, ptr.Ptr("booking-1"))

	require.Len(t, overlaps, 1)
	assert.Equal(t, "booking-2", overlaps[0].BookingID)
}

func TestDetect_OrdersFullBeforePartial(t *testing.T) {
	candidate := Candidate{Date: testDate, StartTime: "10:00", EndTime: "12:00"}
	booked := []domain.TimeSlot{
		bookedSlot("slot-partial", "booking-1", "09:30", "10:30"),
		bookedSlot("slot-full", "booking-2", "09:00", "13:00"),
		bookedSlot("slot-partial-2", "booking-3", "11:30", "12:30"),
	}

	overlaps := Detect(candidate, booked, nil)

	require.Len(t, overlaps, 3)
	assert.Equal(t, domain.ConflictFullOverlap, overlaps[0].Type)
	assert.Equal(t, "slot-full", overlaps[0].SlotID)
	// Partial-группа упорядочена по началу слота
	assert.Equal(t, "slot-partial", overlaps[1].SlotID)
	assert.Equal(t, "slot-partial-2", overlaps[2].SlotID)
}

func TestHasFullOverlap(t *testing.T) {
	assert.False(t, HasFullOverlap(nil))
	assert.False(t, HasFullOverlap([]Overlap{{Type: domain.ConflictPartialOverlap}}))
	assert.True(t, HasFullOverlap([]Overlap{
		{Type: domain.ConflictPartialOverlap},
		{Type: domain.ConflictFullOverlap},
	}))
}
