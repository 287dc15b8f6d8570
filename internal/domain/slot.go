package domain

import "github.com/m04kA/SMC-CalendarService/pkg/types"

// SlotStatus represents the status of a single time slot
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotBlocked   SlotStatus = "blocked"
	SlotTentative SlotStatus = "tentative"
)

// ValidSlotStatuses lists every status a slot may carry
var ValidSlotStatuses = []SlotStatus{SlotAvailable, SlotBooked, SlotBlocked, SlotTentative}

// IsValid returns true if the status is one of the known slot statuses
func (s SlotStatus) IsValid() bool {
	for _, v := range ValidSlotStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// TimeSlot is a contiguous typed interval of one day.
// Intervals are half-open: [StartTime, EndTime).
type TimeSlot struct {
	ID        string
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    SlotStatus
	IsBooked  bool

	// Booking linkage, set only while IsBooked is true
	BookingID   *string
	JobID       *int64
	JobTitle    *string
	ClientName  *string
	RatePerHour *float64

	Notes *string

	// Version is the optimistic-concurrency token at the persistence
	// boundary. A booking write commits only if the version is unchanged
	// since the read.
	Version int64
}

// DurationMinutes returns the slot length in minutes
func (s *TimeSlot) DurationMinutes() (int, error) {
	return s.StartTime.MinutesBetween(s.EndTime)
}

// Overlaps reports whether two slots intersect.
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1; touching slots do not overlap.
func (s *TimeSlot) Overlaps(other *TimeSlot) bool {
	return s.StartTime.IsBefore(other.EndTime) && other.StartTime.IsBefore(s.EndTime)
}

// SameRange returns true if both slots cover exactly the same interval
func (s *TimeSlot) SameRange(other *TimeSlot) bool {
	return s.StartTime == other.StartTime && s.EndTime == other.EndTime
}

// ClearBooking detaches the slot from its booking and frees it
func (s *TimeSlot) ClearBooking() {
	s.IsBooked = false
	s.Status = SlotAvailable
	s.BookingID = nil
	s.JobID = nil
	s.JobTitle = nil
	s.ClientName = nil
	s.RatePerHour = nil
}
