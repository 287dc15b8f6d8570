package domain

import (
	"time"

	"github.com/m04kA/SMC-CalendarService/pkg/types"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusRequested BookingStatus = "requested"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// ValidBookingStatuses lists every booking status
var ValidBookingStatuses = []BookingStatus{
	StatusRequested,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}

// IsValid returns true if the status is one of the known booking statuses
func (s BookingStatus) IsValid() bool {
	for _, v := range ValidBookingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// bookingTransitions is the allowed state machine:
// requested -> confirmed -> completed, requested -> cancelled,
// confirmed -> cancelled. Everything else is rejected.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusRequested: {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// BookingReference is a booking of one time slot on an owner's calendar
type BookingReference struct {
	ID     string
	UserID int64 // calendar owner
	JobID  int64

	ClientID   int64
	ClientName string

	Status BookingStatus

	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	RatePerHour float64
	Notes       *string

	ConfirmedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanTransitionTo reports whether the state machine allows moving to next
func (b *BookingReference) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive returns true while the booking still occupies its slot
func (b *BookingReference) IsActive() bool {
	return b.Status == StatusRequested || b.Status == StatusConfirmed
}
