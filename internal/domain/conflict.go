package domain

import (
	"time"

	"github.com/m04kA/SMC-CalendarService/pkg/types"
)

// ConflictType classifies an overlap between a candidate booking and an
// existing booked slot
type ConflictType string

const (
	// ConflictFullOverlap means the ranges are equal or the candidate is
	// fully contained in the existing booked slot
	ConflictFullOverlap ConflictType = "full_overlap"
	// ConflictPartialOverlap means the ranges intersect without containment
	ConflictPartialOverlap ConflictType = "partial_overlap"
)

// ResolutionStatus of a recorded booking conflict
type ResolutionStatus string

const (
	ResolutionPending  ResolutionStatus = "pending"
	ResolutionResolved ResolutionStatus = "resolved"
)

// ResolutionAction taken when resolving a conflict
type ResolutionAction string

const (
	// ActionAutoDecline resolves the conflict by cancelling the losing booking
	ActionAutoDecline ResolutionAction = "auto_decline"
	// ActionManualReview marks the conflict as handled by a human
	ActionManualReview ResolutionAction = "manual_review"
	// ActionFlexibleBooking keeps both bookings, relying on rescheduling
	ActionFlexibleBooking ResolutionAction = "flexible_booking"
)

// IsValid returns true if the action is one of the known resolution actions
func (a ResolutionAction) IsValid() bool {
	return a == ActionAutoDecline || a == ActionManualReview || a == ActionFlexibleBooking
}

// BookingConflict records an overlap between two bookings for manual review
type BookingConflict struct {
	ID     string
	UserID int64

	Type ConflictType

	PrimaryBookingID     string
	ConflictingBookingID string

	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	ResolutionStatus ResolutionStatus
	ResolutionAction *ResolutionAction

	CreatedAt  time.Time
	ResolvedAt *time.Time
}
