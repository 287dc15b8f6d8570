package domain

import (
	"sort"
	"time"
)

// EntryStatus is the aggregate status of one user's day
type EntryStatus string

const (
	EntryAvailable   EntryStatus = "available"
	EntryPartial     EntryStatus = "partial"
	EntryBooked      EntryStatus = "booked"
	EntryUnavailable EntryStatus = "unavailable"
)

// CalendarEntry is one user's full day expressed as an ordered,
// non-overlapping set of time slots plus a derived aggregate status.
type CalendarEntry struct {
	UserID int64
	Date   time.Time
	Slots  []TimeSlot
	Status EntryStatus

	// IsRecurring marks entries materialized from a recurring pattern.
	// PatternID is a weak reference: deleting the pattern detaches entries
	// instead of deleting them.
	IsRecurring bool
	PatternID   *string

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeriveStatus computes the aggregate day status from a slot list:
// unavailable for an empty day, available iff every slot is available,
// booked iff every slot is booked, partial otherwise.
func DeriveStatus(slots []TimeSlot) EntryStatus {
	if len(slots) == 0 {
		return EntryUnavailable
	}

	allAvailable := true
	allBooked := true
	for i := range slots {
		if slots[i].Status != SlotAvailable {
			allAvailable = false
		}
		if slots[i].Status != SlotBooked {
			allBooked = false
		}
	}

	switch {
	case allAvailable:
		return EntryAvailable
	case allBooked:
		return EntryBooked
	default:
		return EntryPartial
	}
}

// SortSlots orders slots by start time in place
func SortSlots(slots []TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartTime.IsBefore(slots[j].StartTime)
	})
}

// BookedSlots returns only the booked slots of the entry
func (e *CalendarEntry) BookedSlots() []TimeSlot {
	booked := make([]TimeSlot, 0)
	for i := range e.Slots {
		if e.Slots[i].IsBooked {
			booked = append(booked, e.Slots[i])
		}
	}
	return booked
}

// FindSlotByBooking returns the slot linked to the given booking, if any
func (e *CalendarEntry) FindSlotByBooking(bookingID string) *TimeSlot {
	for i := range e.Slots {
		if e.Slots[i].BookingID != nil && *e.Slots[i].BookingID == bookingID {
			return &e.Slots[i]
		}
	}
	return nil
}

// DateRange is an inclusive [From, To] range of dates
type DateRange struct {
	From time.Time
	To   time.Time
}

// Days returns every date of the range in order.
// Time-of-day components are truncated.
func (r DateRange) Days() []time.Time {
	from := DateOnly(r.From)
	to := DateOnly(r.To)

	days := make([]time.Time, 0)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// LengthDays returns the number of days the range covers
func (r DateRange) LengthDays() int {
	return int(DateOnly(r.To).Sub(DateOnly(r.From)).Hours()/24) + 1
}

// IsValid returns true if From does not come after To
func (r DateRange) IsValid() bool {
	return !DateOnly(r.From).After(DateOnly(r.To))
}

// DateOnly truncates the time-of-day component
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall on the same calendar date
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
