// Package conflict implements interval-overlap detection between a candidate
// booking and the booked slots already present on a calendar date.
package conflict

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/types"
)

// Candidate is the booking range being checked
type Candidate struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Overlap is one detected conflict between the candidate and a booked slot
type Overlap struct {
	Type      domain.ConflictType
	SlotID    string
	BookingID string
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Detect scans booked slots for overlaps with the candidate using half-open
// interval semantics: [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1.
// Touching intervals are not conflicts. Slots that are not booked, and the
// slot owned by excludeBookingID, are ignored. The result is ordered by
// severity: full overlaps before partial ones, each group by start time.
func Detect(candidate Candidate, booked []domain.TimeSlot, excludeBookingID *string) []Overlap {
	overlaps := make([]Overlap, 0)

	for i := range booked {
		slot := &booked[i]
		if !slot.IsBooked {
			continue
		}
		if excludeBookingID != nil && slot.BookingID != nil && *slot.BookingID == *excludeBookingID {
			continue
		}
		if !intersects(candidate.StartTime, candidate.EndTime, slot.StartTime, slot.EndTime) {
			continue
		}

		bookingID := ""
		if slot.BookingID != nil {
			bookingID = *slot.BookingID
		}

		overlaps = append(overlaps, Overlap{
			Type:      classify(candidate.StartTime, candidate.EndTime, slot.StartTime, slot.EndTime),
			SlotID:    slot.ID,
			BookingID: bookingID,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}

	sort.SliceStable(overlaps, func(i, j int) bool {
		if overlaps[i].Type != overlaps[j].Type {
			return overlaps[i].Type == domain.ConflictFullOverlap
		}
		return overlaps[i].StartTime.IsBefore(overlaps[j].StartTime)
	})

	return overlaps
}

// HasFullOverlap reports whether any detected overlap is a full overlap
func HasFullOverlap(overlaps []Overlap) bool {
	for i := range overlaps {
		if overlaps[i].Type == domain.ConflictFullOverlap {
			return true
		}
	}
	return false
}

func intersects(s1, e1, s2, e2 types.TimeString) bool {
	return s1.IsBefore(e2) && s2.IsBefore(e1)
}

// classify returns full_overlap when the ranges are equal or the candidate is
// fully contained in the booked slot, partial_overlap otherwise
func classify(candStart, candEnd, slotStart, slotEnd types.TimeString) domain.ConflictType {
	contained := !candStart.IsBefore(slotStart) && !candEnd.IsAfter(slotEnd)
	if contained {
		return domain.ConflictFullOverlap
	}
	return domain.ConflictPartialOverlap
}
