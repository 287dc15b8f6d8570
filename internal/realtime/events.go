package realtime

import (
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// EventType типы событий изменения календаря
type EventType string

const (
	EventAvailabilityUpdated EventType = "availability_updated"
	EventBookingUpdated      EventType = "booking_updated"
	EventConflictDetected    EventType = "conflict_detected"
	EventPatternApplied      EventType = "pattern_applied"
)

// Payload типизированная полезная нагрузка события.
// Каждый тип события несёт собственную структуру.
type Payload interface {
	EventType() EventType
}

// Event конверт события, доставляемый подписчикам
type Event struct {
	Type      EventType `json:"type"`
	UserID    int64     `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	Payload   Payload   `json:"payload"`
}

// AvailabilityPayload полезная нагрузка availability_updated
type AvailabilityPayload struct {
	Date      string             `json:"date"`
	Status    domain.EntryStatus `json:"status"`
	SlotCount int                `json:"slotCount"`
}

func (AvailabilityPayload) EventType() EventType { return EventAvailabilityUpdated }

// BookingPayload полезная нагрузка booking_updated
type BookingPayload struct {
	BookingID string               `json:"bookingId"`
	JobID     int64                `json:"jobId"`
	Date      string               `json:"date"`
	StartTime string               `json:"startTime"`
	EndTime   string               `json:"endTime"`
	Status    domain.BookingStatus `json:"status"`
}

func (BookingPayload) EventType() EventType { return EventBookingUpdated }

// ConflictPayload полезная нагрузка conflict_detected
type ConflictPayload struct {
	ConflictID           string              `json:"conflictId"`
	Type                 domain.ConflictType `json:"conflictType"`
	PrimaryBookingID     string              `json:"primaryBookingId"`
	ConflictingBookingID string              `json:"conflictingBookingId"`
	Date                 string              `json:"date"`
}

func (ConflictPayload) EventType() EventType { return EventConflictDetected }

// PatternPayload полезная нагрузка pattern_applied
type PatternPayload struct {
	PatternID    string   `json:"patternId"`
	AppliedDates []string `json:"appliedDates"`
	SkippedDates []string `json:"skippedDates"`
}

func (PatternPayload) EventType() EventType { return EventPatternApplied }
