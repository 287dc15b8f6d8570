package domain

import (
	"time"

	"github.com/m04kA/SMC-CalendarService/pkg/types"
)

// PatternType defines how pattern day keys are resolved onto dates
type PatternType string

const (
	// PatternWeekly keys the schedule by lowercase weekday name ("monday".."sunday")
	PatternWeekly PatternType = "weekly"
	// PatternMonthly keys the schedule by day of month ("1".."31"),
	// clamped to the last day of short months
	PatternMonthly PatternType = "monthly"
	// PatternCustom keys the schedule by concrete dates ("2006-01-02")
	PatternCustom PatternType = "custom"
)

// IsValid returns true if the pattern type is known
func (t PatternType) IsValid() bool {
	return t == PatternWeekly || t == PatternMonthly || t == PatternCustom
}

// SlotTemplate is one start/end pair of a pattern schedule
type SlotTemplate struct {
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}

// RecurringPattern is a reusable availability template projected onto
// concrete dates. Materialized entries keep only a weak back-reference.
type RecurringPattern struct {
	ID       string
	UserID   int64
	Name     string
	Type     PatternType
	Schedule map[string][]SlotTemplate

	ValidFrom  time.Time
	ValidUntil *time.Time

	// ExceptionDates are excluded from projection and always win over a
	// matching schedule day. Stored as YYYY-MM-DD strings.
	ExceptionDates []string

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsException returns true if the date is listed as an exception
func (p *RecurringPattern) IsException(date time.Time) bool {
	key := date.Format(DateFormat)
	for _, d := range p.ExceptionDates {
		if d == key {
			return true
		}
	}
	return false
}

// CoversDate returns true if the date falls inside the pattern's validity range
func (p *RecurringPattern) CoversDate(date time.Time) bool {
	d := DateOnly(date)
	if d.Before(DateOnly(p.ValidFrom)) {
		return false
	}
	if p.ValidUntil != nil && d.After(DateOnly(*p.ValidUntil)) {
		return false
	}
	return true
}
