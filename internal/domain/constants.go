package domain

import "github.com/m04kA/SMC-CalendarService/pkg/types"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business hours: a slot must lie entirely within [open, close)
const (
	BusinessOpenTime  = types.TimeString("06:00")
	BusinessCloseTime = types.TimeString("23:00")
)

// Slot validation constants
const (
	MinSlotDurationMinutes = 30
	MaxSlotDurationMinutes = 720 // 12 hours
	MaxNotesLength         = 500
	MaxSlotsPerDay         = 48
)

// Default privacy settings values
const (
	DefaultLeadTimeHours      = 24
	DefaultAdvanceBookingDays = 60 // 0 = unlimited
	MaxAdvanceBookingDays     = 365
	MaxLeadTimeHours          = 24 * 14
)

// Pattern validation constants
const (
	MaxPatternNameLength  = 100
	MaxPatternRangeDays   = 366 // longest range a single apply/preview may cover
	MaxTemplatesPerDayKey = 24
)
