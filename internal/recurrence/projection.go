// Package recurrence projects a recurring pattern template onto a concrete
// date range. The projection is the single source of truth for both pattern
// application and preview, so persistence and UI cannot diverge.
package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

var (
	// ErrInvalidPatternType indicates the pattern type is not supported
	ErrInvalidPatternType = errors.New("recurrence: invalid pattern type")

	// ErrInvalidRange indicates the projection range is empty or reversed
	ErrInvalidRange = errors.New("recurrence: invalid date range")

	// ErrRangeTooLong indicates the projection range exceeds the allowed length
	ErrRangeTooLong = errors.New("recurrence: date range too long")
)

// ProjectedDay is the concrete materialization of one date
type ProjectedDay struct {
	Date  time.Time
	Slots []domain.TimeSlot
}

// DateError records a single date whose projection failed. Date-level
// failures never abort the rest of the range.
type DateError struct {
	Date time.Time
	Err  error
}

// Project resolves every date of rng against the pattern schedule and
// returns the dates that materialize at least one slot.
//
// Resolution rules:
//   - dates outside the pattern's validity range produce nothing;
//   - an exception date produces nothing, even when its day key matches;
//   - weekly patterns key by lowercase weekday name, monthly patterns by
//     day of month with clamping (a template keyed past the last day of a
//     short month lands on that last day), custom patterns by exact date;
//   - slots are generated fresh with available status and new IDs.
func Project(pattern *domain.RecurringPattern, rng domain.DateRange) ([]ProjectedDay, []DateError, error) {
	if !pattern.Type.IsValid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidPatternType, pattern.Type)
	}
	if !rng.IsValid() {
		return nil, nil, ErrInvalidRange
	}
	if rng.LengthDays() > domain.MaxPatternRangeDays {
		return nil, nil, fmt.Errorf("%w: %d days, limit %d", ErrRangeTooLong, rng.LengthDays(), domain.MaxPatternRangeDays)
	}

	days := make([]ProjectedDay, 0)
	dateErrs := make([]DateError, 0)

	for _, date := range rng.Days() {
		if !pattern.CoversDate(date) {
			continue
		}
		// Exceptions always win over a matching schedule day
		if pattern.IsException(date) {
			continue
		}

		templates := templatesFor(pattern, date)
		if len(templates) == 0 {
			continue
		}

		slots, err := materialize(templates)
		if err != nil {
			dateErrs = append(dateErrs, DateError{Date: date, Err: err})
			continue
		}

		days = append(days, ProjectedDay{Date: date, Slots: slots})
	}

	return days, dateErrs, nil
}

// templatesFor resolves the date's day key(s) into the template slot list
func templatesFor(pattern *domain.RecurringPattern, date time.Time) []domain.SlotTemplate {
	switch pattern.Type {
	case domain.PatternWeekly:
		return pattern.Schedule[weekdayKey(date)]

	case domain.PatternMonthly:
		return monthlyTemplates(pattern.Schedule, date)

	case domain.PatternCustom:
		return pattern.Schedule[date.Format(domain.DateFormat)]

	default:
		return nil
	}
}

// monthlyTemplates collects templates for the date's day of month. On the
// last day of a short month it also absorbs templates keyed past the month
// end, in key order, so a "31" template still lands in February.
func monthlyTemplates(schedule map[string][]domain.SlotTemplate, date time.Time) []domain.SlotTemplate {
	day := date.Day()
	last := lastDayOfMonth(date)

	if day < last {
		return schedule[strconv.Itoa(day)]
	}

	templates := make([]domain.SlotTemplate, 0)
	for d := day; d <= 31; d++ {
		templates = append(templates, schedule[strconv.Itoa(d)]...)
	}
	return templates
}

func materialize(templates []domain.SlotTemplate) ([]domain.TimeSlot, error) {
	slots := make([]domain.TimeSlot, 0, len(templates))
	for _, tpl := range templates {
		if err := tpl.StartTime.Validate(); err != nil {
			return nil, err
		}
		if err := tpl.EndTime.Validate(); err != nil {
			return nil, err
		}
		if !tpl.StartTime.IsBefore(tpl.EndTime) {
			return nil, fmt.Errorf("template start %s is not before end %s", tpl.StartTime, tpl.EndTime)
		}

		slots = append(slots, domain.TimeSlot{
			ID:        uuid.NewString(),
			StartTime: tpl.StartTime,
			EndTime:   tpl.EndTime,
			Status:    domain.SlotAvailable,
		})
	}

	domain.SortSlots(slots)
	return slots, nil
}

func weekdayKey(date time.Time) string {
	switch date.Weekday() {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

func lastDayOfMonth(date time.Time) int {
	firstOfNext := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
