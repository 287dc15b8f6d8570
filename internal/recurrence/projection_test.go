package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/ptr"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weeklyPattern(validFrom time.Time) *domain.RecurringPattern {
	return &domain.RecurringPattern{
		ID:     "pattern-1",
		UserID: 7,
		Name:   "Work week",
		Type:   domain.PatternWeekly,
		Schedule: map[string][]domain.SlotTemplate{
			"monday": {
				{StartTime: "09:00", EndTime: "12:00"},
				{StartTime: "13:00", EndTime: "17:00"},
			},
		},
		ValidFrom: validFrom,
		IsActive:  true,
	}
}

func TestProject_Weekly(t *testing.T) {
	// 2025-06-02 и 2025-06-09 - понедельники
	pattern := weeklyPattern(date(2025, 6, 1))
	rng := domain.DateRange{From: date(2025, 6, 1), To: date(2025, 6, 10)}

	days, dateErrs, err := Project(pattern, rng)

	require.NoError(t, err)
	assert.Empty(t, dateErrs)
	require.Len(t, days, 2)
	assert.Equal(t, date(2025, 6, 2), days[0].Date)
	assert.Equal(t, date(2025, 6, 9), days[1].Date)

	require.Len(t, days[0].Slots, 2)
	assert.Equal(t, "09:00", days[0].Slots[0].StartTime.String())
	assert.Equal(t, "13:00", days[0].Slots[1].StartTime.String())
	assert.Equal(t, domain.SlotAvailable, days[0].Slots[0].Status)
	assert.NotEmpty(t, days[0].Slots[0].ID)
}

func TestProject_ExceptionWinsOverScheduleDay(t *testing.T) {
	pattern := weeklyPattern(date(2025, 6, 1))
	pattern.ExceptionDates = []string{"2025-06-02"}
	rng := domain.DateRange{From: date(2025, 6, 1), To: date(2025, 6, 10)}

	days, dateErrs, err := Project(pattern, rng)

	require.NoError(t, err)
	assert.Empty(t, dateErrs)
	require.Len(t, days, 1)
	assert.Equal(t, date(2025, 6, 9), days[0].Date)
}

func TestProject_ValidityWindow(t *testing.T) {
	pattern := weeklyPattern(date(2025, 6, 5))
	pattern.ValidUntil = ptr.Ptr(date(2025, 6, 8))
	rng := domain.DateRange{From: date(2025, 6, 1), To: date(2025, 6, 30)}

	days, _, err := Project(pattern, rng)

	// Оба понедельника за пределами [validFrom, validUntil]
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestProject_MonthlyClampsShortMonth(t *testing.T) {
	pattern := &domain.RecurringPattern{
		ID:     "pattern-2",
		UserID: 7,
		Type:   domain.PatternMonthly,
		Schedule: map[string][]domain.SlotTemplate{
			"15": {{StartTime: "10:00", EndTime: "11:00"}},
			"31": {{StartTime: "18:00", EndTime: "19:00"}},
		},
		ValidFrom: date(2025, 1, 1),
		IsActive:  true,
	}
	rng := domain.DateRange{From: date(2025, 2, 1), To: date(2025, 2, 28)}

	days, dateErrs, err := Project(pattern, rng)

	require.NoError(t, err)
	assert.Empty(t, dateErrs)
	require.Len(t, days, 2)
	assert.Equal(t, date(2025, 2, 15), days[0].Date)
	// Шаблон "31" прижимается к последнему дню февраля
	assert.Equal(t, date(2025, 2, 28), days[1].Date)
	require.Len(t, days[1].Slots, 1)
	assert.Equal(t, "18:00", days[1].Slots[0].StartTime.String())
}

func TestProject_Custom(t *testing.T) {
	pattern := &domain.RecurringPattern{
		ID:     "pattern-3",
		UserID: 7,
		Type:   domain.PatternCustom,
		Schedule: map[string][]domain.SlotTemplate{
			"2025-06-04": {{StartTime: "08:00", EndTime: "09:00"}},
			"2025-07-01": {{StartTime: "08:00", EndTime: "09:00"}},
		},
		ValidFrom: date(2025, 6, 1),
		IsActive:  true,
	}
	rng := domain.DateRange{From: date(2025, 6, 1), To: date(2025, 6, 30)}

	days, _, err := Project(pattern, rng)

	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, date(2025, 6, 4), days[0].Date)
}

func TestProject_BadTemplateIsDateLevelError(t *testing.T) {
	pattern := weeklyPattern(date(2025, 6, 1))
	pattern.Schedule["tuesday"] = []domain.SlotTemplate{
		{StartTime: "12:00", EndTime: "10:00"}, // start после end
	}
	rng := domain.DateRange{From: date(2025, 6, 2), To: date(2025, 6, 3)}

	days, dateErrs, err := Project(pattern, rng)

	require.NoError(t, err)
	// Понедельник материализовался, вторник попал в ошибки дат
	require.Len(t, days, 1)
	require.Len(t, dateErrs, 1)
	assert.Equal(t, date(2025, 6, 3), dateErrs[0].Date)
}

func TestProject_RangeValidation(t *testing.T) {
	pattern := weeklyPattern(date(2025, 6, 1))

	_, _, err := Project(pattern, domain.DateRange{From: date(2025, 6, 10), To: date(2025, 6, 1)})
	assert.ErrorIs(t, err, ErrInvalidRange)

	longTo := date(2025, 6, 1).AddDate(0, 0, domain.MaxPatternRangeDays)
	_, _, err = Project(pattern, domain.DateRange{From: date(2025, 6, 1), To: longTo})
	assert.ErrorIs(t, err, ErrRangeTooLong)

	pattern.Type = "yearly"
	_, _, err = Project(pattern, domain.DateRange{From: date(2025, 6, 1), To: date(2025, 6, 2)})
	assert.ErrorIs(t, err, ErrInvalidPatternType)
}
