package apply_pattern

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	patternRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/pattern"
	"github.com/m04kA/SMC-CalendarService/internal/realtime"
	"github.com/m04kA/SMC-CalendarService/pkg/ptr"
)

type fakePatternRepo struct {
	patterns map[string]*domain.RecurringPattern
}

func (f *fakePatternRepo) GetByID(_ context.Context, id string) (*domain.RecurringPattern, error) {
	pattern, ok := f.patterns[id]
	if !ok {
		return nil, patternRepo.ErrPatternNotFound
	}
	return pattern, nil
}

type fakeCalendarRepo struct {
	entries     map[string]*domain.CalendarEntry
	upsertCalls int
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{entries: make(map[string]*domain.CalendarEntry)}
}

func (f *fakeCalendarRepo) key(userID int64, date time.Time) string {
	return date.Format(domain.DateFormat)
}

func (f *fakeCalendarRepo) GetEntry(_ context.Context, userID int64, date time.Time) (*domain.CalendarEntry, error) {
	entry, ok := f.entries[f.key(userID, date)]
	if !ok {
		return nil, nil
	}
	return entry, nil
}

func (f *fakeCalendarRepo) UpsertEntry(_ context.Context, entry *domain.CalendarEntry) error {
	f.upsertCalls++
	f.entries[f.key(entry.UserID, entry.Date)] = entry
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeBroadcaster struct {
	payloads []realtime.Payload
}

func (f *fakeBroadcaster) Emit(_ realtime.EventType, _ int64, payload realtime.Payload) {
	f.payloads = append(f.payloads, payload)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func weeklyPattern() *domain.RecurringPattern {
	return &domain.RecurringPattern{
		ID:     "pattern-1",
		UserID: 7,
		Name:   "Будни по утрам",
		Type:   domain.PatternWeekly,
		Schedule: map[string][]domain.SlotTemplate{
			"monday": {
				{StartTime: "09:00", EndTime: "10:00"},
				{StartTime: "10:00", EndTime: "11:00"},
			},
		},
		ValidFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
}

type fixture struct {
	uc          *UseCase
	patterns    *fakePatternRepo
	calendar    *fakeCalendarRepo
	broadcaster *fakeBroadcaster
}

func newFixture(pattern *domain.RecurringPattern) *fixture {
	patterns := &fakePatternRepo{patterns: make(map[string]*domain.RecurringPattern)}
	if pattern != nil {
		patterns.patterns[pattern.ID] = pattern
	}
	calendar := newFakeCalendarRepo()
	broadcaster := &fakeBroadcaster{}
	uc := NewUseCase(patterns, calendar, fakeTxManager{}, broadcaster, nil, nopLogger{})
	return &fixture{uc: uc, patterns: patterns, calendar: calendar, broadcaster: broadcaster}
}

// Диапазон содержит ровно два понедельника: 2025-06-02 и 2025-06-09
func weekRange() (time.Time, time.Time) {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
}

func TestExecute_AppliesPatternToFreshRange(t *testing.T) {
	f := newFixture(weeklyPattern())
	from, to := weekRange()

	result, err := f.uc.Execute(context.Background(), &Request{
		UserID:    7,
		PatternID: "pattern-1",
		From:      from,
		To:        to,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-02", "2025-06-09"}, result.AppliedDates)
	assert.Empty(t, result.SkippedDates)
	assert.Empty(t, result.Errors)

	entry := f.calendar.entries["2025-06-02"]
	require.NotNil(t, entry)
	assert.True(t, entry.IsRecurring)
	require.NotNil(t, entry.PatternID)
	assert.Equal(t, "pattern-1", *entry.PatternID)
	assert.Equal(t, domain.EntryAvailable, entry.Status)
	require.Len(t, entry.Slots, 2)
	assert.Equal(t, "09:00", entry.Slots[0].StartTime.String())

	require.Len(t, f.broadcaster.payloads, 1)
	payload, ok := f.broadcaster.payloads[0].(realtime.PatternPayload)
	require.True(t, ok)
	assert.Equal(t, []string{"2025-06-02", "2025-06-09"}, payload.AppliedDates)
}

func TestExecute_ValidationErrors(t *testing.T) {
	from, to := weekRange()

	t.Run("missing pattern id", func(t *testing.T) {
		f := newFixture(weeklyPattern())
		_, err := f.uc.Execute(context.Background(), &Request{UserID: 7, From: from, To: to})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("pattern not found", func(t *testing.T) {
		f := newFixture(nil)
		_, err := f.uc.Execute(context.Background(), &Request{UserID: 7, PatternID: "missing", From: from, To: to})
		assert.ErrorIs(t, err, ErrPatternNotFound)
	})

	t.Run("foreign pattern", func(t *testing.T) {
		f := newFixture(weeklyPattern())
		_, err := f.uc.Execute(context.Background(), &Request{UserID: 99, PatternID: "pattern-1", From: from, To: to})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("inactive pattern", func(t *testing.T) {
		pattern := weeklyPattern()
		pattern.IsActive = false
		f := newFixture(pattern)
		_, err := f.uc.Execute(context.Background(), &Request{UserID: 7, PatternID: "pattern-1", From: from, To: to})
		assert.ErrorIs(t, err, ErrPatternInactive)
	})

	t.Run("inverted range", func(t *testing.T) {
		f := newFixture(weeklyPattern())
		_, err := f.uc.Execute(context.Background(), &Request{UserID: 7, PatternID: "pattern-1", From: to, To: from})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestExecute_SkipConflictsTakesPrecedenceOverOverwrite(t *testing.T) {
	f := newFixture(weeklyPattern())
	from, to := weekRange()

	// Первый понедельник занят бронированием, пересекающим проекцию
	f.calendar.entries["2025-06-02"] = &domain.CalendarEntry{
		UserID: 7,
		Date:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Slots: []domain.TimeSlot{
			{ID: "slot-1", StartTime: "09:30", EndTime: "10:30", Status: domain.SlotBooked, IsBooked: true, BookingID: ptr.Ptr("booking-1")},
		},
		Status: domain.EntryPartial,
	}

	result, err := f.uc.Execute(context.Background(), &Request{
		UserID:            7,
		PatternID:         "pattern-1",
		From:              from,
		To:                to,
		OverwriteExisting: true,
		SkipConflicts:     true,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-09"}, result.AppliedDates)
	require.Len(t, result.SkippedDates, 1)
	assert.Equal(t, "2025-06-02", result.SkippedDates[0].Date)
	assert.Equal(t, ReasonConflict, result.SkippedDates[0].Reason)

	// Занятая дата не перезаписана
	assert.Equal(t, "slot-1", f.calendar.entries["2025-06-02"].Slots[0].ID)
}

func TestExecute_SkipsExistingWithoutOverwrite(t *testing.T) {
	f := newFixture(weeklyPattern())
	from, to := weekRange()

	f.calendar.entries["2025-06-02"] = &domain.CalendarEntry{
		UserID: 7,
		Date:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Slots: []domain.TimeSlot{
			{ID: "slot-1", StartTime: "14:00", EndTime: "15:00", Status: domain.SlotAvailable},
		},
		Status: domain.EntryAvailable,
	}

	result, err := f.uc.Execute(context.Background(), &Request{
		UserID:    7,
		PatternID: "pattern-1",
		From:      from,
		To:        to,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-09"}, result.AppliedDates)
	require.Len(t, result.SkippedDates, 1)
	assert.Equal(t, ReasonExisting, result.SkippedDates[0].Reason)
}

func TestExecute_OverwritePreservesBookedSlots(t *testing.T) {
	f := newFixture(weeklyPattern())
	from, to := weekRange()

	// Бронирование пересекает второй слот проекции, но не первый
	f.calendar.entries["2025-06-02"] = &domain.CalendarEntry{
		UserID: 7,
		Date:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Slots: []domain.TimeSlot{
			{ID: "slot-old", StartTime: "15:00", EndTime: "16:00", Status: domain.SlotAvailable},
			{ID: "slot-booked", StartTime: "10:30", EndTime: "11:30", Status: domain.SlotBooked, IsBooked: true, BookingID: ptr.Ptr("booking-1")},
		},
		Status: domain.EntryPartial,
		Notes:  ptr.Ptr("заметка владельца"),
	}

	result, err := f.uc.Execute(context.Background(), &Request{
		UserID:            7,
		PatternID:         "pattern-1",
		From:              from,
		To:                to,
		OverwriteExisting: true,
	})

	require.NoError(t, err)
	assert.Contains(t, result.AppliedDates, "2025-06-02")

	entry := f.calendar.entries["2025-06-02"]
	// Остаются занятый слот и не пересекающая его часть проекции,
	// старый свободный слот перезаписан
	require.Len(t, entry.Slots, 2)
	assert.Equal(t, "09:00", entry.Slots[0].StartTime.String())
	assert.Equal(t, "slot-booked", entry.Slots[1].ID)
	assert.True(t, entry.Slots[1].IsBooked)
	// Заметки переживают перезапись
	require.NotNil(t, entry.Notes)
	assert.Equal(t, "заметка владельца", *entry.Notes)
}

func TestExecute_RerunWithOverwriteIsIdempotent(t *testing.T) {
	f := newFixture(weeklyPattern())
	from, to := weekRange()
	req := &Request{
		UserID:            7,
		PatternID:         "pattern-1",
		From:              from,
		To:                to,
		OverwriteExisting: true,
	}

	first, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, []string{"2025-06-02", "2025-06-09"}, first.AppliedDates)
	upsertsAfterFirst := f.calendar.upsertCalls

	second, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	// Те же даты считаются применёнными, но записи не трогаются
	assert.Equal(t, first.AppliedDates, second.AppliedDates)
	assert.Equal(t, upsertsAfterFirst, f.calendar.upsertCalls)
}

func TestExecute_CollectsTemplateErrorsPerDate(t *testing.T) {
	pattern := weeklyPattern()
	pattern.Schedule["monday"] = []domain.SlotTemplate{
		{StartTime: "11:00", EndTime: "10:00"},
	}
	f := newFixture(pattern)
	from, to := weekRange()

	result, err := f.uc.Execute(context.Background(), &Request{
		UserID:    7,
		PatternID: "pattern-1",
		From:      from,
		To:        to,
	})

	require.NoError(t, err)
	assert.Empty(t, result.AppliedDates)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "2025-06-02")
	assert.Empty(t, f.calendar.entries)
}
