package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-CalendarService/internal/integrations/jobservice"
	"github.com/m04kA/SMC-CalendarService/internal/realtime"
	"github.com/m04kA/SMC-CalendarService/pkg/ptr"
)

var (
	testNow  = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	testDate = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
)

type fixedTimeProvider struct{ now time.Time }

func (p fixedTimeProvider) Now() time.Time { return p.now }

type fakeBookingRepo struct {
	created   []*domain.BookingReference
	conflicts []*domain.BookingConflict
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.BookingReference) (*domain.BookingReference, error) {
	b.CreatedAt = testNow
	f.created = append(f.created, b)
	return b, nil
}

func (f *fakeBookingRepo) CreateConflict(_ context.Context, c *domain.BookingConflict) (*domain.BookingConflict, error) {
	f.conflicts = append(f.conflicts, c)
	return c, nil
}

type fakeCalendarRepo struct {
	entry           *domain.CalendarEntry
	versionConflict bool
	upserted        bool
}

func (f *fakeCalendarRepo) GetEntry(_ context.Context, _ int64, _ time.Time) (*domain.CalendarEntry, error) {
	if f.entry == nil {
		return nil, calendarRepo.ErrEntryNotFound
	}
	return f.entry, nil
}

func (f *fakeCalendarRepo) UpsertEntry(_ context.Context, entry *domain.CalendarEntry) error {
	f.entry = entry
	f.upserted = true
	return nil
}

func (f *fakeCalendarRepo) UpdateSlotBooking(_ context.Context, slotID string, expectedVersion int64, update calendarRepo.SlotBookingUpdate) error {
	if f.versionConflict {
		return calendarRepo.ErrVersionConflict
	}
	for i := range f.entry.Slots {
		slot := &f.entry.Slots[i]
		if slot.ID != slotID {
			continue
		}
		if slot.Version != expectedVersion {
			return calendarRepo.ErrVersionConflict
		}
		slot.Status = update.Status
		slot.IsBooked = update.IsBooked
		slot.BookingID = update.BookingID
		slot.JobID = update.JobID
		slot.JobTitle = update.JobTitle
		slot.ClientName = update.ClientName
		slot.RatePerHour = update.RatePerHour
		slot.Version++
		return nil
	}
	return calendarRepo.ErrSlotNotFound
}

type fakePrivacyReader struct {
	settings *domain.PrivacySettings
}

func (f *fakePrivacyReader) GetSettings(_ context.Context, userID int64) (*domain.PrivacySettings, error) {
	if f.settings != nil {
		return f.settings, nil
	}
	settings := domain.DefaultPrivacySettings(userID)
	// Без ограничений окна бронирования, если тест не задал иное
	settings.LeadTimeHours = 0
	settings.AdvanceBookingDays = 0
	return settings, nil
}

type fakeJobClient struct {
	job *jobservice.Job
	err error
}

func (f *fakeJobClient) GetJobWithGracefulDegradation(_ context.Context, _ int64) (*jobservice.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.job, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeBroadcaster struct {
	events []realtime.EventType
}

func (f *fakeBroadcaster) Emit(eventType realtime.EventType, _ int64, _ realtime.Payload) {
	f.events = append(f.events, eventType)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixture struct {
	uc          *UseCase
	bookings    *fakeBookingRepo
	calendar    *fakeCalendarRepo
	privacy     *fakePrivacyReader
	jobs        *fakeJobClient
	broadcaster *fakeBroadcaster
}

func newFixture(autoDecline bool) *fixture {
	f := &fixture{
		bookings:    &fakeBookingRepo{},
		calendar:    &fakeCalendarRepo{},
		privacy:     &fakePrivacyReader{},
		jobs:        &fakeJobClient{job: &jobservice.Job{ID: 12, Title: "Сборка мебели", ClientName: "ООО Ромашка", RatePerHour: 50}},
		broadcaster: &fakeBroadcaster{},
	}
	f.uc = NewUseCase(f.bookings, f.calendar, f.privacy, f.jobs, fakeTxManager{}, f.broadcaster, autoDecline, nopLogger{})
	f.uc.timeProvider = fixedTimeProvider{now: testNow}
	return f
}

func freeEntry() *domain.CalendarEntry {
	return &domain.CalendarEntry{
		UserID: 7,
		Date:   testDate,
		Slots: []domain.TimeSlot{
			{ID: "slot-1", StartTime: "10:00", EndTime: "11:00", Status: domain.SlotAvailable, Version: 1},
		},
		Status: domain.EntryAvailable,
	}
}

func validRequest() *Request {
	return &Request{
		OwnerID:   7,
		ClientID:  42,
		JobID:     12,
		Date:      testDate,
		StartTime: "10:00",
		EndTime:   "11:00",
	}
}

func TestExecute_ClaimsExactFreeSlot(t *testing.T) {
	f := newFixture(false)
	f.calendar.entry = freeEntry()

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusRequested, resp.Status)
	assert.Equal(t, "ООО Ромашка", resp.ClientName)
	assert.Equal(t, 50.0, resp.RatePerHour)
	assert.False(t, resp.Degraded)
	assert.Empty(t, resp.Conflicts)

	slot := f.calendar.entry.Slots[0]
	assert.True(t, slot.IsBooked)
	require.NotNil(t, slot.BookingID)
	assert.Equal(t, resp.ID, *slot.BookingID)
	// Название работы денормализуется на слот
	require.NotNil(t, slot.JobTitle)
	assert.Equal(t, "Сборка мебели", *slot.JobTitle)
	assert.Equal(t, int64(2), slot.Version)

	assert.Equal(t, []realtime.EventType{realtime.EventBookingUpdated}, f.broadcaster.events)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture(false)

	req := validRequest()
	req.StartTime = "11:00"
	req.EndTime = "10:00"
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.JobID = 0
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_OwnerNotBookable(t *testing.T) {
	f := newFixture(false)
	f.privacy.settings = &domain.PrivacySettings{
		UserID:          7,
		IsVisible:       true,
		VisibilityLevel: domain.VisibilityPrivate,
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrOwnerNotBookable)
}

func TestExecute_BookingWindow(t *testing.T) {
	t.Run("lead time", func(t *testing.T) {
		f := newFixture(false)
		settings := domain.DefaultPrivacySettings(7)
		settings.LeadTimeHours = 48
		f.privacy.settings = settings

		// Слот начинается через 22 часа после now
		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrTooLateToBook)
	})

	t.Run("advance days", func(t *testing.T) {
		f := newFixture(false)
		settings := domain.DefaultPrivacySettings(7)
		settings.LeadTimeHours = 0
		settings.AdvanceBookingDays = 7
		f.privacy.settings = settings
		f.calendar.entry = freeEntry()

		req := validRequest()
		req.Date = testDate.AddDate(0, 0, 30)
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)

		// В пределах окна проходит
		_, err = f.uc.Execute(context.Background(), validRequest())
		assert.NoError(t, err)
	})
}

func TestExecute_JobNotFound(t *testing.T) {
	f := newFixture(false)
	f.jobs.err = jobservice.ErrJobNotFound

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestExecute_DegradedJobServiceUsesFallback(t *testing.T) {
	f := newFixture(false)
	f.jobs.err = jobservice.ErrServiceDegraded
	f.calendar.entry = freeEntry()

	req := validRequest()
	req.ClientName = ptr.Ptr("Fallback Client")
	req.RatePerHour = ptr.Ptr(35.0)

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, resp.Degraded)
	assert.Equal(t, "Fallback Client", resp.ClientName)
	assert.Equal(t, 35.0, resp.RatePerHour)
}

func TestExecute_NoEntryMeansNoAvailability(t *testing.T) {
	f := newFixture(false)

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_AutoDeclineFullOverlap(t *testing.T) {
	f := newFixture(true)
	f.calendar.entry = &domain.CalendarEntry{
		UserID: 7,
		Date:   testDate,
		Slots: []domain.TimeSlot{
			{
				ID: "slot-1", StartTime: "10:00", EndTime: "11:00",
				Status: domain.SlotBooked, IsBooked: true,
				BookingID: ptr.Ptr("booking-0"), Version: 1,
			},
		},
		Status: domain.EntryBooked,
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrBookingConflict)
	assert.Empty(t, f.bookings.created)
	assert.Empty(t, f.bookings.conflicts)
	assert.Empty(t, f.broadcaster.events)
}

func TestExecute_AutoDeclinePartialOverlap(t *testing.T) {
	f := newFixture(true)
	// Подтвержденное бронирование 10:30-11:30, запрос 10:00-11:00
	f.calendar.entry = &domain.CalendarEntry{
		UserID: 7,
		Date:   testDate,
		Slots: []domain.TimeSlot{
			{
				ID: "slot-1", StartTime: "10:30", EndTime: "11:30",
				Status: domain.SlotBooked, IsBooked: true,
				BookingID: ptr.Ptr("booking-0"), Version: 1,
			},
		},
		Status: domain.EntryBooked,
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	// Частичное пересечение при активной политике отклоняется так же,
	// как полное: ничего не создаётся
	assert.ErrorIs(t, err, ErrBookingConflict)
	assert.Empty(t, f.bookings.created)
	assert.Empty(t, f.bookings.conflicts)
	assert.Empty(t, f.broadcaster.events)
}

func TestExecute_PartialOverlapRecordsPendingConflict(t *testing.T) {
	f := newFixture(false)
	f.calendar.entry = &domain.CalendarEntry{
		UserID: 7,
		Date:   testDate,
		Slots: []domain.TimeSlot{
			{
				ID: "slot-1", StartTime: "10:30", EndTime: "11:30",
				Status: domain.SlotBooked, IsBooked: true,
				BookingID: ptr.Ptr("booking-0"), Version: 1,
			},
		},
		Status: domain.EntryBooked,
	}

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, domain.ConflictPartialOverlap, resp.Conflicts[0].Type)
	assert.Equal(t, "booking-0", resp.Conflicts[0].ConflictingBookingID)

	require.Len(t, f.bookings.conflicts, 1)
	assert.Equal(t, domain.ResolutionPending, f.bookings.conflicts[0].ResolutionStatus)
	// Слот первичного бронирования не переписывается
	assert.Equal(t, "booking-0", *f.calendar.entry.Slots[0].BookingID)

	assert.Equal(t, []realtime.EventType{realtime.EventBookingUpdated, realtime.EventConflictDetected}, f.broadcaster.events)
}

func TestExecute_FullOverlapWithoutAutoDeclineRecordsConflict(t *testing.T) {
	f := newFixture(false)
	f.calendar.entry = &domain.CalendarEntry{
		UserID: 7,
		Date:   testDate,
		Slots: []domain.TimeSlot{
			{
				ID: "slot-1", StartTime: "10:00", EndTime: "11:00",
				Status: domain.SlotBooked, IsBooked: true,
				BookingID: ptr.Ptr("booking-0"), Version: 1,
			},
		},
		Status: domain.EntryBooked,
	}

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, domain.ConflictFullOverlap, resp.Conflicts[0].Type)
	require.Len(t, f.bookings.created, 1)
}

func TestExecute_PartialCoverOfFreeSlotRejected(t *testing.T) {
	f := newFixture(false)
	f.calendar.entry = freeEntry()

	req := validRequest()
	req.StartTime = "10:00"
	req.EndTime = "10:30"

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	assert.Empty(t, f.bookings.created)
}

func TestExecute_LostSlotRace(t *testing.T) {
	f := newFixture(false)
	f.calendar.entry = freeEntry()
	f.calendar.versionConflict = true

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrBookingConflict)
	assert.Empty(t, f.bookings.created)
}

func TestExecute_AppendsBookedSlotIntoFreeGap(t *testing.T) {
	f := newFixture(false)
	f.calendar.entry = freeEntry()

	req := validRequest()
	req.StartTime = "14:00"
	req.EndTime = "15:00"

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, f.calendar.upserted)
	require.Len(t, f.calendar.entry.Slots, 2)
	added := f.calendar.entry.Slots[1]
	assert.Equal(t, "14:00", added.StartTime.String())
	assert.True(t, added.IsBooked)
	require.NotNil(t, added.BookingID)
	assert.Equal(t, resp.ID, *added.BookingID)
	assert.Equal(t, domain.EntryPartial, f.calendar.entry.Status)
}
