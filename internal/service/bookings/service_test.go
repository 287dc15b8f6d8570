package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/booking"
	calendarRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-CalendarService/internal/realtime"
	"github.com/m04kA/SMC-CalendarService/pkg/ptr"
)

var testDate = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

type fakeBookingRepo struct {
	bookings  map[string]*domain.BookingReference
	conflicts map[string]*domain.BookingConflict
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:  make(map[string]*domain.BookingReference),
		conflicts: make(map[string]*domain.BookingConflict),
	}
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.BookingReference) (*domain.BookingReference, error) {
	f.bookings[b.ID] = b
	return b, nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.BookingReference, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByUser(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.BookingReference, error) {
	result := make([]*domain.BookingReference, 0)
	for _, b := range f.bookings {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) GetActiveByDate(_ context.Context, userID int64, date time.Time) ([]*domain.BookingReference, error) {
	result := make([]*domain.BookingReference, 0)
	for _, b := range f.bookings {
		if b.UserID == userID && domain.SameDay(b.Date, date) && b.IsActive() {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id string, status domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	if status == domain.StatusConfirmed {
		now := time.Now()
		b.ConfirmedAt = &now
	}
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id string, reason string) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	now := time.Now()
	b.Status = domain.StatusCancelled
	b.CancelledAt = &now
	b.CancellationReason = &reason
	return nil
}

func (f *fakeBookingRepo) CreateConflict(_ context.Context, c *domain.BookingConflict) (*domain.BookingConflict, error) {
	f.conflicts[c.ID] = c
	return c, nil
}

func (f *fakeBookingRepo) GetConflictByID(_ context.Context, id string) (*domain.BookingConflict, error) {
	c, ok := f.conflicts[id]
	if !ok {
		return nil, bookingRepo.ErrConflictNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeBookingRepo) GetConflictsByUser(_ context.Context, userID int64, pendingOnly bool) ([]*domain.BookingConflict, error) {
	result := make([]*domain.BookingConflict, 0)
	for _, c := range f.conflicts {
		if c.UserID != userID {
			continue
		}
		if pendingOnly && c.ResolutionStatus != domain.ResolutionPending {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (f *fakeBookingRepo) ResolveConflict(_ context.Context, id string, action domain.ResolutionAction) error {
	c, ok := f.conflicts[id]
	if !ok {
		return bookingRepo.ErrConflictNotFound
	}
	now := time.Now()
	c.ResolutionStatus = domain.ResolutionResolved
	c.ResolutionAction = &action
	c.ResolvedAt = &now
	return nil
}

type fakeCalendarRepo struct {
	entry *domain.CalendarEntry
}

func (f *fakeCalendarRepo) GetEntry(_ context.Context, userID int64, _ time.Time) (*domain.CalendarEntry, error) {
	if f.entry == nil || f.entry.UserID != userID {
		return nil, calendarRepo.ErrEntryNotFound
	}
	return f.entry, nil
}

func (f *fakeCalendarRepo) UpdateSlotBooking(_ context.Context, slotID string, expectedVersion int64, update calendarRepo.SlotBookingUpdate) error {
	if f.entry == nil {
		return calendarRepo.ErrSlotNotFound
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
		slot.ClientName = update.ClientName
		slot.RatePerHour = update.RatePerHour
		slot.Version++
		return nil
	}
	return calendarRepo.ErrSlotNotFound
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

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

func newTestService() (*Service, *fakeBookingRepo, *fakeCalendarRepo, *fakeBroadcaster) {
	bookings := newFakeBookingRepo()
	calendar := &fakeCalendarRepo{}
	broadcaster := &fakeBroadcaster{}
	svc := NewService(bookings, calendar, fakeTxManager{}, broadcaster, nopLogger{})
	return svc, bookings, calendar, broadcaster
}

func seedBooking(repo *fakeBookingRepo, id string, status domain.BookingStatus) *domain.BookingReference {
	b := &domain.BookingReference{
		ID:        id,
		UserID:    7,
		ClientID:  42,
		JobID:     12,
		Status:    status,
		Date:      testDate,
		StartTime: "10:00",
		EndTime:   "11:00",
	}
	repo.bookings[id] = b
	return b
}

func TestUpdateStatus_ConfirmRequested(t *testing.T) {
	svc, bookings, _, broadcaster := newTestService()
	seedBooking(bookings, "booking-1", domain.StatusRequested)

	updated, err := svc.UpdateStatus(context.Background(), 7, "booking-1", domain.StatusConfirmed, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
	assert.NotNil(t, updated.ConfirmedAt)
	assert.Equal(t, []realtime.EventType{realtime.EventBookingUpdated}, broadcaster.events)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	svc, bookings, _, _ := newTestService()
	seedBooking(bookings, "booking-1", domain.StatusCompleted)

	_, err := svc.UpdateStatus(context.Background(), 7, "booking-1", domain.StatusConfirmed, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateStatus(context.Background(), 7, "booking-1", domain.BookingStatus("archived"), nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_PermissionDenied(t *testing.T) {
	svc, bookings, _, _ := newTestService()
	seedBooking(bookings, "booking-1", domain.StatusRequested)

	_, err := svc.UpdateStatus(context.Background(), 99, "booking-1", domain.StatusConfirmed, nil)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.UpdateStatus(context.Background(), 7, "missing", domain.StatusConfirmed, nil)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateStatus_CancelFreesSlot(t *testing.T) {
	svc, bookings, calendar, broadcaster := newTestService()
	seedBooking(bookings, "booking-1", domain.StatusConfirmed)
	calendar.entry = &domain.CalendarEntry{
		UserID: 7,
		Date:   testDate,
		Slots: []domain.TimeSlot{
			{
				ID:        "slot-1",
				StartTime: "10:00",
				EndTime:   "11:00",
				Status:    domain.SlotBooked,
				IsBooked:  true,
				BookingID: ptr.Ptr("booking-1"),
				Version:   2,
			},
		},
		Status: domain.EntryBooked,
	}

	updated, err := svc.UpdateStatus(context.Background(), 7, "booking-1", domain.StatusCancelled, ptr.Ptr("клиент отменил"))

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)
	require.NotNil(t, updated.CancellationReason)
	assert.Equal(t, "клиент отменил", *updated.CancellationReason)

	slot := calendar.entry.Slots[0]
	assert.False(t, slot.IsBooked)
	assert.Equal(t, domain.SlotAvailable, slot.Status)
	assert.Nil(t, slot.BookingID)
	assert.Equal(t, int64(3), slot.Version)

	// Событие доступности об освобождении слота, затем событие бронирования
	assert.Equal(t, []realtime.EventType{realtime.EventAvailabilityUpdated, realtime.EventBookingUpdated}, broadcaster.events)
}

func TestUpdateStatus_CancelWithoutEntryStillCancels(t *testing.T) {
	svc, bookings, _, _ := newTestService()
	seedBooking(bookings, "booking-1", domain.StatusRequested)

	updated, err := svc.UpdateStatus(context.Background(), 42, "booking-1", domain.StatusCancelled, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)
}

func TestCheckConflicts_NoEntry(t *testing.T) {
	svc, _, _, _ := newTestService()

	overlaps, err := svc.CheckConflicts(context.Background(), 7, testDate, "10:00", "11:00", nil)

	require.NoError(t, err)
	assert.Empty(t, overlaps)
}

func TestCheckConflicts_FindsOverlap(t *testing.T) {
	svc, _, calendar, _ := newTestService()
	calendar.entry = &domain.CalendarEntry{
		UserID: 7,
		Date:   testDate,
		Slots: []domain.TimeSlot{
			{
				ID:        "slot-1",
				StartTime: "10:30",
				EndTime:   "11:30",
				Status:    domain.SlotBooked,
				IsBooked:  true,
				BookingID: ptr.Ptr("booking-1"),
			},
		},
	}

	overlaps, err := svc.CheckConflicts(context.Background(), 7, testDate, "10:00", "11:00", nil)

	require.NoError(t, err)
	require.Len(t, overlaps, 1)
	assert.Equal(t, domain.ConflictPartialOverlap, overlaps[0].Type)
}

func seedConflict(repo *fakeBookingRepo, id string) *domain.BookingConflict {
	c := &domain.BookingConflict{
		ID:                   id,
		UserID:               7,
		Type:                 domain.ConflictPartialOverlap,
		PrimaryBookingID:     "booking-1",
		ConflictingBookingID: "booking-2",
		Date:                 testDate,
		StartTime:            "10:00",
		EndTime:              "11:00",
		ResolutionStatus:     domain.ResolutionPending,
	}
	repo.conflicts[id] = c
	return c
}

func TestResolveConflict_ManualReview(t *testing.T) {
	svc, bookings, _, _ := newTestService()
	seedConflict(bookings, "conflict-1")

	resolved, err := svc.ResolveConflict(context.Background(), 7, "conflict-1", domain.ActionManualReview)

	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionResolved, resolved.ResolutionStatus)
	require.NotNil(t, resolved.ResolutionAction)
	assert.Equal(t, domain.ActionManualReview, *resolved.ResolutionAction)
	assert.NotNil(t, resolved.ResolvedAt)
}

func TestResolveConflict_AutoDeclineCancelsLosingBooking(t *testing.T) {
	svc, bookings, calendar, _ := newTestService()
	seedConflict(bookings, "conflict-1")
	seedBooking(bookings, "booking-2", domain.StatusRequested)
	calendar.entry = &domain.CalendarEntry{
		UserID: 7,
		Date:   testDate,
		Slots: []domain.TimeSlot{
			{
				ID:        "slot-1",
				StartTime: "10:00",
				EndTime:   "11:00",
				Status:    domain.SlotBooked,
				IsBooked:  true,
				BookingID: ptr.Ptr("booking-2"),
				Version:   1,
			},
		},
	}

	resolved, err := svc.ResolveConflict(context.Background(), 7, "conflict-1", domain.ActionAutoDecline)

	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionResolved, resolved.ResolutionStatus)
	assert.Equal(t, domain.StatusCancelled, bookings.bookings["booking-2"].Status)
	assert.False(t, calendar.entry.Slots[0].IsBooked)
}

func TestResolveConflict_AlreadyResolvedIsNoop(t *testing.T) {
	svc, bookings, _, _ := newTestService()
	c := seedConflict(bookings, "conflict-1")
	c.ResolutionStatus = domain.ResolutionResolved
	c.ResolutionAction = ptr.Ptr(domain.ActionManualReview)

	resolved, err := svc.ResolveConflict(context.Background(), 7, "conflict-1", domain.ActionAutoDecline)

	require.NoError(t, err)
	require.NotNil(t, resolved.ResolutionAction)
	// Исходное действие сохраняется
	assert.Equal(t, domain.ActionManualReview, *resolved.ResolutionAction)
}

func TestResolveConflict_Validation(t *testing.T) {
	svc, bookings, _, _ := newTestService()
	seedConflict(bookings, "conflict-1")

	_, err := svc.ResolveConflict(context.Background(), 7, "conflict-1", domain.ResolutionAction("delete"))
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = svc.ResolveConflict(context.Background(), 7, "missing", domain.ActionManualReview)
	assert.ErrorIs(t, err, ErrConflictNotFound)

	_, err = svc.ResolveConflict(context.Background(), 99, "conflict-1", domain.ActionManualReview)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestGetBooking_Access(t *testing.T) {
	svc, bookings, _, _ := newTestService()
	seedBooking(bookings, "booking-1", domain.StatusRequested)

	// Владелец календаря
	_, err := svc.GetBooking(context.Background(), 7, "booking-1")
	assert.NoError(t, err)

	// Клиент бронирования
	_, err = svc.GetBooking(context.Background(), 42, "booking-1")
	assert.NoError(t, err)

	// Посторонний
	_, err = svc.GetBooking(context.Background(), 99, "booking-1")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
