package get_calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/api/middleware"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/ptr"
)

type fakeCalendarService struct {
	entries []*domain.CalendarEntry
}

func (f *fakeCalendarService) GetEntriesInRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.CalendarEntry, error) {
	return f.entries, nil
}

type fakePrivacyService struct {
	settings *domain.PrivacySettings
}

func (f *fakePrivacyService) GetSettings(_ context.Context, _ int64) (*domain.PrivacySettings, error) {
	return f.settings, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func ownerEntries() []*domain.CalendarEntry {
	return []*domain.CalendarEntry{
		{
			UserID: 7,
			Date:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			Status: domain.EntryPartial,
			Slots: []domain.TimeSlot{
				{
					ID: "slot-1", StartTime: "10:00", EndTime: "11:00",
					Status: domain.SlotBooked, IsBooked: true,
					BookingID: ptr.Ptr("booking-1"), ClientName: ptr.Ptr("Client Name"),
				},
			},
		},
	}
}

// Маршрут публичный, но заголовок X-User-ID учитывается. Тест прогоняет
// запрос через OptionalAuth так же, как он подключён в main.
func serveCalendar(t *testing.T, settings *domain.PrivacySettings, userIDHeader string) *CalendarResponse {
	t.Helper()

	h := NewHandler(&fakeCalendarService{entries: ownerEntries()}, &fakePrivacyService{settings: settings}, nopLogger{})

	r := mux.NewRouter()
	r.Handle("/api/v1/users/{userId}/calendar", middleware.OptionalAuth(http.HandlerFunc(h.Handle))).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/7/calendar?from=2025-06-01&to=2025-06-07", nil)
	if userIDHeader != "" {
		req.Header.Set("X-User-ID", userIDHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CalendarResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return &resp
}

func contactsOnlySettings() *domain.PrivacySettings {
	settings := domain.DefaultPrivacySettings(7)
	settings.VisibilityLevel = domain.VisibilityContactsOnly
	settings.AllowedUsers = []int64{42}
	return settings
}

func TestHandle_AllowedContactSeesCalendar(t *testing.T) {
	resp := serveCalendar(t, contactsOnlySettings(), "42")

	require.Len(t, resp.Entries, 1)
	// Контакт видит слоты, но без деталей бронирования
	require.Len(t, resp.Entries[0].Slots, 1)
	assert.Nil(t, resp.Entries[0].Slots[0].BookingID)
	assert.Nil(t, resp.Entries[0].Slots[0].ClientName)
}

func TestHandle_AnonymousViewerGetsNothingForContactsOnly(t *testing.T) {
	resp := serveCalendar(t, contactsOnlySettings(), "")

	assert.Empty(t, resp.Entries)
}

func TestHandle_StrangerGetsNothingForContactsOnly(t *testing.T) {
	resp := serveCalendar(t, contactsOnlySettings(), "99")

	assert.Empty(t, resp.Entries)
}

func TestHandle_OwnerSeesBookingDetails(t *testing.T) {
	settings := contactsOnlySettings()
	settings.VisibilityLevel = domain.VisibilityPrivate

	resp := serveCalendar(t, settings, "7")

	require.Len(t, resp.Entries, 1)
	require.Len(t, resp.Entries[0].Slots, 1)
	require.NotNil(t, resp.Entries[0].Slots[0].BookingID)
	assert.Equal(t, "booking-1", *resp.Entries[0].Slots[0].BookingID)
}
