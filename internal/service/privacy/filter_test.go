package privacy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/ptr"
)

func testEntries() []*domain.CalendarEntry {
	return []*domain.CalendarEntry{
		{
			UserID: 7,
			Date:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			Status: domain.EntryPartial,
			Slots: []domain.TimeSlot{
				{ID: "slot-1", StartTime: "09:00", EndTime: "10:00", Status: domain.SlotAvailable},
				{
					ID:          "slot-2",
					StartTime:   "10:00",
					EndTime:     "11:00",
					Status:      domain.SlotBooked,
					IsBooked:    true,
					BookingID:   ptr.Ptr("booking-1"),
					JobID:       ptr.Ptr(int64(12)),
					JobTitle:    ptr.Ptr("Deck Repair"),
					ClientName:  ptr.Ptr("Client Name"),
					RatePerHour: ptr.Ptr(55.0),
					Notes:       ptr.Ptr("private notes"),
					Version:     3,
				},
			},
		},
		{
			UserID: 7,
			Date:   time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
			Status: domain.EntryAvailable,
			Slots: []domain.TimeSlot{
				{ID: "slot-3", StartTime: "09:00", EndTime: "12:00", Status: domain.SlotAvailable},
			},
		},
	}
}

func publicSettings() *domain.PrivacySettings {
	settings := domain.DefaultPrivacySettings(7)
	return settings
}

func TestComputeVisibleView_OwnerSeesEverything(t *testing.T) {
	entries := testEntries()

	visible := ComputeVisibleView(entries, publicSettings(), 7)

	require.Len(t, visible, 2)
	// Владелец получает исходные записи, включая детали бронирований
	assert.Equal(t, "booking-1", *visible[0].Slots[1].BookingID)
}

func TestComputeVisibleView_SanitizesBookingDetails(t *testing.T) {
	entries := testEntries()

	visible := ComputeVisibleView(entries, publicSettings(), 99)

	require.Len(t, visible, 2)
	booked := visible[0].Slots[1]
	assert.Nil(t, booked.BookingID)
	assert.Nil(t, booked.JobID)
	assert.Nil(t, booked.JobTitle)
	assert.Nil(t, booked.ClientName)
	assert.Nil(t, booked.RatePerHour)
	assert.Nil(t, booked.Notes)
	// Время, статус и версия остаются
	assert.Equal(t, "10:00", booked.StartTime.String())
	assert.Equal(t, domain.SlotBooked, booked.Status)
	assert.True(t, booked.IsBooked)
	assert.Equal(t, int64(3), booked.Version)

	// Исходные записи не изменяются
	assert.NotNil(t, entries[0].Slots[1].BookingID)
}

func TestComputeVisibleView_PrivateHidesAll(t *testing.T) {
	settings := publicSettings()
	settings.VisibilityLevel = domain.VisibilityPrivate

	visible := ComputeVisibleView(testEntries(), settings, 99)
	assert.Empty(t, visible)

	// Владелец все равно видит
	visible = ComputeVisibleView(testEntries(), settings, 7)
	assert.Len(t, visible, 2)
}

func TestComputeVisibleView_ContactsOnly(t *testing.T) {
	settings := publicSettings()
	settings.VisibilityLevel = domain.VisibilityContactsOnly
	settings.AllowedUsers = []int64{42}

	assert.Len(t, ComputeVisibleView(testEntries(), settings, 42), 2)
	assert.Empty(t, ComputeVisibleView(testEntries(), settings, 99))
}

func TestComputeVisibleView_InvisibleOwner(t *testing.T) {
	settings := publicSettings()
	settings.IsVisible = false

	assert.Empty(t, ComputeVisibleView(testEntries(), settings, 99))
}

func TestComputeVisibleView_HiddenDatesRemoved(t *testing.T) {
	settings := publicSettings()
	settings.HiddenDates = []string{"2025-06-02"}

	visible := ComputeVisibleView(testEntries(), settings, 99)

	require.Len(t, visible, 1)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), visible[0].Date)
}

func TestComputeVisibleView_PartialDegradesWithoutSlotDetail(t *testing.T) {
	settings := publicSettings()
	settings.ShowPartialAvailability = false

	visible := ComputeVisibleView(testEntries(), settings, 99)

	require.Len(t, visible, 2)
	assert.Equal(t, domain.EntryUnavailable, visible[0].Status)
	assert.Empty(t, visible[0].Slots)
	// Полностью доступный день не деградирует
	assert.Equal(t, domain.EntryAvailable, visible[1].Status)
	assert.Len(t, visible[1].Slots, 1)
}
