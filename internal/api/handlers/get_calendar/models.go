package get_calendar

import (
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// SlotResponse HTTP модель временного слота
type SlotResponse struct {
	ID          string   `json:"id"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	Status      string   `json:"status"`
	IsBooked    bool     `json:"isBooked"`
	BookingID   *string  `json:"bookingId,omitempty"`
	JobID       *int64   `json:"jobId,omitempty"`
	JobTitle    *string  `json:"jobTitle,omitempty"`
	ClientName  *string  `json:"clientName,omitempty"`
	RatePerHour *float64 `json:"ratePerHour,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

// EntryResponse HTTP модель записи календаря
type EntryResponse struct {
	Date        string         `json:"date"`
	Status      string         `json:"status"`
	Slots       []SlotResponse `json:"slots"`
	IsRecurring bool           `json:"isRecurring"`
	PatternID   *string        `json:"patternId,omitempty"`
	Notes       *string        `json:"notes,omitempty"`
	UpdatedAt   string         `json:"updatedAt"`
}

// CalendarResponse HTTP модель календаря за период
type CalendarResponse struct {
	UserID  int64           `json:"userId"`
	From    string          `json:"from"`
	To      string          `json:"to"`
	Entries []EntryResponse `json:"entries"`
}

// FromEntries конвертирует доменные записи в HTTP модель
func FromEntries(userID int64, from, to time.Time, entries []*domain.CalendarEntry) *CalendarResponse {
	resp := &CalendarResponse{
		UserID:  userID,
		From:    from.Format(domain.DateFormat),
		To:      to.Format(domain.DateFormat),
		Entries: make([]EntryResponse, 0, len(entries)),
	}

	for _, entry := range entries {
		out := EntryResponse{
			Date:        entry.Date.Format(domain.DateFormat),
			Status:      string(entry.Status),
			Slots:       make([]SlotResponse, 0, len(entry.Slots)),
			IsRecurring: entry.IsRecurring,
			PatternID:   entry.PatternID,
			Notes:       entry.Notes,
			UpdatedAt:   entry.UpdatedAt.Format(time.RFC3339),
		}
		for i := range entry.Slots {
			slot := &entry.Slots[i]
			out.Slots = append(out.Slots, SlotResponse{
				ID:          slot.ID,
				StartTime:   slot.StartTime.String(),
				EndTime:     slot.EndTime.String(),
				Status:      string(slot.Status),
				IsBooked:    slot.IsBooked,
				BookingID:   slot.BookingID,
				JobID:       slot.JobID,
				JobTitle:    slot.JobTitle,
				ClientName:  slot.ClientName,
				RatePerHour: slot.RatePerHour,
				Notes:       slot.Notes,
			})
		}
		resp.Entries = append(resp.Entries, out)
	}

	return resp
}
