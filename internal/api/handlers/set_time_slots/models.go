package set_time_slots

import (
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/types"
)

// SlotRequest HTTP модель слота в запросе
type SlotRequest struct {
	ID        string  `json:"id,omitempty"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Status    string  `json:"status,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// SetTimeSlotsRequest HTTP модель запроса на замену слотов даты
type SetTimeSlotsRequest struct {
	Slots []SlotRequest `json:"slots"`
	Notes *string       `json:"notes,omitempty"`
}

// ToDomainSlots конвертирует HTTP модель в доменные слоты
func (r *SetTimeSlotsRequest) ToDomainSlots() ([]domain.TimeSlot, error) {
	slots := make([]domain.TimeSlot, 0, len(r.Slots))
	for _, src := range r.Slots {
		start, err := types.NewTimeStringFromString(src.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := types.NewTimeStringFromString(src.EndTime)
		if err != nil {
			return nil, err
		}

		status := domain.SlotStatus(src.Status)
		if src.Status == "" {
			status = domain.SlotAvailable
		}

		slots = append(slots, domain.TimeSlot{
			ID:        src.ID,
			StartTime: start,
			EndTime:   end,
			Status:    status,
			IsBooked:  status == domain.SlotBooked,
			Notes:     src.Notes,
		})
	}
	return slots, nil
}

// EntryResponse HTTP модель обновлённой записи
type EntryResponse struct {
	Date        string         `json:"date"`
	Status      string         `json:"status"`
	Slots       []SlotResponse `json:"slots"`
	IsRecurring bool           `json:"isRecurring"`
	PatternID   *string        `json:"patternId,omitempty"`
	Notes       *string        `json:"notes,omitempty"`
	UpdatedAt   string         `json:"updatedAt"`
}

// SlotResponse HTTP модель слота в ответе
type SlotResponse struct {
	ID        string  `json:"id"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Status    string  `json:"status"`
	IsBooked  bool    `json:"isBooked"`
	Notes     *string `json:"notes,omitempty"`
}

// FromEntry конвертирует доменную запись в HTTP модель
func FromEntry(entry *domain.CalendarEntry) *EntryResponse {
	resp := &EntryResponse{
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
		resp.Slots = append(resp.Slots, SlotResponse{
			ID:        slot.ID,
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
			Status:    string(slot.Status),
			IsBooked:  slot.IsBooked,
			Notes:     slot.Notes,
		})
	}
	return resp
}
