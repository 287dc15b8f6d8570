package preview_pattern

import (
	patternsService "github.com/m04kA/SMC-CalendarService/internal/service/patterns"
)

// PreviewSlotResponse HTTP модель спроецированного слота
type PreviewSlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

// PreviewDayResponse HTTP модель спроецированной даты
type PreviewDayResponse struct {
	Date  string                `json:"date"`
	Slots []PreviewSlotResponse `json:"slots"`
}

// PreviewConflictResponse HTTP модель конфликта предпросмотра
type PreviewConflictResponse struct {
	Date      string `json:"date"`
	Type      string `json:"conflictType"`
	BookingID string `json:"bookingId,omitempty"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// PreviewResponse HTTP модель результата предпросмотра
type PreviewResponse struct {
	Dates     []PreviewDayResponse      `json:"dates"`
	Conflicts []PreviewConflictResponse `json:"conflicts"`
	Errors    []string                  `json:"errors,omitempty"`
}

// FromResult конвертирует результат сервиса в HTTP модель
func FromResult(result *patternsService.PreviewResult) *PreviewResponse {
	resp := &PreviewResponse{
		Dates:     make([]PreviewDayResponse, 0, len(result.Dates)),
		Conflicts: make([]PreviewConflictResponse, 0, len(result.Conflicts)),
		Errors:    result.Errors,
	}

	for _, day := range result.Dates {
		out := PreviewDayResponse{
			Date:  day.Date,
			Slots: make([]PreviewSlotResponse, 0, len(day.Slots)),
		}
		for i := range day.Slots {
			slot := &day.Slots[i]
			out.Slots = append(out.Slots, PreviewSlotResponse{
				StartTime: slot.StartTime.String(),
				EndTime:   slot.EndTime.String(),
				Status:    string(slot.Status),
			})
		}
		resp.Dates = append(resp.Dates, out)
	}

	for _, c := range result.Conflicts {
		resp.Conflicts = append(resp.Conflicts, PreviewConflictResponse{
			Date:      c.Date,
			Type:      string(c.Overlap.Type),
			BookingID: c.Overlap.BookingID,
			StartTime: c.Overlap.StartTime.String(),
			EndTime:   c.Overlap.EndTime.String(),
		})
	}

	return resp
}
