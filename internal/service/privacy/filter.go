package privacy

import (
	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// ComputeVisibleView строит представление календаря владельца для конкретного
// зрителя. Чистая функция: входные записи не изменяются, возвращаются копии.
//
// Правила:
//   - владелец видит все без изменений;
//   - если зритель не проходит уровень видимости, список пуст;
//   - скрытые даты удаляются из представления;
//   - для посторонних из слотов убираются детали бронирований
//     (идентификаторы, клиент, ставка, заметки);
//   - частично занятый день деградирует до unavailable без слотов,
//     если владелец отключил показ частичной доступности.
func ComputeVisibleView(entries []*domain.CalendarEntry, settings *domain.PrivacySettings, viewerID int64) []*domain.CalendarEntry {
	if viewerID == settings.UserID {
		return entries
	}

	if !settings.AllowsViewer(viewerID) {
		return []*domain.CalendarEntry{}
	}

	visible := make([]*domain.CalendarEntry, 0, len(entries))
	for _, entry := range entries {
		if settings.IsDateHidden(entry.Date) {
			continue
		}
		visible = append(visible, sanitizeEntry(entry, settings))
	}
	return visible
}

func sanitizeEntry(entry *domain.CalendarEntry, settings *domain.PrivacySettings) *domain.CalendarEntry {
	out := &domain.CalendarEntry{
		UserID:      entry.UserID,
		Date:        entry.Date,
		Status:      entry.Status,
		IsRecurring: entry.IsRecurring,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}

	if entry.Status == domain.EntryPartial && !settings.ShowPartialAvailability {
		out.Status = domain.EntryUnavailable
		out.Slots = []domain.TimeSlot{}
		return out
	}

	out.Slots = make([]domain.TimeSlot, 0, len(entry.Slots))
	for i := range entry.Slots {
		out.Slots = append(out.Slots, sanitizeSlot(&entry.Slots[i]))
	}
	return out
}

// sanitizeSlot оставляет время и статус, но убирает привязку к бронированию
func sanitizeSlot(slot *domain.TimeSlot) domain.TimeSlot {
	return domain.TimeSlot{
		ID:        slot.ID,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Status:    slot.Status,
		IsBooked:  slot.IsBooked,
		Version:   slot.Version,
	}
}
