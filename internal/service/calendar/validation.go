package calendar

import (
	"fmt"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// ValidateSlots проверяет каждый слот записи: формат времени, порядок
// start/end, длительность и попадание в рабочие часы. Возвращает
// *ValidationError со ВСЕМИ нарушениями - ошибки не скрываются за первой.
func ValidateSlots(slots []domain.TimeSlot) error {
	violations := make([]string, 0)

	if len(slots) > domain.MaxSlotsPerDay {
		violations = append(violations, fmt.Sprintf("too many slots: %d, limit %d", len(slots), domain.MaxSlotsPerDay))
	}

	for i := range slots {
		slot := &slots[i]
		label := fmt.Sprintf("slot %s-%s", slot.StartTime, slot.EndTime)

		startValid := slot.StartTime.Validate() == nil
		endValid := slot.EndTime.Validate() == nil
		if !startValid {
			violations = append(violations, fmt.Sprintf("%s: invalid start time format", label))
		}
		if !endValid {
			violations = append(violations, fmt.Sprintf("%s: invalid end time format", label))
		}
		if !startValid || !endValid {
			continue
		}

		if !slot.StartTime.IsBefore(slot.EndTime) {
			violations = append(violations, fmt.Sprintf("%s: start must be before end", label))
			continue
		}

		duration, err := slot.DurationMinutes()
		if err != nil {
			violations = append(violations, fmt.Sprintf("%s: cannot compute duration", label))
			continue
		}
		if duration < domain.MinSlotDurationMinutes {
			violations = append(violations, fmt.Sprintf("%s: duration %d min is shorter than %d min",
				label, duration, domain.MinSlotDurationMinutes))
		}
		if duration > domain.MaxSlotDurationMinutes {
			violations = append(violations, fmt.Sprintf("%s: duration %d min is longer than %d min",
				label, duration, domain.MaxSlotDurationMinutes))
		}

		if slot.StartTime.IsBefore(domain.BusinessOpenTime) {
			violations = append(violations, fmt.Sprintf("%s: starts before business open %s",
				label, domain.BusinessOpenTime))
		}
		if slot.EndTime.IsAfter(domain.BusinessCloseTime) {
			violations = append(violations, fmt.Sprintf("%s: ends after business close %s",
				label, domain.BusinessCloseTime))
		}

		if !slot.Status.IsValid() {
			violations = append(violations, fmt.Sprintf("%s: unknown status %q", label, slot.Status))
		}
		if slot.IsBooked != (slot.Status == domain.SlotBooked) {
			violations = append(violations, fmt.Sprintf("%s: isBooked flag does not match status %q", label, slot.Status))
		}

		if slot.Notes != nil && len(*slot.Notes) > domain.MaxNotesLength {
			violations = append(violations, fmt.Sprintf("%s: notes longer than %d characters", label, domain.MaxNotesLength))
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// CheckOverlaps отклоняет запись целиком, если хотя бы два слота даты
// пересекаются. Слоты должны быть отсортированы по времени начала.
func CheckOverlaps(slots []domain.TimeSlot) error {
	for i := 1; i < len(slots); i++ {
		prev := &slots[i-1]
		curr := &slots[i]
		if prev.Overlaps(curr) {
			return fmt.Errorf("%w: %s-%s intersects %s-%s",
				ErrOverlap, prev.StartTime, prev.EndTime, curr.StartTime, curr.EndTime)
		}
	}
	return nil
}
