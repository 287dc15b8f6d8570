package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/types"
)

// encodeICS сериализует слоты календаря в iCalendar: один VEVENT на слот.
// Статус слота кладётся в DESCRIPTION, чтобы пережить round-trip.
func encodeICS(userID int64, entries []*domain.CalendarEntry) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//SMC//CalendarService//EN")

	now := time.Now().UTC()

	for _, entry := range entries {
		for i := range entry.Slots {
			slot := &entry.Slots[i]

			start, err := slotTime(entry.Date, slot.StartTime)
			if err != nil {
				return nil, fmt.Errorf("%w: encodeICS - slot start: %v", ErrInternal, err)
			}
			end, err := slotTime(entry.Date, slot.EndTime)
			if err != nil {
				return nil, fmt.Errorf("%w: encodeICS - slot end: %v", ErrInternal, err)
			}

			uid := slot.ID
			if uid == "" {
				uid = uuid.NewString()
			}

			event := cal.AddEvent(fmt.Sprintf("%s@smc-calendar-%d", uid, userID))
			event.SetDtStampTime(now)
			event.SetCreatedTime(now)
			event.SetStartAt(start)
			event.SetEndAt(end)
			event.SetSummary(icsSummary(slot))
			event.SetDescription(string(slot.Status))
		}
	}

	return []byte(cal.Serialize()), nil
}

// decodeICS разбирает iCalendar обратно в слоты, сгруппированные по датам.
// Некорректные VEVENT попадают в ошибки импорта, не прерывая остальные.
func decodeICS(data []byte) (map[string][]domain.TimeSlot, []ImportError, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	byDate := make(map[string][]domain.TimeSlot)
	importErrs := make([]ImportError, 0)

	for _, event := range cal.Events() {
		start, err := event.GetStartAt()
		if err != nil {
			importErrs = append(importErrs, ImportError{Message: fmt.Sprintf("event %s: missing DTSTART", event.Id())})
			continue
		}
		end, err := event.GetEndAt()
		if err != nil {
			importErrs = append(importErrs, ImportError{Message: fmt.Sprintf("event %s: missing DTEND", event.Id())})
			continue
		}
		if !domain.SameDay(start, end) {
			importErrs = append(importErrs, ImportError{
				Date:    start.Format(domain.DateFormat),
				Message: fmt.Sprintf("event %s: spans multiple days", event.Id()),
			})
			continue
		}

		status := domain.SlotAvailable
		if p := event.GetProperty(ical.ComponentPropertyDescription); p != nil {
			candidate := domain.SlotStatus(strings.ToLower(strings.TrimSpace(p.Value)))
			if candidate.IsValid() {
				status = candidate
			}
		}

		dateKey := start.Format(domain.DateFormat)
		byDate[dateKey] = append(byDate[dateKey], domain.TimeSlot{
			ID:        uuid.NewString(),
			StartTime: types.NewTimeString(start),
			EndTime:   types.NewTimeString(end),
			Status:    status,
			IsBooked:  status == domain.SlotBooked,
		})
	}

	return byDate, importErrs, nil
}

func icsSummary(slot *domain.TimeSlot) string {
	if slot.IsBooked && slot.ClientName != nil {
		return fmt.Sprintf("Booked - %s", *slot.ClientName)
	}
	switch slot.Status {
	case domain.SlotBooked:
		return "Booked"
	case domain.SlotBlocked:
		return "Blocked"
	case domain.SlotTentative:
		return "Tentative"
	default:
		return "Available"
	}
}

// slotTime собирает time.Time из даты записи и типизированного времени слота
func slotTime(date time.Time, t types.TimeString) (time.Time, error) {
	minutes, err := t.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	day := domain.DateOnly(date)
	return day.Add(time.Duration(minutes) * time.Minute), nil
}
