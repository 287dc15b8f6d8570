package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/types"
)

// encodeJSON сериализует календарь в JSON-документ экспорта
func encodeJSON(userID int64, from, to time.Time, entries []*domain.CalendarEntry) ([]byte, error) {
	doc := exportDocument{
		UserID:  userID,
		From:    from.Format(domain.DateFormat),
		To:      to.Format(domain.DateFormat),
		Entries: make([]exportEntry, 0, len(entries)),
	}

	for _, entry := range entries {
		out := exportEntry{
			Date:   entry.Date.Format(domain.DateFormat),
			Status: string(entry.Status),
			Notes:  entry.Notes,
			Slots:  make([]exportSlot, 0, len(entry.Slots)),
		}
		for i := range entry.Slots {
			slot := &entry.Slots[i]
			out.Slots = append(out.Slots, exportSlot{
				StartTime:  slot.StartTime.String(),
				EndTime:    slot.EndTime.String(),
				Status:     string(slot.Status),
				JobID:      slot.JobID,
				JobTitle:   slot.JobTitle,
				ClientName: slot.ClientName,
				Rate:       slot.RatePerHour,
				Notes:      slot.Notes,
			})
		}
		doc.Entries = append(doc.Entries, out)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encodeJSON - marshal: %v", ErrInternal, err)
	}
	return data, nil
}

// decodeJSON разбирает JSON-документ импорта в слоты по датам
func decodeJSON(data []byte) (map[string][]domain.TimeSlot, []ImportError, error) {
	var doc exportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	byDate := make(map[string][]domain.TimeSlot)
	importErrs := make([]ImportError, 0)

	for _, entry := range doc.Entries {
		if _, err := time.Parse(domain.DateFormat, entry.Date); err != nil {
			importErrs = append(importErrs, ImportError{Date: entry.Date, Message: "invalid date"})
			continue
		}

		slots := make([]domain.TimeSlot, 0, len(entry.Slots))
		ok := true
		for _, src := range entry.Slots {
			status := domain.SlotStatus(src.Status)
			if !status.IsValid() {
				importErrs = append(importErrs, ImportError{Date: entry.Date, Message: fmt.Sprintf("unknown slot status %q", src.Status)})
				ok = false
				break
			}
			start, err := types.NewTimeStringFromString(src.StartTime)
			if err != nil {
				importErrs = append(importErrs, ImportError{Date: entry.Date, Message: fmt.Sprintf("invalid start time %q", src.StartTime)})
				ok = false
				break
			}
			end, err := types.NewTimeStringFromString(src.EndTime)
			if err != nil {
				importErrs = append(importErrs, ImportError{Date: entry.Date, Message: fmt.Sprintf("invalid end time %q", src.EndTime)})
				ok = false
				break
			}

			slots = append(slots, domain.TimeSlot{
				ID:          uuid.NewString(),
				StartTime:   start,
				EndTime:     end,
				Status:      status,
				IsBooked:    status == domain.SlotBooked,
				JobID:       src.JobID,
				JobTitle:    src.JobTitle,
				ClientName:  src.ClientName,
				RatePerHour: src.Rate,
				Notes:       src.Notes,
			})
		}
		if !ok {
			continue
		}

		byDate[entry.Date] = append(byDate[entry.Date], slots...)
	}

	return byDate, importErrs, nil
}
