package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/types"
)

var csvHeader = []string{"Date", "Status", "Start Time", "End Time", "Job Title", "Client Name", "Rate"}

// encodeCSV сериализует слоты календаря в CSV: одна строка на слот
func encodeCSV(entries []*domain.CalendarEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("%w: encodeCSV - write header: %v", ErrInternal, err)
	}

	for _, entry := range entries {
		for i := range entry.Slots {
			slot := &entry.Slots[i]

			jobTitle := ""
			if slot.JobTitle != nil {
				jobTitle = *slot.JobTitle
			}
			clientName := ""
			if slot.ClientName != nil {
				clientName = *slot.ClientName
			}
			rate := ""
			if slot.RatePerHour != nil {
				rate = strconv.FormatFloat(*slot.RatePerHour, 'f', 2, 64)
			}

			record := []string{
				entry.Date.Format(domain.DateFormat),
				string(slot.Status),
				slot.StartTime.String(),
				slot.EndTime.String(),
				jobTitle,
				clientName,
				rate,
			}
			if err := w.Write(record); err != nil {
				return nil, fmt.Errorf("%w: encodeCSV - write record: %v", ErrInternal, err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%w: encodeCSV - flush: %v", ErrInternal, err)
	}
	return buf.Bytes(), nil
}

// decodeCSV разбирает CSV обратно в слоты, сгруппированные по датам.
// Ошибочные строки собираются с номерами, остальные импортируются.
func decodeCSV(data []byte) (map[string][]domain.TimeSlot, []ImportError, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: empty file", ErrParse)
	}

	byDate := make(map[string][]domain.TimeSlot)
	importErrs := make([]ImportError, 0)

	// Первая строка - заголовок
	for i, record := range records[1:] {
		line := i + 2

		if len(record) < 4 {
			importErrs = append(importErrs, ImportError{Line: line, Message: "too few columns"})
			continue
		}

		date, err := time.Parse(domain.DateFormat, record[0])
		if err != nil {
			importErrs = append(importErrs, ImportError{Line: line, Message: fmt.Sprintf("invalid date %q", record[0])})
			continue
		}

		status := domain.SlotStatus(record[1])
		if !status.IsValid() {
			importErrs = append(importErrs, ImportError{Line: line, Date: record[0], Message: fmt.Sprintf("unknown status %q", record[1])})
			continue
		}

		start, err := types.NewTimeStringFromString(record[2])
		if err != nil {
			importErrs = append(importErrs, ImportError{Line: line, Date: record[0], Message: fmt.Sprintf("invalid start time %q", record[2])})
			continue
		}
		end, err := types.NewTimeStringFromString(record[3])
		if err != nil {
			importErrs = append(importErrs, ImportError{Line: line, Date: record[0], Message: fmt.Sprintf("invalid end time %q", record[3])})
			continue
		}

		slot := domain.TimeSlot{
			ID:        uuid.NewString(),
			StartTime: start,
			EndTime:   end,
			Status:    status,
			IsBooked:  status == domain.SlotBooked,
		}

		if len(record) > 4 && record[4] != "" {
			jobTitle := record[4]
			slot.JobTitle = &jobTitle
		}
		if len(record) > 5 && record[5] != "" {
			clientName := record[5]
			slot.ClientName = &clientName
		}
		if len(record) > 6 && record[6] != "" {
			if rate, err := strconv.ParseFloat(record[6], 64); err == nil {
				slot.RatePerHour = &rate
			}
		}

		dateKey := date.Format(domain.DateFormat)
		byDate[dateKey] = append(byDate[dateKey], slot)
	}

	return byDate, importErrs, nil
}
