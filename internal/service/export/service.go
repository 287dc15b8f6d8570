package export

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// Service сервис экспорта и импорта календаря
type Service struct {
	reader CalendarReader
	writer CalendarWriter
	logger Logger
}

// NewService создает новый экземпляр сервиса экспорта/импорта
func NewService(reader CalendarReader, writer CalendarWriter, logger Logger) *Service {
	return &Service{reader: reader, writer: writer, logger: logger}
}

// Export сериализует календарь владельца за период в выбранный формат.
// Возвращает данные и MIME-тип.
func (s *Service) Export(ctx context.Context, userID int64, from, to time.Time, format Format) ([]byte, string, error) {
	if !format.IsValid() {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	rng := domain.DateRange{From: from, To: to}
	if !rng.IsValid() {
		return nil, "", ErrInvalidRange
	}

	entries, err := s.reader.GetEntriesInRange(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("Export: calendar read failed for user=%d: %v", userID, err)
		return nil, "", fmt.Errorf("%w: Export - calendar read: %v", ErrInternal, err)
	}

	var data []byte
	switch format {
	case FormatICS:
		data, err = encodeICS(userID, entries)
	case FormatCSV:
		data, err = encodeCSV(entries)
	default:
		data, err = encodeJSON(userID, from, to, entries)
	}
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("Export: user=%d format=%s entries=%d bytes=%d", userID, format, len(entries), len(data))
	return data, format.ContentType(), nil
}

// Import разбирает файл выбранного формата и записывает слоты в календарь.
// Каждая дата - независимая единица: ошибка одной даты не откатывает
// остальные. Импортированные слоты проходят ту же валидацию, что и при
// ручном редактировании.
func (s *Service) Import(ctx context.Context, userID int64, format Format, data []byte) (*ImportResult, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	var byDate map[string][]domain.TimeSlot
	var importErrs []ImportError
	var err error

	switch format {
	case FormatICS:
		byDate, importErrs, err = decodeICS(data)
	case FormatCSV:
		byDate, importErrs, err = decodeCSV(data)
	default:
		byDate, importErrs, err = decodeJSON(data)
	}
	if err != nil {
		s.logger.Warn("Import: parse failed for user=%d format=%s: %v", userID, format, err)
		return nil, err
	}

	result := &ImportResult{Errors: importErrs}

	// Стабильный порядок применения по датам
	dates := make([]string, 0, len(byDate))
	for dateKey := range byDate {
		dates = append(dates, dateKey)
	}
	sort.Strings(dates)

	for _, dateKey := range dates {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("%w: Import - cancelled: %v", ErrInternal, ctxErr)
		}

		date, parseErr := time.Parse(domain.DateFormat, dateKey)
		if parseErr != nil {
			result.Errors = append(result.Errors, ImportError{Date: dateKey, Message: "invalid date"})
			continue
		}

		if _, writeErr := s.writer.SetTimeSlots(ctx, userID, date, byDate[dateKey], nil); writeErr != nil {
			result.Errors = append(result.Errors, ImportError{Date: dateKey, Message: writeErr.Error()})
			continue
		}
		result.ImportedCount++
	}

	s.logger.Info("Import: user=%d format=%s imported=%d errors=%d", userID, format, result.ImportedCount, len(result.Errors))
	return result, nil
}
