package export

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// CalendarReader интерфейс чтения календаря для экспорта
type CalendarReader interface {
	GetEntriesInRange(ctx context.Context, userID int64, from, to time.Time) ([]*domain.CalendarEntry, error)
}

// CalendarWriter интерфейс записи календаря для импорта.
// Каждая дата проходит ту же валидацию, что и обычное редактирование слотов.
type CalendarWriter interface {
	SetTimeSlots(ctx context.Context, userID int64, date time.Time, slots []domain.TimeSlot, notes *string) (*domain.CalendarEntry, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
