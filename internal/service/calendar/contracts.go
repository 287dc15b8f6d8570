package calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/realtime"
)

// CalendarRepository интерфейс репозитория календаря
type CalendarRepository interface {
	GetEntry(ctx context.Context, userID int64, date time.Time) (*domain.CalendarEntry, error)
	GetEntries(ctx context.Context, userID int64, from, to time.Time) ([]*domain.CalendarEntry, error)
	UpsertEntry(ctx context.Context, entry *domain.CalendarEntry) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Broadcaster интерфейс для отправки событий изменения календаря
type Broadcaster interface {
	Emit(eventType realtime.EventType, userID int64, payload realtime.Payload)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
