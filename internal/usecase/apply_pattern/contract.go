package apply_pattern

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/realtime"
)

// PatternRepository интерфейс репозитория паттернов
type PatternRepository interface {
	GetByID(ctx context.Context, id string) (*domain.RecurringPattern, error)
}

// CalendarRepository интерфейс репозитория календаря
type CalendarRepository interface {
	GetEntry(ctx context.Context, userID int64, date time.Time) (*domain.CalendarEntry, error)
	UpsertEntry(ctx context.Context, entry *domain.CalendarEntry) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Broadcaster интерфейс для отправки событий применения паттерна
type Broadcaster interface {
	Emit(eventType realtime.EventType, userID int64, payload realtime.Payload)
}

// Metrics счётчики применения паттернов. Может быть nil.
type Metrics interface {
	PatternDateApplied()
	PatternDateSkipped()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
