package patterns

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// PatternRepository интерфейс репозитория повторяющихся паттернов
type PatternRepository interface {
	Create(ctx context.Context, pattern *domain.RecurringPattern) (*domain.RecurringPattern, error)
	GetByID(ctx context.Context, id string) (*domain.RecurringPattern, error)
	Update(ctx context.Context, pattern *domain.RecurringPattern) error
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]*domain.RecurringPattern, error)
}

// CalendarRepository интерфейс репозитория календаря для операций с паттернами
type CalendarRepository interface {
	GetEntries(ctx context.Context, userID int64, from, to time.Time) ([]*domain.CalendarEntry, error)
	DetachPattern(ctx context.Context, patternID string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
