package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-CalendarService/internal/integrations/jobservice"
	"github.com/m04kA/SMC-CalendarService/internal/realtime"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.BookingReference) (*domain.BookingReference, error)
	CreateConflict(ctx context.Context, c *domain.BookingConflict) (*domain.BookingConflict, error)
}

// CalendarRepository интерфейс репозитория календаря
type CalendarRepository interface {
	GetEntry(ctx context.Context, userID int64, date time.Time) (*domain.CalendarEntry, error)
	UpsertEntry(ctx context.Context, entry *domain.CalendarEntry) error
	UpdateSlotBooking(ctx context.Context, slotID string, expectedVersion int64, update calendarRepo.SlotBookingUpdate) error
}

// PrivacyReader интерфейс чтения настроек приватности владельца
type PrivacyReader interface {
	GetSettings(ctx context.Context, userID int64) (*domain.PrivacySettings, error)
}

// JobServiceClient интерфейс клиента для JobService
type JobServiceClient interface {
	GetJobWithGracefulDegradation(ctx context.Context, jobID int64) (*jobservice.Job, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Broadcaster интерфейс для отправки событий бронирований
type Broadcaster interface {
	Emit(eventType realtime.EventType, userID int64, payload realtime.Payload)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
