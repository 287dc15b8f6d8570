package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-CalendarService/internal/realtime"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.BookingReference) (*domain.BookingReference, error)
	GetByID(ctx context.Context, id string) (*domain.BookingReference, error)
	GetByUser(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.BookingReference, error)
	GetActiveByDate(ctx context.Context, userID int64, date time.Time) ([]*domain.BookingReference, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
	Cancel(ctx context.Context, id string, reason string) error
	CreateConflict(ctx context.Context, c *domain.BookingConflict) (*domain.BookingConflict, error)
	GetConflictByID(ctx context.Context, id string) (*domain.BookingConflict, error)
	GetConflictsByUser(ctx context.Context, userID int64, pendingOnly bool) ([]*domain.BookingConflict, error)
	ResolveConflict(ctx context.Context, id string, action domain.ResolutionAction) error
}

// CalendarRepository интерфейс репозитория календаря для работы со слотами
type CalendarRepository interface {
	GetEntry(ctx context.Context, userID int64, date time.Time) (*domain.CalendarEntry, error)
	UpdateSlotBooking(ctx context.Context, slotID string, expectedVersion int64, update calendarRepo.SlotBookingUpdate) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Broadcaster интерфейс для отправки событий бронирований
type Broadcaster interface {
	Emit(eventType realtime.EventType, userID int64, payload realtime.Payload)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
