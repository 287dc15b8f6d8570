package create_booking

import (
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	OwnerID   int64            // ID владельца календаря
	ClientID  int64            // ID клиента, создающего бронирование
	JobID     int64            // ID работы в JobService
	Date      time.Time        // Дата бронирования (без времени)
	StartTime types.TimeString // Время начала (например, "10:00")
	EndTime   types.TimeString // Время окончания
	Notes     *string          // Дополнительные заметки (опционально)

	// Fallback-данные на случай деградации JobService
	ClientName  *string
	RatePerHour *float64
}

// ConflictInfo зафиксированное частичное пересечение с другим бронированием
type ConflictInfo struct {
	ConflictID           string
	Type                 domain.ConflictType
	ConflictingBookingID string
	StartTime            types.TimeString
	EndTime              types.TimeString
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID     string
	Status domain.BookingStatus

	OwnerID  int64
	ClientID int64
	JobID    int64

	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	ClientName  string
	RatePerHour float64
	Notes       *string

	// Деградация JobService: данные взяты из запроса, а не из сервиса
	Degraded bool

	// Частичные пересечения, записанные на ручной разбор
	Conflicts []ConflictInfo

	CreatedAt time.Time
}
