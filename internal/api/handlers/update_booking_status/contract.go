package update_booking_status

import (
	"context"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

type BookingService interface {
	UpdateStatus(ctx context.Context, userID int64, bookingID string, next domain.BookingStatus, reason *string) (*domain.BookingReference, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
