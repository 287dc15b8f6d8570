package set_time_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

type CalendarService interface {
	SetTimeSlots(ctx context.Context, userID int64, date time.Time, slots []domain.TimeSlot, notes *string) (*domain.CalendarEntry, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
