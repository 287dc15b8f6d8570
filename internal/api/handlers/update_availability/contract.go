package update_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

type CalendarService interface {
	UpdateAvailability(ctx context.Context, userID int64, date time.Time, available *bool, notes *string) (*domain.CalendarEntry, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
