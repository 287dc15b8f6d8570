package get_calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

type CalendarService interface {
	GetEntriesInRange(ctx context.Context, userID int64, from, to time.Time) ([]*domain.CalendarEntry, error)
}

type PrivacyService interface {
	GetSettings(ctx context.Context, userID int64) (*domain.PrivacySettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
