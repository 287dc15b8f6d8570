package check_conflicts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/conflict"
	"github.com/m04kA/SMC-CalendarService/pkg/types"
)

type BookingService interface {
	CheckConflicts(ctx context.Context, userID int64, date time.Time, start, end types.TimeString, excludeBookingID *string) ([]conflict.Overlap, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
