package export_calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/service/export"
)

type ExportService interface {
	Export(ctx context.Context, userID int64, from, to time.Time, format export.Format) ([]byte, string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
