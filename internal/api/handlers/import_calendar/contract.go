package import_calendar

import (
	"context"

	"github.com/m04kA/SMC-CalendarService/internal/service/export"
)

type ImportService interface {
	Import(ctx context.Context, userID int64, format export.Format, data []byte) (*export.ImportResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
