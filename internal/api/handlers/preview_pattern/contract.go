package preview_pattern

import (
	"context"
	"time"

	patternsService "github.com/m04kA/SMC-CalendarService/internal/service/patterns"
)

type PatternService interface {
	Preview(ctx context.Context, userID int64, patternID string, from, to time.Time) (*patternsService.PreviewResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
