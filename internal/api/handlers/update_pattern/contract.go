package update_pattern

import (
	"context"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

type PatternService interface {
	Update(ctx context.Context, userID int64, pattern *domain.RecurringPattern) (*domain.RecurringPattern, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
