package create_pattern

import (
	"context"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

type PatternService interface {
	Create(ctx context.Context, pattern *domain.RecurringPattern) (*domain.RecurringPattern, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
