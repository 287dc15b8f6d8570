package update_privacy

import (
	"context"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

type PrivacyService interface {
	UpdateSettings(ctx context.Context, settings *domain.PrivacySettings) (*domain.PrivacySettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
