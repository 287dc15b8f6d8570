package get_privacy

import (
	"context"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

type PrivacyService interface {
	GetSettings(ctx context.Context, userID int64) (*domain.PrivacySettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
