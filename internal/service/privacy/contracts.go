package privacy

import (
	"context"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек приватности
type SettingsRepository interface {
	Get(ctx context.Context, userID int64) (*domain.PrivacySettings, error)
	Upsert(ctx context.Context, settings *domain.PrivacySettings) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
