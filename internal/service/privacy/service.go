package privacy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	privacyRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/privacy"
)

// Service сервис настроек приватности календаря
type Service struct {
	repo   SettingsRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса приватности
func NewService(repo SettingsRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetSettings получает настройки приватности пользователя.
// Если пользователь никогда их не настраивал, возвращаются значения
// по умолчанию - календарь публичен, пока владелец не решит иначе.
func (s *Service) GetSettings(ctx context.Context, userID int64) (*domain.PrivacySettings, error) {
	settings, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, privacyRepo.ErrSettingsNotFound) {
			return domain.DefaultPrivacySettings(userID), nil
		}
		s.logger.Error("GetSettings: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}
	return settings, nil
}

// UpdateSettings сохраняет настройки приватности пользователя
func (s *Service) UpdateSettings(ctx context.Context, settings *domain.PrivacySettings) (*domain.PrivacySettings, error) {
	if err := validateSettings(settings); err != nil {
		s.logger.Warn("UpdateSettings: invalid settings for user=%d: %v", settings.UserID, err)
		return nil, err
	}

	if err := s.repo.Upsert(ctx, settings); err != nil {
		s.logger.Error("UpdateSettings: repository error for user=%d: %v", settings.UserID, err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: user=%d visibility=%s visible=%t", settings.UserID, settings.VisibilityLevel, settings.IsVisible)
	return settings, nil
}

func validateSettings(settings *domain.PrivacySettings) error {
	if !settings.VisibilityLevel.IsValid() {
		return fmt.Errorf("%w: unknown visibility level %q", ErrInvalidSettings, settings.VisibilityLevel)
	}
	if settings.LeadTimeHours < 0 {
		return fmt.Errorf("%w: leadTimeHours must not be negative", ErrInvalidSettings)
	}
	if settings.AdvanceBookingDays < 0 {
		return fmt.Errorf("%w: advanceBookingDays must not be negative", ErrInvalidSettings)
	}
	for _, d := range settings.HiddenDates {
		if _, err := time.Parse(domain.DateFormat, d); err != nil {
			return fmt.Errorf("%w: hidden date %q is not a valid date", ErrInvalidSettings, d)
		}
	}
	return nil
}
