package patterns

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/conflict"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	patternRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/pattern"
	"github.com/m04kA/SMC-CalendarService/internal/recurrence"
)

// Service сервис повторяющихся паттернов доступности
type Service struct {
	patterns  PatternRepository
	calendar  CalendarRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса паттернов
func NewService(patterns PatternRepository, calendar CalendarRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		patterns:  patterns,
		calendar:  calendar,
		txManager: txManager,
		logger:    logger,
	}
}

// Create создает новый паттерн после валидации определения
func (s *Service) Create(ctx context.Context, pattern *domain.RecurringPattern) (*domain.RecurringPattern, error) {
	if err := ValidatePattern(pattern); err != nil {
		s.logger.Warn("Create: invalid pattern for user=%d: %v", pattern.UserID, err)
		return nil, err
	}

	if pattern.ID == "" {
		pattern.ID = uuid.NewString()
	}
	pattern.IsActive = true

	if _, err := s.patterns.Create(ctx, pattern); err != nil {
		s.logger.Error("Create: repository error for user=%d: %v", pattern.UserID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: pattern=%s user=%d type=%s", pattern.ID, pattern.UserID, pattern.Type)
	return pattern, nil
}

// Get получает паттерн по идентификатору с проверкой владельца
func (s *Service) Get(ctx context.Context, userID int64, patternID string) (*domain.RecurringPattern, error) {
	pattern, err := s.patterns.GetByID(ctx, patternID)
	if err != nil {
		if errors.Is(err, patternRepo.ErrPatternNotFound) {
			return nil, ErrPatternNotFound
		}
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	if pattern.UserID != userID {
		return nil, ErrPermissionDenied
	}
	return pattern, nil
}

// Update обновляет определение паттерна. Ранее материализованные записи
// календаря не трогаются - изменение влияет только на будущие применения.
func (s *Service) Update(ctx context.Context, userID int64, pattern *domain.RecurringPattern) (*domain.RecurringPattern, error) {
	existing, err := s.Get(ctx, userID, pattern.ID)
	if err != nil {
		return nil, err
	}

	if err := ValidatePattern(pattern); err != nil {
		s.logger.Warn("Update: invalid pattern=%s: %v", pattern.ID, err)
		return nil, err
	}

	pattern.UserID = existing.UserID
	pattern.CreatedAt = existing.CreatedAt

	if err := s.patterns.Update(ctx, pattern); err != nil {
		if errors.Is(err, patternRepo.ErrPatternNotFound) {
			return nil, ErrPatternNotFound
		}
		s.logger.Error("Update: repository error for pattern=%s: %v", pattern.ID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: pattern=%s user=%d", pattern.ID, userID)
	return pattern, nil
}

// Delete удаляет паттерн и отвязывает материализованные записи календаря.
// Слоты записей остаются нетронутыми - снимается только связь с паттерном.
func (s *Service) Delete(ctx context.Context, userID int64, patternID string) error {
	if _, err := s.Get(ctx, userID, patternID); err != nil {
		return err
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.calendar.DetachPattern(txCtx, patternID); err != nil {
			return fmt.Errorf("%w: Delete - detach entries: %v", ErrInternal, err)
		}
		if err := s.patterns.Delete(txCtx, patternID); err != nil {
			if errors.Is(err, patternRepo.ErrPatternNotFound) {
				return ErrPatternNotFound
			}
			return fmt.Errorf("%w: Delete - delete pattern: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Delete: failed for pattern=%s user=%d: %v", patternID, userID, err)
		return err
	}

	s.logger.Info("Delete: pattern=%s user=%d", patternID, userID)
	return nil
}

// ListActive возвращает все активные паттерны (используется фоновым воркером)
func (s *Service) ListActive(ctx context.Context) ([]*domain.RecurringPattern, error) {
	list, err := s.patterns.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}
	return list, nil
}

// Preview проецирует паттерн на диапазон дат без записи и сверяет проекцию
// с уже занятыми слотами. Использует ту же проекцию, что и применение
// паттерна, поэтому предпросмотр не может разойтись с реальным результатом.
func (s *Service) Preview(ctx context.Context, userID int64, patternID string, from, to time.Time) (*PreviewResult, error) {
	pattern, err := s.Get(ctx, userID, patternID)
	if err != nil {
		return nil, err
	}

	days, dateErrs, err := recurrence.Project(pattern, domain.DateRange{From: from, To: to})
	if err != nil {
		if errors.Is(err, recurrence.ErrInvalidRange) || errors.Is(err, recurrence.ErrRangeTooLong) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
		}
		return nil, fmt.Errorf("%w: Preview - projection error: %v", ErrInternal, err)
	}

	entries, err := s.calendar.GetEntries(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("Preview: calendar read failed for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: Preview - calendar read: %v", ErrInternal, err)
	}

	bookedByDate := make(map[string][]domain.TimeSlot, len(entries))
	for _, entry := range entries {
		booked := entry.BookedSlots()
		if len(booked) > 0 {
			bookedByDate[entry.Date.Format(domain.DateFormat)] = booked
		}
	}

	result := &PreviewResult{
		Dates:     make([]PreviewDay, 0, len(days)),
		Conflicts: make([]PreviewConflict, 0),
		Errors:    make([]string, 0, len(dateErrs)),
	}

	for _, day := range days {
		dateKey := day.Date.Format(domain.DateFormat)
		result.Dates = append(result.Dates, PreviewDay{Date: dateKey, Slots: day.Slots})

		booked := bookedByDate[dateKey]
		if len(booked) == 0 {
			continue
		}
		for _, slot := range day.Slots {
			overlaps := conflict.Detect(conflict.Candidate{
				Date:      day.Date,
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
			}, booked, nil)
			for _, overlap := range overlaps {
				result.Conflicts = append(result.Conflicts, PreviewConflict{Date: dateKey, Overlap: overlap})
			}
		}
	}

	for _, dateErr := range dateErrs {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", dateErr.Date.Format(domain.DateFormat), dateErr.Err))
	}

	s.logger.Info("Preview: pattern=%s user=%d dates=%d conflicts=%d", patternID, userID, len(result.Dates), len(result.Conflicts))
	return result, nil
}
