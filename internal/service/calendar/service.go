package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-CalendarService/internal/realtime"
)

// Service сервис модели слотов и записей календаря
type Service struct {
	repo        CalendarRepository
	txManager   TransactionManager
	broadcaster Broadcaster
	logger      Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(repo CalendarRepository, txManager TransactionManager, broadcaster Broadcaster, logger Logger) *Service {
	return &Service{
		repo:        repo,
		txManager:   txManager,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// GetEntriesInRange получает записи календаря владельца за период.
// Чистое чтение без побочных эффектов.
func (s *Service) GetEntriesInRange(ctx context.Context, userID int64, from, to time.Time) ([]*domain.CalendarEntry, error) {
	rng := domain.DateRange{From: from, To: to}
	if !rng.IsValid() {
		return nil, ErrInvalidRange
	}

	entries, err := s.repo.GetEntries(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("GetEntriesInRange: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetEntriesInRange - repository error: %v", ErrInternal, err)
	}

	return entries, nil
}

// SetTimeSlots заменяет слоты записи на дату (операция upsertEntry).
// Каждый слот валидируется; все нарушения собираются в одну ValidationError.
// Пересекающиеся слоты отклоняют запись целиком с ErrOverlap.
func (s *Service) SetTimeSlots(ctx context.Context, userID int64, date time.Time, slots []domain.TimeSlot, notes *string) (*domain.CalendarEntry, error) {
	s.logger.Info("SetTimeSlots: user=%d date=%s slots=%d", userID, date.Format(domain.DateFormat), len(slots))

	// Новым слотам присваиваем идентификаторы
	for i := range slots {
		if slots[i].ID == "" {
			slots[i].ID = uuid.NewString()
		}
	}

	if err := ValidateSlots(slots); err != nil {
		s.logger.Warn("SetTimeSlots: validation failed for user=%d date=%s: %v", userID, date.Format(domain.DateFormat), err)
		return nil, err
	}

	domain.SortSlots(slots)

	if err := CheckOverlaps(slots); err != nil {
		s.logger.Warn("SetTimeSlots: overlap for user=%d date=%s: %v", userID, date.Format(domain.DateFormat), err)
		return nil, err
	}

	entry := &domain.CalendarEntry{
		UserID: userID,
		Date:   domain.DateOnly(date),
		Slots:  slots,
		Status: domain.DeriveStatus(slots),
		Notes:  notes,
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Сохраняем связь с паттерном, если запись была материализована из него
		existing, err := s.repo.GetEntry(txCtx, userID, date)
		if err != nil && !errors.Is(err, calendarRepo.ErrEntryNotFound) {
			return fmt.Errorf("%w: SetTimeSlots - get existing entry: %v", ErrInternal, err)
		}
		if existing != nil {
			entry.IsRecurring = existing.IsRecurring
			entry.PatternID = existing.PatternID
			if notes == nil {
				entry.Notes = existing.Notes
			}
		}

		if err := s.repo.UpsertEntry(txCtx, entry); err != nil {
			return fmt.Errorf("%w: SetTimeSlots - upsert entry: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("SetTimeSlots: failed for user=%d date=%s: %v", userID, date.Format(domain.DateFormat), err)
		return nil, err
	}

	s.broadcaster.Emit(realtime.EventAvailabilityUpdated, userID, realtime.AvailabilityPayload{
		Date:      entry.Date.Format(domain.DateFormat),
		Status:    entry.Status,
		SlotCount: len(entry.Slots),
	})

	s.logger.Info("SetTimeSlots: user=%d date=%s status=%s", userID, entry.Date.Format(domain.DateFormat), entry.Status)
	return entry, nil
}

// UpdateAvailability обновляет дневную доступность без перечисления слотов:
// available=false блокирует день (слоты снимаются), заметки обновляются,
// статус выводится заново.
func (s *Service) UpdateAvailability(ctx context.Context, userID int64, date time.Time, available *bool, notes *string) (*domain.CalendarEntry, error) {
	s.logger.Info("UpdateAvailability: user=%d date=%s", userID, date.Format(domain.DateFormat))

	var entry *domain.CalendarEntry

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetEntry(txCtx, userID, date)
		if err != nil && !errors.Is(err, calendarRepo.ErrEntryNotFound) {
			return fmt.Errorf("%w: UpdateAvailability - get entry: %v", ErrInternal, err)
		}
		if existing == nil {
			existing = &domain.CalendarEntry{
				UserID: userID,
				Date:   domain.DateOnly(date),
				Slots:  []domain.TimeSlot{},
			}
		}

		if available != nil && !*available {
			existing.Slots = []domain.TimeSlot{}
			existing.IsRecurring = false
			existing.PatternID = nil
		}
		if notes != nil {
			existing.Notes = notes
		}
		existing.Status = domain.DeriveStatus(existing.Slots)

		if err := s.repo.UpsertEntry(txCtx, existing); err != nil {
			return fmt.Errorf("%w: UpdateAvailability - upsert entry: %v", ErrInternal, err)
		}

		entry = existing
		return nil
	})
	if err != nil {
		s.logger.Error("UpdateAvailability: failed for user=%d date=%s: %v", userID, date.Format(domain.DateFormat), err)
		return nil, err
	}

	s.broadcaster.Emit(realtime.EventAvailabilityUpdated, userID, realtime.AvailabilityPayload{
		Date:      entry.Date.Format(domain.DateFormat),
		Status:    entry.Status,
		SlotCount: len(entry.Slots),
	})

	return entry, nil
}
