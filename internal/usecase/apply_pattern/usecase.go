package apply_pattern

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CalendarService/internal/conflict"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/calendar"
	patternRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/pattern"
	"github.com/m04kA/SMC-CalendarService/internal/realtime"
	"github.com/m04kA/SMC-CalendarService/internal/recurrence"
)

// UseCase use case применения паттерна к диапазону дат
type UseCase struct {
	patternRepo  PatternRepository
	calendarRepo CalendarRepository
	txManager    TransactionManager
	broadcaster  Broadcaster
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	patternRepo PatternRepository,
	calendarRepo CalendarRepository,
	txManager TransactionManager,
	broadcaster Broadcaster,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		patternRepo:  patternRepo,
		calendarRepo: calendarRepo,
		txManager:    txManager,
		broadcaster:  broadcaster,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute применяет паттерн к диапазону дат. Каждая дата - независимая
// транзакционная единица: ошибка одной даты попадает в Result.Errors и не
// откатывает остальные. Повторный запуск с теми же аргументами идемпотентен.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Result, error) {
	uc.logger.Info("ApplyPattern: user=%d pattern=%s range=%s..%s overwrite=%t skipConflicts=%t",
		req.UserID, req.PatternID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat),
		req.OverwriteExisting, req.SkipConflicts)

	if req.PatternID == "" {
		return nil, fmt.Errorf("%w: patternId is required", ErrInvalidInput)
	}

	pattern, err := uc.patternRepo.GetByID(ctx, req.PatternID)
	if err != nil {
		if errors.Is(err, patternRepo.ErrPatternNotFound) {
			return nil, ErrPatternNotFound
		}
		uc.logger.Error("ApplyPattern: failed to get pattern=%s: %v", req.PatternID, err)
		return nil, fmt.Errorf("%w: failed to get pattern: %v", ErrInternal, err)
	}
	if pattern.UserID != req.UserID {
		return nil, ErrPermissionDenied
	}
	if !pattern.IsActive {
		return nil, ErrPatternInactive
	}

	days, dateErrs, err := recurrence.Project(pattern, domain.DateRange{From: req.From, To: req.To})
	if err != nil {
		if errors.Is(err, recurrence.ErrInvalidRange) || errors.Is(err, recurrence.ErrRangeTooLong) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
		}
		return nil, fmt.Errorf("%w: projection failed: %v", ErrInternal, err)
	}

	result := &Result{
		PatternID:    req.PatternID,
		AppliedDates: make([]string, 0, len(days)),
		SkippedDates: make([]SkippedDate, 0),
		Errors:       make([]string, 0, len(dateErrs)),
	}
	for _, dateErr := range dateErrs {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", dateErr.Date.Format(domain.DateFormat), dateErr.Err))
	}

	for _, day := range days {
		// Отмена контекста прерывает обработку между единицами,
		// уже записанные даты остаются
		if ctxErr := ctx.Err(); ctxErr != nil {
			uc.logger.Warn("ApplyPattern: cancelled after %d dates: %v", len(result.AppliedDates), ctxErr)
			return result, fmt.Errorf("%w: cancelled: %v", ErrInternal, ctxErr)
		}

		uc.applyDay(ctx, req, pattern, day, result)
	}

	uc.broadcaster.Emit(realtime.EventPatternApplied, req.UserID, realtime.PatternPayload{
		PatternID:    req.PatternID,
		AppliedDates: result.AppliedDates,
		SkippedDates: skippedDateKeys(result.SkippedDates),
	})

	uc.logger.Info("ApplyPattern: pattern=%s applied=%d skipped=%d errors=%d",
		req.PatternID, len(result.AppliedDates), len(result.SkippedDates), len(result.Errors))
	return result, nil
}

// applyDay обрабатывает одну дату в собственной транзакции
func (uc *UseCase) applyDay(ctx context.Context, req *Request, pattern *domain.RecurringPattern, day recurrence.ProjectedDay, result *Result) {
	dateKey := day.Date.Format(domain.DateFormat)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		existing, err := uc.calendarRepo.GetEntry(txCtx, req.UserID, day.Date)
		if err != nil && !errors.Is(err, calendarRepo.ErrEntryNotFound) {
			return fmt.Errorf("read entry: %v", err)
		}

		slots := day.Slots

		if existing != nil {
			booked := existing.BookedSlots()

			// skipConflicts имеет приоритет над overwriteExisting
			if req.SkipConflicts && hasBookedConflict(day, booked) {
				result.SkippedDates = append(result.SkippedDates, SkippedDate{Date: dateKey, Reason: ReasonConflict})
				uc.skipped()
				return nil
			}

			if !req.OverwriteExisting && len(existing.Slots) > 0 {
				result.SkippedDates = append(result.SkippedDates, SkippedDate{Date: dateKey, Reason: ReasonExisting})
				uc.skipped()
				return nil
			}

			// Перезапись сохраняет занятые слоты: проекция добавляется
			// только там, где не накрывает бронирования
			slots = mergeWithBooked(day.Slots, booked)

			// Повторное применение без изменений - no-op
			if sameSlotSet(existing.Slots, slots) {
				result.AppliedDates = append(result.AppliedDates, dateKey)
				uc.applied()
				return nil
			}
		}

		entry := &domain.CalendarEntry{
			UserID:      req.UserID,
			Date:        day.Date,
			Slots:       slots,
			Status:      domain.DeriveStatus(slots),
			IsRecurring: true,
			PatternID:   &pattern.ID,
		}
		if existing != nil {
			entry.Notes = existing.Notes
		}

		if err := uc.calendarRepo.UpsertEntry(txCtx, entry); err != nil {
			return fmt.Errorf("upsert entry: %v", err)
		}

		result.AppliedDates = append(result.AppliedDates, dateKey)
		uc.applied()
		return nil
	})
	if err != nil {
		uc.logger.Error("ApplyPattern: date %s failed: %v", dateKey, err)
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", dateKey, err))
	}
}

// hasBookedConflict проверяет, пересекается ли проекция с занятыми слотами
func hasBookedConflict(day recurrence.ProjectedDay, booked []domain.TimeSlot) bool {
	for i := range day.Slots {
		overlaps := conflict.Detect(conflict.Candidate{
			Date:      day.Date,
			StartTime: day.Slots[i].StartTime,
			EndTime:   day.Slots[i].EndTime,
		}, booked, nil)
		if len(overlaps) > 0 {
			return true
		}
	}
	return false
}

// mergeWithBooked собирает итоговый набор слотов перезаписи: занятые слоты
// сохраняются, из проекции берутся только не накрывающие их слоты
func mergeWithBooked(projected, booked []domain.TimeSlot) []domain.TimeSlot {
	merged := make([]domain.TimeSlot, 0, len(projected)+len(booked))
	merged = append(merged, booked...)

	for i := range projected {
		keep := true
		for j := range booked {
			if projected[i].Overlaps(&booked[j]) {
				keep = false
				break
			}
		}
		if keep {
			merged = append(merged, projected[i])
		}
	}

	domain.SortSlots(merged)
	return merged
}

// sameSlotSet сравнивает наборы слотов по (start, end, status).
// Идентификаторы не участвуют: проекция генерирует их заново каждый раз.
func sameSlotSet(a, b []domain.TimeSlot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].StartTime != b[i].StartTime || a[i].EndTime != b[i].EndTime || a[i].Status != b[i].Status {
			return false
		}
	}
	return true
}

func skippedDateKeys(skipped []SkippedDate) []string {
	keys := make([]string, 0, len(skipped))
	for _, s := range skipped {
		keys = append(keys, s.Date)
	}
	return keys
}

func (uc *UseCase) applied() {
	if uc.metrics != nil {
		uc.metrics.PatternDateApplied()
	}
}

func (uc *UseCase) skipped() {
	if uc.metrics != nil {
		uc.metrics.PatternDateSkipped()
	}
}
