package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/conflict"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/calendar"
	jobClient "github.com/m04kA/SMC-CalendarService/internal/integrations/jobservice"
	"github.com/m04kA/SMC-CalendarService/internal/realtime"
)

// UseCase use case создания бронирования слота
type UseCase struct {
	bookingRepo  BookingRepository
	calendarRepo CalendarRepository
	privacy      PrivacyReader
	jobClient    JobServiceClient
	txManager    TransactionManager
	broadcaster  Broadcaster
	timeProvider TimeProvider
	logger       Logger

	// autoDecline: пересечение с занятым слотом отклоняет запрос сразу,
	// вместо записи конфликта на ручной разбор
	autoDecline bool
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	calendarRepo CalendarRepository,
	privacy PrivacyReader,
	jobClient JobServiceClient,
	txManager TransactionManager,
	broadcaster Broadcaster,
	autoDecline bool,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		calendarRepo: calendarRepo,
		privacy:      privacy,
		jobClient:    jobClient,
		txManager:    txManager,
		broadcaster:  broadcaster,
		timeProvider: &RealTimeProvider{},
		autoDecline:  autoDecline,
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Использует сериализуемую транзакцию и CAS по версии слота для
// предотвращения двойного бронирования.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: owner=%d, client=%d, job=%d, date=%s, time=%s-%s",
		req.OwnerID, req.ClientID, req.JobID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Настройки приватности владельца: видимость и окно бронирования
	settings, err := uc.privacy.GetSettings(ctx, req.OwnerID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get privacy settings for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: failed to get privacy settings: %v", ErrInternal, err)
	}
	if !settings.AllowsViewer(req.ClientID) {
		uc.logger.Warn("CreateBooking: owner=%d is not bookable for client=%d", req.OwnerID, req.ClientID)
		return nil, ErrOwnerNotBookable
	}
	if err := validateBookingWindow(req, now, settings); err != nil {
		uc.logger.Warn("CreateBooking: booking window check failed: %v", err)
		return nil, err
	}

	// 3. Данные работы из JobService с graceful degradation
	jobTitle, clientName, rate, degraded, err := uc.resolveJob(ctx, req)
	if err != nil {
		return nil, err
	}

	var result *domain.BookingReference
	var conflicts []ConflictInfo

	// 4. Операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		entry, err := uc.calendarRepo.GetEntry(txCtx, req.OwnerID, req.Date)
		if err != nil {
			if errors.Is(err, calendarRepo.ErrEntryNotFound) {
				uc.logger.Warn("CreateBooking: no availability for owner=%d on %s", req.OwnerID, req.Date.Format(domain.DateFormat))
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to get entry: %v", err)
			return fmt.Errorf("%w: failed to get entry: %v", ErrInternal, err)
		}

		// 4.1. Проверка пересечений с уже занятыми слотами
		overlaps := conflict.Detect(conflict.Candidate{
			Date:      req.Date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
		}, entry.BookedSlots(), nil)

		// Политика auto-decline отклоняет любое пересечение с занятым
		// слотом, частичное в том числе
		if uc.autoDecline && len(overlaps) > 0 {
			uc.logger.Warn("CreateBooking: overlap with booked slot, auto-declining for owner=%d", req.OwnerID)
			return ErrBookingConflict
		}

		booking := &domain.BookingReference{
			ID:          uuid.NewString(),
			UserID:      req.OwnerID,
			JobID:       req.JobID,
			ClientID:    req.ClientID,
			ClientName:  clientName,
			Status:      domain.StatusRequested,
			Date:        domain.DateOnly(req.Date),
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			RatePerHour: rate,
			Notes:       req.Notes,
		}

		// 4.2. Занимаем слот
		if err := uc.claimSlot(txCtx, entry, booking, jobTitle); err != nil {
			return err
		}

		// 4.3. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		result = created

		// 4.4. Частичные пересечения фиксируем на ручной разбор
		for _, overlap := range overlaps {
			bc := &domain.BookingConflict{
				ID:                   uuid.NewString(),
				UserID:               req.OwnerID,
				Type:                 overlap.Type,
				PrimaryBookingID:     overlap.BookingID,
				ConflictingBookingID: created.ID,
				Date:                 domain.DateOnly(req.Date),
				StartTime:            overlap.StartTime,
				EndTime:              overlap.EndTime,
				ResolutionStatus:     domain.ResolutionPending,
			}
			if _, err := uc.bookingRepo.CreateConflict(txCtx, bc); err != nil {
				uc.logger.Error("CreateBooking: failed to record conflict: %v", err)
				return fmt.Errorf("%w: failed to record conflict: %v", ErrInternal, err)
			}
			conflicts = append(conflicts, ConflictInfo{
				ConflictID:           bc.ID,
				Type:                 bc.Type,
				ConflictingBookingID: bc.PrimaryBookingID,
				StartTime:            bc.StartTime,
				EndTime:              bc.EndTime,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s status=%s", result.ID, result.Status)

	// 5. События для подписчиков
	uc.broadcaster.Emit(realtime.EventBookingUpdated, req.OwnerID, realtime.BookingPayload{
		BookingID: result.ID,
		JobID:     result.JobID,
		Date:      result.Date.Format(domain.DateFormat),
		StartTime: result.StartTime.String(),
		EndTime:   result.EndTime.String(),
		Status:    result.Status,
	})
	for _, c := range conflicts {
		uc.broadcaster.Emit(realtime.EventConflictDetected, req.OwnerID, realtime.ConflictPayload{
			ConflictID:           c.ConflictID,
			Type:                 c.Type,
			PrimaryBookingID:     c.ConflictingBookingID,
			ConflictingBookingID: result.ID,
			Date:                 result.Date.Format(domain.DateFormat),
		})
	}

	return &Response{
		ID:          result.ID,
		Status:      result.Status,
		OwnerID:     result.UserID,
		ClientID:    result.ClientID,
		JobID:       result.JobID,
		Date:        result.Date,
		StartTime:   result.StartTime,
		EndTime:     result.EndTime,
		ClientName:  result.ClientName,
		RatePerHour: result.RatePerHour,
		Notes:       result.Notes,
		Degraded:    degraded,
		Conflicts:   conflicts,
		CreatedAt:   result.CreatedAt,
	}, nil
}

// resolveJob получает данные работы из JobService. При деградации сервиса
// бронирование создаётся с fallback-данными из запроса, без названия работы.
func (uc *UseCase) resolveJob(ctx context.Context, req *Request) (jobTitle, clientName string, rate float64, degraded bool, err error) {
	job, err := uc.jobClient.GetJobWithGracefulDegradation(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, jobClient.ErrJobNotFound) {
			uc.logger.Warn("CreateBooking: job id=%d not found", req.JobID)
			return "", "", 0, false, ErrJobNotFound
		}
		if errors.Is(err, jobClient.ErrServiceDegraded) {
			uc.logger.Warn("CreateBooking: JobService degraded, using request fallback for job=%d", req.JobID)
			if req.ClientName != nil {
				clientName = *req.ClientName
			}
			if req.RatePerHour != nil {
				rate = *req.RatePerHour
			}
			return "", clientName, rate, true, nil
		}
		uc.logger.Error("CreateBooking: failed to get job id=%d: %v", req.JobID, err)
		return "", "", 0, false, fmt.Errorf("%w: failed to get job: %v", ErrInternal, err)
	}
	return job.Title, job.ClientName, job.RatePerHour, false, nil
}

// claimSlot занимает слот под бронирование. Точно совпадающий свободный слот
// переводится в booked через CAS по версии; свободный промежуток без
// пересечений добавляется новым слотом. Частичное накрытие свободного слота
// отклоняется, чтобы не ломать инвариант непересекающихся слотов дня.
func (uc *UseCase) claimSlot(ctx context.Context, entry *domain.CalendarEntry, booking *domain.BookingReference, jobTitle string) error {
	candidate := domain.TimeSlot{StartTime: booking.StartTime, EndTime: booking.EndTime}
	overlapsBooked := false

	var titlePtr *string
	if jobTitle != "" {
		titlePtr = &jobTitle
	}

	for i := range entry.Slots {
		slot := &entry.Slots[i]
		if !slot.Overlaps(&candidate) {
			continue
		}
		if slot.IsBooked {
			// Уже учтено детектором конфликтов
			overlapsBooked = true
			continue
		}
		if !slot.SameRange(&candidate) {
			return fmt.Errorf("%w: %s-%s partially covers free slot %s-%s",
				ErrInvalidTimeSlot, candidate.StartTime, candidate.EndTime, slot.StartTime, slot.EndTime)
		}

		err := uc.calendarRepo.UpdateSlotBooking(ctx, slot.ID, slot.Version, calendarRepo.SlotBookingUpdate{
			Status:      domain.SlotBooked,
			IsBooked:    true,
			BookingID:   &booking.ID,
			JobID:       &booking.JobID,
			JobTitle:    titlePtr,
			ClientName:  &booking.ClientName,
			RatePerHour: &booking.RatePerHour,
		})
		if err != nil {
			if errors.Is(err, calendarRepo.ErrVersionConflict) {
				uc.logger.Warn("CreateBooking: lost slot race for slot=%s", slot.ID)
				return ErrBookingConflict
			}
			if errors.Is(err, calendarRepo.ErrSlotNotFound) {
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to claim slot=%s: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to claim slot: %v", ErrInternal, err)
		}
		return nil
	}

	// Кандидат пересекается с занятым слотом: бронирование записывается
	// без захвата слота, конфликт уходит на ручной разбор
	if overlapsBooked {
		return nil
	}

	// Свободного слота под кандидата нет - добавляем новый занятый слот
	newSlot := domain.TimeSlot{
		ID:          uuid.NewString(),
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		Status:      domain.SlotBooked,
		IsBooked:    true,
		BookingID:   &booking.ID,
		JobID:       &booking.JobID,
		JobTitle:    titlePtr,
		ClientName:  &booking.ClientName,
		RatePerHour: &booking.RatePerHour,
	}
	entry.Slots = append(entry.Slots, newSlot)
	domain.SortSlots(entry.Slots)
	entry.Status = domain.DeriveStatus(entry.Slots)

	if err := uc.calendarRepo.UpsertEntry(ctx, entry); err != nil {
		uc.logger.Error("CreateBooking: failed to upsert entry with new slot: %v", err)
		return fmt.Errorf("%w: failed to upsert entry: %v", ErrInternal, err)
	}
	return nil
}
