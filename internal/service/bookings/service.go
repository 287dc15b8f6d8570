package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/conflict"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/booking"
	calendarRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-CalendarService/internal/realtime"
	"github.com/m04kA/SMC-CalendarService/pkg/types"
)

// Service сервис жизненного цикла бронирований и конфликтов
type Service struct {
	bookings    BookingRepository
	calendar    CalendarRepository
	txManager   TransactionManager
	broadcaster Broadcaster
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookings BookingRepository, calendar CalendarRepository, txManager TransactionManager, broadcaster Broadcaster, logger Logger) *Service {
	return &Service{
		bookings:    bookings,
		calendar:    calendar,
		txManager:   txManager,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// GetBooking получает бронирование. Доступ есть у владельца календаря
// и у клиента бронирования.
func (s *Service) GetBooking(ctx context.Context, userID int64, bookingID string) (*domain.BookingReference, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID && booking.ClientID != userID {
		return nil, ErrPermissionDenied
	}
	return booking, nil
}

// ListBookings получает бронирования владельца, опционально по статусу
func (s *Service) ListBookings(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.BookingReference, error) {
	list, err := s.bookings.GetByUser(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookings - repository error: %v", ErrInternal, err)
	}
	return list, nil
}

// UpdateStatus переводит бронирование в новый статус по машине состояний:
// requested -> confirmed -> completed, requested/confirmed -> cancelled.
// Недопустимый переход отклоняется с ErrInvalidTransition. Отмена
// освобождает слот календаря.
func (s *Service) UpdateStatus(ctx context.Context, userID int64, bookingID string, next domain.BookingStatus, reason *string) (*domain.BookingReference, error) {
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID && booking.ClientID != userID {
		return nil, ErrPermissionDenied
	}

	if !booking.CanTransitionTo(next) {
		s.logger.Warn("UpdateStatus: booking=%s transition %s -> %s rejected", bookingID, booking.Status, next)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if next == domain.StatusCancelled {
			cancelReason := ""
			if reason != nil {
				cancelReason = *reason
			}
			if err := s.bookings.Cancel(txCtx, bookingID, cancelReason); err != nil {
				return s.wrapRepoErr("UpdateStatus - cancel booking", err)
			}
			return s.releaseSlot(txCtx, booking)
		}

		if err := s.bookings.UpdateStatus(txCtx, bookingID, next); err != nil {
			return s.wrapRepoErr("UpdateStatus - update status", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("UpdateStatus: booking=%s -> %s failed: %v", bookingID, next, err)
		return nil, err
	}

	updated, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.broadcaster.Emit(realtime.EventBookingUpdated, booking.UserID, realtime.BookingPayload{
		BookingID: updated.ID,
		JobID:     updated.JobID,
		Date:      updated.Date.Format(domain.DateFormat),
		StartTime: updated.StartTime.String(),
		EndTime:   updated.EndTime.String(),
		Status:    updated.Status,
	})

	s.logger.Info("UpdateStatus: booking=%s %s -> %s", bookingID, booking.Status, updated.Status)
	return updated, nil
}

// CheckConflicts проверяет кандидата бронирования против занятых слотов даты.
// Чистое чтение: конфликты не записываются.
func (s *Service) CheckConflicts(ctx context.Context, userID int64, date time.Time, start, end types.TimeString, excludeBookingID *string) ([]conflict.Overlap, error) {
	entry, err := s.calendar.GetEntry(ctx, userID, date)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrEntryNotFound) {
			return []conflict.Overlap{}, nil
		}
		return nil, fmt.Errorf("%w: CheckConflicts - read entry: %v", ErrInternal, err)
	}

	return conflict.Detect(conflict.Candidate{
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}, entry.BookedSlots(), excludeBookingID), nil
}

// ListConflicts получает записи конфликтов владельца
func (s *Service) ListConflicts(ctx context.Context, userID int64, pendingOnly bool) ([]*domain.BookingConflict, error) {
	list, err := s.bookings.GetConflictsByUser(ctx, userID, pendingOnly)
	if err != nil {
		return nil, fmt.Errorf("%w: ListConflicts - repository error: %v", ErrInternal, err)
	}
	return list, nil
}

// ResolveConflict разрешает зафиксированный конфликт. Действие auto_decline
// отменяет конфликтующее бронирование и освобождает его слот; manual_review
// и flexible_booking только помечают конфликт решённым.
func (s *Service) ResolveConflict(ctx context.Context, userID int64, conflictID string, action domain.ResolutionAction) (*domain.BookingConflict, error) {
	if !action.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	bc, err := s.bookings.GetConflictByID(ctx, conflictID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrConflictNotFound) {
			return nil, ErrConflictNotFound
		}
		return nil, fmt.Errorf("%w: ResolveConflict - get conflict: %v", ErrInternal, err)
	}
	if bc.UserID != userID {
		return nil, ErrPermissionDenied
	}
	if bc.ResolutionStatus == domain.ResolutionResolved {
		// Повторное разрешение - no-op
		return bc, nil
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if action == domain.ActionAutoDecline {
			losing, err := s.bookings.GetByID(txCtx, bc.ConflictingBookingID)
			if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return s.wrapRepoErr("ResolveConflict - get losing booking", err)
			}
			if losing != nil && losing.IsActive() {
				if err := s.bookings.Cancel(txCtx, losing.ID, "declined: conflicting booking"); err != nil {
					return s.wrapRepoErr("ResolveConflict - cancel losing booking", err)
				}
				if err := s.releaseSlot(txCtx, losing); err != nil {
					return err
				}
			}
		}

		if err := s.bookings.ResolveConflict(txCtx, conflictID, action); err != nil {
			return s.wrapRepoErr("ResolveConflict - mark resolved", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("ResolveConflict: conflict=%s action=%s failed: %v", conflictID, action, err)
		return nil, err
	}

	resolved, err := s.bookings.GetConflictByID(ctx, conflictID)
	if err != nil {
		return nil, fmt.Errorf("%w: ResolveConflict - reread conflict: %v", ErrInternal, err)
	}

	s.logger.Info("ResolveConflict: conflict=%s action=%s", conflictID, action)
	return resolved, nil
}

// releaseSlot освобождает слот отменённого бронирования через CAS по версии.
// Слот, на который после отмены не претендует другое активное бронирование,
// возвращается в available.
func (s *Service) releaseSlot(ctx context.Context, booking *domain.BookingReference) error {
	entry, err := s.calendar.GetEntry(ctx, booking.UserID, booking.Date)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrEntryNotFound) {
			return nil
		}
		return fmt.Errorf("%w: releaseSlot - read entry: %v", ErrInternal, err)
	}

	slot := entry.FindSlotByBooking(booking.ID)
	if slot == nil {
		return nil
	}

	err = s.calendar.UpdateSlotBooking(ctx, slot.ID, slot.Version, calendarRepo.SlotBookingUpdate{
		Status:   domain.SlotAvailable,
		IsBooked: false,
	})
	if err != nil {
		if errors.Is(err, calendarRepo.ErrVersionConflict) {
			return fmt.Errorf("%w: releaseSlot - slot changed concurrently", ErrVersionConflict)
		}
		if errors.Is(err, calendarRepo.ErrSlotNotFound) {
			return nil
		}
		return fmt.Errorf("%w: releaseSlot - update slot: %v", ErrInternal, err)
	}

	slot.ClearBooking()
	s.broadcaster.Emit(realtime.EventAvailabilityUpdated, booking.UserID, realtime.AvailabilityPayload{
		Date:      entry.Date.Format(domain.DateFormat),
		Status:    domain.DeriveStatus(entry.Slots),
		SlotCount: len(entry.Slots),
	})
	return nil
}

func (s *Service) getBooking(ctx context.Context, bookingID string) (*domain.BookingReference, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: getBooking - repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

func (s *Service) wrapRepoErr(step string, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return ErrBookingNotFound
	}
	if errors.Is(err, bookingRepo.ErrConflictNotFound) {
		return ErrConflictNotFound
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, step, err)
}
