package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// validateRequest проверяет входные данные запроса
func validateRequest(req *Request) error {
	if req.OwnerID <= 0 {
		return fmt.Errorf("%w: ownerId must be positive", ErrInvalidInput)
	}
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientId must be positive", ErrInvalidInput)
	}
	if req.JobID <= 0 {
		return fmt.Errorf("%w: jobId must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start time %q", ErrInvalidInput, req.StartTime)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid end time %q", ErrInvalidInput, req.EndTime)
	}
	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

// validateBookingWindow проверяет ограничения владельца на сроки бронирования:
// минимальный lead time и максимальную глубину бронирования вперёд.
func validateBookingWindow(req *Request, now time.Time, settings *domain.PrivacySettings) error {
	startMinutes, err := req.StartTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid start time %q", ErrInvalidInput, req.StartTime)
	}
	slotStart := domain.DateOnly(req.Date).Add(time.Duration(startMinutes) * time.Minute)

	if settings.LeadTimeHours > 0 {
		earliest := now.Add(time.Duration(settings.LeadTimeHours) * time.Hour)
		if slotStart.Before(earliest) {
			return fmt.Errorf("%w: requires %d hours notice", ErrTooLateToBook, settings.LeadTimeHours)
		}
	}

	// 0 = без ограничения глубины
	if settings.AdvanceBookingDays > 0 {
		latest := domain.DateOnly(now).AddDate(0, 0, settings.AdvanceBookingDays)
		if domain.DateOnly(req.Date).After(latest) {
			return fmt.Errorf("%w: limit is %d days ahead", ErrDateTooFarInFuture, settings.AdvanceBookingDays)
		}
	}

	return nil
}
