package update_booking_status

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/api/middleware"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	bookingsService "github.com/m04kA/SMC-CalendarService/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookingNotFound    = "бронирование не найдено"
	msgInvalidTransition  = "недопустимый переход статуса бронирования"
	msgPermissionDenied   = "нет доступа к этому бронированию"
	msgVersionConflict    = "слот изменился, повторите запрос"
)

// UpdateStatusRequest HTTP модель запроса смены статуса
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

// BookingStatusResponse HTTP модель бронирования после смены статуса
type BookingStatusResponse struct {
	ID                 string  `json:"id"`
	Status             string  `json:"status"`
	Date               string  `json:"date"`
	StartTime          string  `json:"startTime"`
	EndTime            string  `json:"endTime"`
	ConfirmedAt        *string `json:"confirmedAt,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	UpdatedAt          string  `json:"updatedAt"`
}

type Handler struct {
	bookingSvc BookingService
	logger     Logger
}

func NewHandler(bookingSvc BookingService, logger Logger) *Handler {
	return &Handler{
		bookingSvc: bookingSvc,
		logger:     logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
// Переходы ограничены машиной состояний; отмена освобождает слот.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/%s/status - invalid body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.bookingSvc.UpdateStatus(r.Context(), userID, bookingID, domain.BookingStatus(req.Status), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/%s/status - not found", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookingsService.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/%s/status - invalid transition to %q", bookingID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidTransition)

		case errors.Is(err, bookingsService.ErrPermissionDenied):
			h.logger.Warn("PATCH /bookings/%s/status - permission denied for user=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgPermissionDenied)

		case errors.Is(err, bookingsService.ErrVersionConflict):
			h.logger.Warn("PATCH /bookings/%s/status - version conflict", bookingID)
			handlers.RespondConflict(w, msgVersionConflict)

		default:
			h.logger.Error("PATCH /bookings/%s/status - failed: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/%s/status - now %s", bookingID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, fromBooking(booking))
}

func fromBooking(b *domain.BookingReference) *BookingStatusResponse {
	resp := &BookingStatusResponse{
		ID:                 b.ID,
		Status:             string(b.Status),
		Date:               b.Date.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		CancellationReason: b.CancellationReason,
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}
	if b.ConfirmedAt != nil {
		formatted := b.ConfirmedAt.Format(time.RFC3339)
		resp.ConfirmedAt = &formatted
	}
	if b.CancelledAt != nil {
		formatted := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &formatted
	}
	return resp
}
