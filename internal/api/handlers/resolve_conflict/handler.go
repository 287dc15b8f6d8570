package resolve_conflict

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/api/middleware"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	bookingsService "github.com/m04kA/SMC-CalendarService/internal/service/bookings"
)

const (
	msgInvalidUserID      = "некорректный идентификатор пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgConflictNotFound   = "конфликт не найден"
	msgInvalidAction      = "неизвестное действие разрешения конфликта"
	msgPermissionDenied   = "нет доступа к этому конфликту"
)

// ResolveConflictRequest HTTP модель запроса разрешения конфликта
type ResolveConflictRequest struct {
	Action string `json:"action"`
}

// ConflictResponse HTTP модель конфликта бронирований
type ConflictResponse struct {
	ID                   string  `json:"id"`
	Type                 string  `json:"conflictType"`
	PrimaryBookingID     string  `json:"primaryBookingId"`
	ConflictingBookingID string  `json:"conflictingBookingId"`
	Date                 string  `json:"date"`
	StartTime            string  `json:"startTime"`
	EndTime              string  `json:"endTime"`
	ResolutionStatus     string  `json:"resolutionStatus"`
	ResolutionAction     *string `json:"resolutionAction,omitempty"`
	ResolvedAt           *string `json:"resolvedAt,omitempty"`
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

// Handle POST /api/v1/users/{userId}/conflicts/{conflictId}/resolve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ownerID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil || ownerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}
	conflictID := vars["conflictId"]

	authUserID, _ := middleware.UserIDFromContext(r.Context())
	if authUserID != ownerID {
		h.logger.Warn("POST /users/%d/conflicts/%s/resolve - forbidden for user=%d", ownerID, conflictID, authUserID)
		handlers.RespondForbidden(w, msgPermissionDenied)
		return
	}

	var req ResolveConflictRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /users/%d/conflicts/%s/resolve - invalid body: %v", ownerID, conflictID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	bc, err := h.bookingSvc.ResolveConflict(r.Context(), ownerID, conflictID, domain.ResolutionAction(req.Action))
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrConflictNotFound):
			h.logger.Warn("POST /users/%d/conflicts/%s/resolve - not found", ownerID, conflictID)
			handlers.RespondNotFound(w, msgConflictNotFound)

		case errors.Is(err, bookingsService.ErrInvalidAction):
			h.logger.Warn("POST /users/%d/conflicts/%s/resolve - invalid action %q", ownerID, conflictID, req.Action)
			handlers.RespondBadRequest(w, msgInvalidAction)

		case errors.Is(err, bookingsService.ErrPermissionDenied):
			h.logger.Warn("POST /users/%d/conflicts/%s/resolve - permission denied", ownerID, conflictID)
			handlers.RespondForbidden(w, msgPermissionDenied)

		default:
			h.logger.Error("POST /users/%d/conflicts/%s/resolve - failed: %v", ownerID, conflictID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /users/%d/conflicts/%s/resolve - action=%s status=%s", ownerID, conflictID, req.Action, bc.ResolutionStatus)
	handlers.RespondJSON(w, http.StatusOK, fromConflict(bc))
}

func fromConflict(bc *domain.BookingConflict) *ConflictResponse {
	resp := &ConflictResponse{
		ID:                   bc.ID,
		Type:                 string(bc.Type),
		PrimaryBookingID:     bc.PrimaryBookingID,
		ConflictingBookingID: bc.ConflictingBookingID,
		Date:                 bc.Date.Format(domain.DateFormat),
		StartTime:            bc.StartTime.String(),
		EndTime:              bc.EndTime.String(),
		ResolutionStatus:     string(bc.ResolutionStatus),
	}
	if bc.ResolutionAction != nil {
		action := string(*bc.ResolutionAction)
		resp.ResolutionAction = &action
	}
	if bc.ResolvedAt != nil {
		resolved := bc.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &resolved
	}
	return resp
}
