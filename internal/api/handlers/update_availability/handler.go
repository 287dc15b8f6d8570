package update_availability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/api/middleware"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

const (
	msgInvalidUserID      = "некорректный идентификатор пользователя"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgPermissionDenied   = "нет доступа к чужому календарю"
)

// UpdateAvailabilityRequest HTTP модель запроса дневной доступности
type UpdateAvailabilityRequest struct {
	Available *bool   `json:"available,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// AvailabilityResponse HTTP модель ответа
type AvailabilityResponse struct {
	Date      string  `json:"date"`
	Status    string  `json:"status"`
	SlotCount int     `json:"slotCount"`
	Notes     *string `json:"notes,omitempty"`
}

type Handler struct {
	calendarSvc CalendarService
	logger      Logger
}

func NewHandler(calendarSvc CalendarService, logger Logger) *Handler {
	return &Handler{
		calendarSvc: calendarSvc,
		logger:      logger,
	}
}

// Handle PATCH /api/v1/users/{userId}/calendar/{date}
// available=false блокирует день целиком, слоты снимаются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ownerID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil || ownerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	authUserID, _ := middleware.UserIDFromContext(r.Context())
	if authUserID != ownerID {
		handlers.RespondForbidden(w, msgPermissionDenied)
		return
	}

	date, err := time.Parse(domain.DateFormat, vars["date"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req UpdateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /users/%d/calendar/%s - invalid body: %v", ownerID, vars["date"], err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	entry, err := h.calendarSvc.UpdateAvailability(r.Context(), ownerID, date, req.Available, req.Notes)
	if err != nil {
		h.logger.Error("PATCH /users/%d/calendar/%s - failed: %v", ownerID, vars["date"], err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /users/%d/calendar/%s - status=%s", ownerID, vars["date"], entry.Status)
	handlers.RespondJSON(w, http.StatusOK, &AvailabilityResponse{
		Date:      entry.Date.Format(domain.DateFormat),
		Status:    string(entry.Status),
		SlotCount: len(entry.Slots),
		Notes:     entry.Notes,
	})
}
