package set_time_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/api/middleware"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	calendarService "github.com/m04kA/SMC-CalendarService/internal/service/calendar"
)

const (
	msgInvalidUserID      = "некорректный идентификатор пользователя"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgSlotsOverlap       = "временные слоты пересекаются"
	msgPermissionDenied   = "нет доступа к чужому календарю"
)

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

// Handle PUT /api/v1/users/{userId}/calendar/{date}/slots
// Заменяет слоты даты целиком. Валидация собирает все нарушения,
// пересечение слотов отклоняет запрос с 400.
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

	var req SetTimeSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /users/%d/calendar/%s/slots - invalid body: %v", ownerID, vars["date"], err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slots, err := req.ToDomainSlots()
	if err != nil {
		h.logger.Warn("PUT /users/%d/calendar/%s/slots - invalid time: %v", ownerID, vars["date"], err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	entry, err := h.calendarSvc.SetTimeSlots(r.Context(), ownerID, date, slots, req.Notes)
	if err != nil {
		if validationErr, ok := calendarService.AsValidationError(err); ok {
			h.logger.Warn("PUT /users/%d/calendar/%s/slots - validation: %v", ownerID, vars["date"], err)
			handlers.RespondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"code":       http.StatusBadRequest,
				"message":    "ошибки валидации слотов",
				"violations": validationErr.Violations,
			})
			return
		}

		switch {
		case errors.Is(err, calendarService.ErrOverlap):
			h.logger.Warn("PUT /users/%d/calendar/%s/slots - overlap: %v", ownerID, vars["date"], err)
			handlers.RespondBadRequest(w, msgSlotsOverlap)
		default:
			h.logger.Error("PUT /users/%d/calendar/%s/slots - failed: %v", ownerID, vars["date"], err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /users/%d/calendar/%s/slots - updated, status=%s", ownerID, vars["date"], entry.Status)
	handlers.RespondJSON(w, http.StatusOK, FromEntry(entry))
}
