package get_calendar

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
	"github.com/m04kA/SMC-CalendarService/internal/service/privacy"
)

const (
	msgInvalidUserID = "некорректный идентификатор пользователя"
	msgInvalidRange  = "некорректный диапазон дат, ожидается from и to в формате YYYY-MM-DD"
)

type Handler struct {
	calendarSvc CalendarService
	privacySvc  PrivacyService
	logger      Logger
}

func NewHandler(calendarSvc CalendarService, privacySvc PrivacyService, logger Logger) *Handler {
	return &Handler{
		calendarSvc: calendarSvc,
		privacySvc:  privacySvc,
		logger:      logger,
	}
}

// Handle GET /api/v1/users/{userId}/calendar?from=YYYY-MM-DD&to=YYYY-MM-DD
// Посторонний зритель получает представление, отфильтрованное настройками
// приватности владельца.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || ownerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	from, err := time.Parse(domain.DateFormat, r.URL.Query().Get("from"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}
	to, err := time.Parse(domain.DateFormat, r.URL.Query().Get("to"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	viewerID, _ := middleware.UserIDFromContext(r.Context())

	entries, err := h.calendarSvc.GetEntriesInRange(r.Context(), ownerID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, calendarService.ErrInvalidRange):
			h.logger.Warn("GET /users/%d/calendar - invalid range: %v", ownerID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)
		default:
			h.logger.Error("GET /users/%d/calendar - failed: %v", ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	settings, err := h.privacySvc.GetSettings(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("GET /users/%d/calendar - privacy settings failed: %v", ownerID, err)
		handlers.RespondInternalError(w)
		return
	}

	visible := privacy.ComputeVisibleView(entries, settings, viewerID)

	h.logger.Info("GET /users/%d/calendar - viewer=%d entries=%d visible=%d",
		ownerID, viewerID, len(entries), len(visible))
	handlers.RespondJSON(w, http.StatusOK, FromEntries(ownerID, from, to, visible))
}
