package create_pattern

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/api/middleware"
	patternsService "github.com/m04kA/SMC-CalendarService/internal/service/patterns"
)

const (
	msgInvalidUserID      = "некорректный идентификатор пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDates       = "некорректный формат дат или времени в паттерне"
	msgInvalidPattern     = "некорректное определение паттерна"
	msgPermissionDenied   = "нет доступа к чужому календарю"
)

type Handler struct {
	patternSvc PatternService
	logger     Logger
}

func NewHandler(patternSvc PatternService, logger Logger) *Handler {
	return &Handler{
		patternSvc: patternSvc,
		logger:     logger,
	}
}

// Handle POST /api/v1/users/{userId}/patterns
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || ownerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	authUserID, _ := middleware.UserIDFromContext(r.Context())
	if authUserID != ownerID {
		handlers.RespondForbidden(w, msgPermissionDenied)
		return
	}

	var req PatternRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /users/%d/patterns - invalid body: %v", ownerID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	pattern, err := req.ToDomain(ownerID)
	if err != nil {
		h.logger.Warn("POST /users/%d/patterns - parse failed: %v", ownerID, err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	created, err := h.patternSvc.Create(r.Context(), pattern)
	if err != nil {
		switch {
		case errors.Is(err, patternsService.ErrInvalidPattern):
			h.logger.Warn("POST /users/%d/patterns - invalid pattern: %v", ownerID, err)
			handlers.RespondBadRequest(w, msgInvalidPattern)
		default:
			h.logger.Error("POST /users/%d/patterns - failed: %v", ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /users/%d/patterns - created pattern=%s", ownerID, created.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(created))
}
