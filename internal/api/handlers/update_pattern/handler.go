package update_pattern

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	createPatternHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/create_pattern"
	"github.com/m04kA/SMC-CalendarService/internal/api/middleware"
	patternsService "github.com/m04kA/SMC-CalendarService/internal/service/patterns"
)

const (
	msgInvalidUserID      = "некорректный идентификатор пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDates       = "некорректный формат дат или времени в паттерне"
	msgInvalidPattern     = "некорректное определение паттерна"
	msgPatternNotFound    = "паттерн не найден"
	msgPermissionDenied   = "нет доступа к чужому паттерну"
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

// Handle PUT /api/v1/users/{userId}/patterns/{patternId}
// Обновление не трогает уже материализованные записи - меняются только
// будущие применения паттерна.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ownerID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil || ownerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}
	patternID := vars["patternId"]

	authUserID, _ := middleware.UserIDFromContext(r.Context())
	if authUserID != ownerID {
		handlers.RespondForbidden(w, msgPermissionDenied)
		return
	}

	var req createPatternHandler.PatternRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /users/%d/patterns/%s - invalid body: %v", ownerID, patternID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	pattern, err := req.ToDomain(ownerID)
	if err != nil {
		h.logger.Warn("PUT /users/%d/patterns/%s - parse failed: %v", ownerID, patternID, err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}
	pattern.ID = patternID

	updated, err := h.patternSvc.Update(r.Context(), ownerID, pattern)
	if err != nil {
		switch {
		case errors.Is(err, patternsService.ErrPatternNotFound):
			h.logger.Warn("PUT /users/%d/patterns/%s - not found", ownerID, patternID)
			handlers.RespondNotFound(w, msgPatternNotFound)
		case errors.Is(err, patternsService.ErrPermissionDenied):
			h.logger.Warn("PUT /users/%d/patterns/%s - permission denied", ownerID, patternID)
			handlers.RespondForbidden(w, msgPermissionDenied)
		case errors.Is(err, patternsService.ErrInvalidPattern):
			h.logger.Warn("PUT /users/%d/patterns/%s - invalid pattern: %v", ownerID, patternID, err)
			handlers.RespondBadRequest(w, msgInvalidPattern)
		default:
			h.logger.Error("PUT /users/%d/patterns/%s - failed: %v", ownerID, patternID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /users/%d/patterns/%s - updated", ownerID, patternID)
	handlers.RespondJSON(w, http.StatusOK, createPatternHandler.FromDomain(updated))
}
