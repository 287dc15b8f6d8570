package delete_pattern

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
	msgInvalidUserID    = "некорректный идентификатор пользователя"
	msgPatternNotFound  = "паттерн не найден"
	msgPermissionDenied = "нет доступа к чужому паттерну"
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

// Handle DELETE /api/v1/users/{userId}/patterns/{patternId}
// Материализованные записи календаря сохраняются - снимается только
// связь с паттерном.
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

	if err := h.patternSvc.Delete(r.Context(), ownerID, patternID); err != nil {
		switch {
		case errors.Is(err, patternsService.ErrPatternNotFound):
			h.logger.Warn("DELETE /users/%d/patterns/%s - not found", ownerID, patternID)
			handlers.RespondNotFound(w, msgPatternNotFound)
		case errors.Is(err, patternsService.ErrPermissionDenied):
			h.logger.Warn("DELETE /users/%d/patterns/%s - permission denied", ownerID, patternID)
			handlers.RespondForbidden(w, msgPermissionDenied)
		default:
			h.logger.Error("DELETE /users/%d/patterns/%s - failed: %v", ownerID, patternID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /users/%d/patterns/%s - deleted", ownerID, patternID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
