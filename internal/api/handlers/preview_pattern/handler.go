package preview_pattern

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/api/middleware"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	patternsService "github.com/m04kA/SMC-CalendarService/internal/service/patterns"
)

const (
	msgInvalidUserID    = "некорректный идентификатор пользователя"
	msgInvalidRange     = "некорректный диапазон дат, ожидается from и to в формате YYYY-MM-DD"
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

// Handle GET /api/v1/users/{userId}/patterns/{patternId}/preview?from=&to=
// Предпросмотр ничего не записывает: использует ту же проекцию,
// что и применение, поэтому результат не разойдётся с реальным.
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

	result, err := h.patternSvc.Preview(r.Context(), ownerID, patternID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, patternsService.ErrPatternNotFound):
			h.logger.Warn("GET /users/%d/patterns/%s/preview - not found", ownerID, patternID)
			handlers.RespondNotFound(w, msgPatternNotFound)
		case errors.Is(err, patternsService.ErrPermissionDenied):
			h.logger.Warn("GET /users/%d/patterns/%s/preview - permission denied", ownerID, patternID)
			handlers.RespondForbidden(w, msgPermissionDenied)
		case errors.Is(err, patternsService.ErrInvalidRange):
			h.logger.Warn("GET /users/%d/patterns/%s/preview - invalid range: %v", ownerID, patternID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)
		default:
			h.logger.Error("GET /users/%d/patterns/%s/preview - failed: %v", ownerID, patternID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/%d/patterns/%s/preview - dates=%d conflicts=%d",
		ownerID, patternID, len(result.Dates), len(result.Conflicts))
	handlers.RespondJSON(w, http.StatusOK, FromResult(result))
}
