package apply_pattern

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/api/middleware"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	applyPattern "github.com/m04kA/SMC-CalendarService/internal/usecase/apply_pattern"
)

const (
	msgInvalidUserID      = "некорректный идентификатор пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRange       = "некорректный диапазон дат, ожидается YYYY-MM-DD"
	msgPatternNotFound    = "паттерн не найден"
	msgPatternInactive    = "паттерн деактивирован"
	msgPermissionDenied   = "нет доступа к чужому паттерну"
)

// ApplyPatternRequest HTTP модель запроса на применение паттерна
type ApplyPatternRequest struct {
	From              string `json:"from"`
	To                string `json:"to"`
	OverwriteExisting bool   `json:"overwriteExisting,omitempty"`
	SkipConflicts     bool   `json:"skipConflicts,omitempty"`
}

type Handler struct {
	useCase ApplyPatternUseCase
	logger  Logger
}

func NewHandler(useCase ApplyPatternUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/users/{userId}/patterns/{patternId}/apply
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

	var req ApplyPatternRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /users/%d/patterns/%s/apply - invalid body: %v", ownerID, patternID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	from, err := time.Parse(domain.DateFormat, req.From)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}
	to, err := time.Parse(domain.DateFormat, req.To)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &applyPattern.Request{
		UserID:            ownerID,
		PatternID:         patternID,
		From:              from,
		To:                to,
		OverwriteExisting: req.OverwriteExisting,
		SkipConflicts:     req.SkipConflicts,
	})
	if err != nil {
		switch {
		case errors.Is(err, applyPattern.ErrPatternNotFound):
			h.logger.Warn("POST /users/%d/patterns/%s/apply - not found", ownerID, patternID)
			handlers.RespondNotFound(w, msgPatternNotFound)
		case errors.Is(err, applyPattern.ErrPermissionDenied):
			h.logger.Warn("POST /users/%d/patterns/%s/apply - permission denied", ownerID, patternID)
			handlers.RespondForbidden(w, msgPermissionDenied)
		case errors.Is(err, applyPattern.ErrPatternInactive):
			h.logger.Warn("POST /users/%d/patterns/%s/apply - inactive", ownerID, patternID)
			handlers.RespondBadRequest(w, msgPatternInactive)
		case errors.Is(err, applyPattern.ErrInvalidRange), errors.Is(err, applyPattern.ErrInvalidInput):
			h.logger.Warn("POST /users/%d/patterns/%s/apply - invalid range: %v", ownerID, patternID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)
		default:
			h.logger.Error("POST /users/%d/patterns/%s/apply - failed: %v", ownerID, patternID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /users/%d/patterns/%s/apply - applied=%d skipped=%d errors=%d",
		ownerID, patternID, len(result.AppliedDates), len(result.SkippedDates), len(result.Errors))
	handlers.RespondJSON(w, http.StatusOK, result)
}
