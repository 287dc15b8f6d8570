package get_privacy

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/api/middleware"
)

const (
	msgInvalidUserID    = "некорректный идентификатор пользователя"
	msgPermissionDenied = "нет доступа к настройкам приватности другого пользователя"
)

type Handler struct {
	privacySvc PrivacyService
	logger     Logger
}

func NewHandler(privacySvc PrivacyService, logger Logger) *Handler {
	return &Handler{
		privacySvc: privacySvc,
		logger:     logger,
	}
}

// Handle GET /api/v1/users/{userId}/privacy
// Для пользователя без сохранённых настроек возвращаются значения по умолчанию.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || ownerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	authUserID, _ := middleware.UserIDFromContext(r.Context())
	if authUserID != ownerID {
		h.logger.Warn("GET /users/%d/privacy - forbidden for user=%d", ownerID, authUserID)
		handlers.RespondForbidden(w, msgPermissionDenied)
		return
	}

	settings, err := h.privacySvc.GetSettings(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("GET /users/%d/privacy - failed: %v", ownerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/%d/privacy - level=%s", ownerID, settings.VisibilityLevel)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(settings))
}
