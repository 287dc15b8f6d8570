package update_privacy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	getPrivacyHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/get_privacy"
	"github.com/m04kA/SMC-CalendarService/internal/api/middleware"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	privacyService "github.com/m04kA/SMC-CalendarService/internal/service/privacy"
)

const (
	msgInvalidUserID      = "некорректный идентификатор пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSettings    = "некорректные настройки приватности"
	msgPermissionDenied   = "нет доступа к настройкам приватности другого пользователя"
)

// UpdatePrivacyRequest HTTP модель запроса обновления настроек приватности
type UpdatePrivacyRequest struct {
	IsVisible               bool     `json:"isVisible"`
	VisibilityLevel         string   `json:"visibilityLevel"`
	AllowedUsers            []int64  `json:"allowedUsers"`
	HiddenDates             []string `json:"hiddenDates"`
	ShowPartialAvailability bool     `json:"showPartialAvailability"`
	LeadTimeHours           int      `json:"leadTimeHours"`
	AdvanceBookingDays      int      `json:"advanceBookingDays"`
	NotifyOnBooking         bool     `json:"notifyOnBooking"`
	NotifyOnCancellation    bool     `json:"notifyOnCancellation"`
}

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

// Handle PUT /api/v1/users/{userId}/privacy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || ownerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	authUserID, _ := middleware.UserIDFromContext(r.Context())
	if authUserID != ownerID {
		h.logger.Warn("PUT /users/%d/privacy - forbidden for user=%d", ownerID, authUserID)
		handlers.RespondForbidden(w, msgPermissionDenied)
		return
	}

	var req UpdatePrivacyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /users/%d/privacy - invalid body: %v", ownerID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	settings, err := h.privacySvc.UpdateSettings(r.Context(), req.toDomain(ownerID))
	if err != nil {
		switch {
		case errors.Is(err, privacyService.ErrInvalidSettings):
			h.logger.Warn("PUT /users/%d/privacy - invalid settings: %v", ownerID, err)
			handlers.RespondBadRequest(w, msgInvalidSettings)

		default:
			h.logger.Error("PUT /users/%d/privacy - failed: %v", ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /users/%d/privacy - updated: level=%s lead_time=%dh", ownerID, settings.VisibilityLevel, settings.LeadTimeHours)
	handlers.RespondJSON(w, http.StatusOK, getPrivacyHandler.FromDomain(settings))
}

func (req *UpdatePrivacyRequest) toDomain(userID int64) *domain.PrivacySettings {
	return &domain.PrivacySettings{
		UserID:                  userID,
		IsVisible:               req.IsVisible,
		VisibilityLevel:         domain.VisibilityLevel(req.VisibilityLevel),
		AllowedUsers:            req.AllowedUsers,
		HiddenDates:             req.HiddenDates,
		ShowPartialAvailability: req.ShowPartialAvailability,
		LeadTimeHours:           req.LeadTimeHours,
		AdvanceBookingDays:      req.AdvanceBookingDays,
		NotifyOnBooking:         req.NotifyOnBooking,
		NotifyOnCancellation:    req.NotifyOnCancellation,
	}
}
