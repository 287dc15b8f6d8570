package check_conflicts

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/conflict"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/types"
)

const (
	msgInvalidUserID      = "некорректный идентификатор пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени"
)

// CheckConflictsRequest HTTP модель запроса проверки конфликтов
type CheckConflictsRequest struct {
	Date             string  `json:"date"`
	StartTime        string  `json:"startTime"`
	EndTime          string  `json:"endTime"`
	ExcludeBookingID *string `json:"excludeBookingId,omitempty"`
}

// OverlapResponse HTTP модель обнаруженного пересечения
type OverlapResponse struct {
	Type      string `json:"conflictType"`
	SlotID    string `json:"slotId"`
	BookingID string `json:"bookingId,omitempty"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// CheckConflictsResponse HTTP модель результата проверки
type CheckConflictsResponse struct {
	HasConflicts bool              `json:"hasConflicts"`
	Overlaps     []OverlapResponse `json:"overlaps"`
}

type Handler struct {
	bookingSvc BookingService
	logger     Logger
}

func NewHandler(bookingSvc BookingService, logger Logger) *Handler {
	return &Handler{
		bookingSvc: bookingSvc,
		logger:     logger,
	}
}

// Handle POST /api/v1/users/{userId}/bookings/check-conflicts
// Чистая проверка: конфликты не записываются, календарь не меняется.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || ownerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	var req CheckConflictsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /users/%d/bookings/check-conflicts - invalid body: %v", ownerID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}
	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	overlaps, err := h.bookingSvc.CheckConflicts(r.Context(), ownerID, date, start, end, req.ExcludeBookingID)
	if err != nil {
		h.logger.Error("POST /users/%d/bookings/check-conflicts - failed: %v", ownerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /users/%d/bookings/check-conflicts - date=%s overlaps=%d", ownerID, req.Date, len(overlaps))
	handlers.RespondJSON(w, http.StatusOK, fromOverlaps(overlaps))
}

func fromOverlaps(overlaps []conflict.Overlap) *CheckConflictsResponse {
	resp := &CheckConflictsResponse{
		HasConflicts: len(overlaps) > 0,
		Overlaps:     make([]OverlapResponse, 0, len(overlaps)),
	}
	for _, o := range overlaps {
		resp.Overlaps = append(resp.Overlaps, OverlapResponse{
			Type:      string(o.Type),
			SlotID:    o.SlotID,
			BookingID: o.BookingID,
			StartTime: o.StartTime.String(),
			EndTime:   o.EndTime.String(),
		})
	}
	return resp
}
