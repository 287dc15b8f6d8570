package export_calendar

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/api/middleware"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	exportService "github.com/m04kA/SMC-CalendarService/internal/service/export"
)

const (
	msgInvalidUserID       = "некорректный идентификатор пользователя"
	msgInvalidDateRange    = "некорректный диапазон дат"
	msgUnsupportedFormat   = "неподдерживаемый формат экспорта"
	msgPermissionDenied    = "экспорт доступен только владельцу календаря"
	defaultExportRangeDays = 30
)

type Handler struct {
	exportSvc ExportService
	logger    Logger
}

func NewHandler(exportSvc ExportService, logger Logger) *Handler {
	return &Handler{
		exportSvc: exportSvc,
		logger:    logger,
	}
}

// Handle GET /api/v1/users/{userId}/calendar/export?format=ics&from=...&to=...
// Без from/to выгружается ближайший месяц начиная с сегодняшнего дня.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || ownerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	authUserID, _ := middleware.UserIDFromContext(r.Context())
	if authUserID != ownerID {
		h.logger.Warn("GET /users/%d/calendar/export - forbidden for user=%d", ownerID, authUserID)
		handlers.RespondForbidden(w, msgPermissionDenied)
		return
	}

	query := r.URL.Query()
	format := exportService.Format(query.Get("format"))
	if format == "" {
		format = exportService.FormatICS
	}

	from := time.Now().UTC().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, defaultExportRangeDays)
	if raw := query.Get("from"); raw != "" {
		from, err = time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDateRange)
			return
		}
	}
	if raw := query.Get("to"); raw != "" {
		to, err = time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDateRange)
			return
		}
	}

	data, contentType, err := h.exportSvc.Export(r.Context(), ownerID, from, to, format)
	if err != nil {
		switch {
		case errors.Is(err, exportService.ErrUnsupportedFormat):
			h.logger.Warn("GET /users/%d/calendar/export - unsupported format %q", ownerID, format)
			handlers.RespondBadRequest(w, msgUnsupportedFormat)

		case errors.Is(err, exportService.ErrInvalidRange):
			h.logger.Warn("GET /users/%d/calendar/export - invalid range %s..%s", ownerID, query.Get("from"), query.Get("to"))
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		default:
			h.logger.Error("GET /users/%d/calendar/export - failed: %v", ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/%d/calendar/export - format=%s bytes=%d", ownerID, format, len(data))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=calendar-%d.%s", ownerID, format))
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}
