package import_calendar

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/api/middleware"
	exportService "github.com/m04kA/SMC-CalendarService/internal/service/export"
)

const (
	msgInvalidUserID     = "некорректный идентификатор пользователя"
	msgUnsupportedFormat = "неподдерживаемый формат импорта"
	msgUnparsablePayload = "файл импорта не удалось разобрать"
	msgEmptyPayload      = "пустое тело запроса"
	msgPermissionDenied  = "импорт доступен только владельцу календаря"

	// Разумный потолок для файла импорта
	maxImportBytes = 4 << 20
)

type Handler struct {
	importSvc ImportService
	logger    Logger
}

func NewHandler(importSvc ImportService, logger Logger) *Handler {
	return &Handler{
		importSvc: importSvc,
		logger:    logger,
	}
}

// Handle POST /api/v1/users/{userId}/calendar/import?format=ics
// Каждая дата применяется независимо; ошибки по датам собираются в ответ.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || ownerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	authUserID, _ := middleware.UserIDFromContext(r.Context())
	if authUserID != ownerID {
		h.logger.Warn("POST /users/%d/calendar/import - forbidden for user=%d", ownerID, authUserID)
		handlers.RespondForbidden(w, msgPermissionDenied)
		return
	}

	format := exportService.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = exportService.FormatICS
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		h.logger.Warn("POST /users/%d/calendar/import - read body failed: %v", ownerID, err)
		handlers.RespondBadRequest(w, msgUnparsablePayload)
		return
	}
	if len(data) == 0 {
		handlers.RespondBadRequest(w, msgEmptyPayload)
		return
	}

	result, err := h.importSvc.Import(r.Context(), ownerID, format, data)
	if err != nil {
		switch {
		case errors.Is(err, exportService.ErrUnsupportedFormat):
			h.logger.Warn("POST /users/%d/calendar/import - unsupported format %q", ownerID, format)
			handlers.RespondBadRequest(w, msgUnsupportedFormat)

		case errors.Is(err, exportService.ErrParse):
			h.logger.Warn("POST /users/%d/calendar/import - parse failed: %v", ownerID, err)
			handlers.RespondBadRequest(w, msgUnparsablePayload)

		default:
			h.logger.Error("POST /users/%d/calendar/import - failed: %v", ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /users/%d/calendar/import - format=%s imported=%d errors=%d",
		ownerID, format, result.ImportedCount, len(result.Errors))
	handlers.RespondJSON(w, http.StatusOK, result)
}
