package resolve_conflict

import (
	"context"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

type BookingService interface {
	ResolveConflict(ctx context.Context, userID int64, conflictID string, action domain.ResolutionAction) (*domain.BookingConflict, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
