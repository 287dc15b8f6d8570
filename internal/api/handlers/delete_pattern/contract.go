package delete_pattern

import "context"

type PatternService interface {
	Delete(ctx context.Context, userID int64, patternID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
