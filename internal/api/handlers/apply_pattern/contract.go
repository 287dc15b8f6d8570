package apply_pattern

import (
	"context"

	applyPattern "github.com/m04kA/SMC-CalendarService/internal/usecase/apply_pattern"
)

type ApplyPatternUseCase interface {
	Execute(ctx context.Context, req *applyPattern.Request) (*applyPattern.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
