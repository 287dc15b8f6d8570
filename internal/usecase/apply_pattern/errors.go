package apply_pattern

import "errors"

var (
	// ErrPatternNotFound возвращается, когда паттерн не найден
	ErrPatternNotFound = errors.New("apply_pattern: pattern not found")

	// ErrPermissionDenied возвращается при попытке применить чужой паттерн
	ErrPermissionDenied = errors.New("apply_pattern: permission denied")

	// ErrPatternInactive возвращается при применении деактивированного паттерна
	ErrPatternInactive = errors.New("apply_pattern: pattern is inactive")

	// ErrInvalidRange возвращается при некорректном диапазоне дат
	ErrInvalidRange = errors.New("apply_pattern: invalid date range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("apply_pattern: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("apply_pattern: internal error")
)
