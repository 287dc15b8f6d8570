package patterns

import "errors"

var (
	// ErrPatternNotFound возвращается, когда паттерн не найден
	ErrPatternNotFound = errors.New("patterns: pattern not found")

	// ErrPermissionDenied возвращается при попытке работы с чужим паттерном
	ErrPermissionDenied = errors.New("patterns: permission denied")

	// ErrInvalidPattern возвращается при некорректном определении паттерна
	ErrInvalidPattern = errors.New("patterns: invalid pattern definition")

	// ErrInvalidRange возвращается при некорректном диапазоне дат
	ErrInvalidRange = errors.New("patterns: invalid date range")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("patterns: internal error")
)
