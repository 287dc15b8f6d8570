package pattern

import "errors"

var (
	// ErrPatternNotFound возвращается, когда паттерн не найден
	ErrPatternNotFound = errors.New("pattern.repository: pattern not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("pattern.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("pattern.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("pattern.repository: failed to scan row")

	// ErrEncodeSchedule возвращается при ошибке сериализации расписания паттерна
	ErrEncodeSchedule = errors.New("pattern.repository: failed to encode schedule")
)
