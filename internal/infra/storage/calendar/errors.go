package calendar

import "errors"

var (
	// ErrEntryNotFound возвращается, когда запись календаря не найдена
	ErrEntryNotFound = errors.New("calendar.repository: entry not found")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("calendar.repository: slot not found")

	// ErrVersionConflict возвращается при неудачном compare-and-set:
	// версия слота изменилась с момента чтения
	ErrVersionConflict = errors.New("calendar.repository: slot version conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("calendar.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("calendar.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("calendar.repository: failed to scan row")
)
