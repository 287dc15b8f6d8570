package export

import "errors"

var (
	// ErrUnsupportedFormat возвращается для неизвестного формата экспорта/импорта
	ErrUnsupportedFormat = errors.New("export: unsupported format")

	// ErrParse возвращается, когда импортируемый файл не разбирается целиком.
	// Построчные ошибки в ImportResult.Errors фатальными не являются.
	ErrParse = errors.New("export: cannot parse import payload")

	// ErrInvalidRange возвращается при некорректном диапазоне экспорта
	ErrInvalidRange = errors.New("export: invalid date range")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("export: internal error")
)
