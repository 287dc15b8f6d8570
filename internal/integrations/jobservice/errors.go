package jobservice

import "errors"

var (
	// ErrJobNotFound возвращается, когда работа не найдена в JobService
	ErrJobNotFound = errors.New("job not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("jobservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("jobservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation.
	// Указывает, что JobService недоступен и бронирование создаётся
	// с данными, переданными клиентом напрямую.
	ErrServiceDegraded = errors.New("jobservice unavailable: graceful degradation applied")
)
