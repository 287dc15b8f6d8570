package privacy

import "errors"

var (
	// ErrInvalidSettings возвращается при некорректных настройках приватности
	ErrInvalidSettings = errors.New("privacy: invalid settings")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("privacy: internal error")
)
