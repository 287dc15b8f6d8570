package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrConflictNotFound возвращается, когда запись конфликта не найдена
	ErrConflictNotFound = errors.New("bookings: conflict not found")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("bookings: invalid status transition")

	// ErrInvalidAction возвращается при неизвестном действии разрешения конфликта
	ErrInvalidAction = errors.New("bookings: invalid resolution action")

	// ErrPermissionDenied возвращается при попытке работы с чужим бронированием
	ErrPermissionDenied = errors.New("bookings: permission denied")

	// ErrVersionConflict возвращается, когда слот изменился между чтением и записью
	ErrVersionConflict = errors.New("bookings: slot version conflict")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
