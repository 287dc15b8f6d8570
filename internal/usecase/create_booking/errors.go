package create_booking

import "errors"

var (
	// ErrJobNotFound возвращается, когда работа не найдена в JobService
	ErrJobNotFound = errors.New("create_booking: job not found")

	// ErrOwnerNotBookable возвращается, когда владелец скрыл календарь от зрителя
	ErrOwnerNotBookable = errors.New("create_booking: owner calendar is not bookable for this user")

	// ErrTooLateToBook возвращается при нарушении минимального lead time владельца
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrDateTooFarInFuture возвращается, когда дата превышает advanceBookingDays владельца
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrSlotNotAvailable возвращается, когда на дату нет подходящей доступности
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrBookingConflict возвращается при полном пересечении с существующим
	// бронированием либо при проигрыше гонки за слот (version conflict)
	ErrBookingConflict = errors.New("create_booking: booking conflict")

	// ErrInvalidTimeSlot возвращается, когда кандидат частично накрывает
	// существующий свободный слот - занять можно либо слот целиком,
	// либо свободный промежуток
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
